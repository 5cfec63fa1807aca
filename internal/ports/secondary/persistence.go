// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// Sentinel errors returned by persistence adapters.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrEscalationNotFound = errors.New("escalation not found")
	ErrEscalationResolved = errors.New("escalation already resolved")
	ErrMemberExists       = errors.New("member already exists")
)

// SessionStore defines the secondary port for call sessions and their escalations.
type SessionStore interface {
	// CreateSession persists a new session and returns its generated ID.
	// An empty phone number is stored as NULL.
	CreateSession(ctx context.Context, phoneNumber string) (string, error)

	// GetSession retrieves a session with its latest escalation, if any.
	GetSession(ctx context.Context, sessionID string) (*SessionRecord, error)

	// RecordEscalation appends the question to the session's PENDING
	// escalation, or opens a new PENDING escalation when none is open.
	RecordEscalation(ctx context.Context, sessionID, question string) error

	// ResolveEscalation stores the supervisor answer on the session's latest
	// escalation and marks it RESOLVED. Returns the resolved escalation, or
	// ErrEscalationResolved when the latest escalation already has an answer.
	ResolveEscalation(ctx context.Context, sessionID, answer string) (*EscalationRecord, error)

	// GetEscalation retrieves the session's latest escalation.
	// Returns ErrEscalationNotFound when the session never escalated.
	GetEscalation(ctx context.Context, sessionID string) (*EscalationRecord, error)

	// ExpireEscalation marks a PENDING escalation UNRESOLVED. It reports false
	// when the escalation was no longer PENDING.
	ExpireEscalation(ctx context.Context, escalationID int64) (bool, error)

	// ListEscalations retrieves escalations matching the filters, newest first.
	ListEscalations(ctx context.Context, filters EscalationFilters) ([]*EscalationRecord, error)

	// CountEscalations returns the number of escalations in the given status.
	CountEscalations(ctx context.Context, status string) (int, error)
}

// SessionRecord represents a call session as stored in persistence.
type SessionRecord struct {
	SessionID   string
	PhoneNumber string // empty when the caller gave none
	CreatedAt   string
	Escalation  *EscalationRecord // latest escalation, nil when never escalated
}

// EscalationRecord represents one escalation cycle as stored in persistence.
type EscalationRecord struct {
	ID          int64
	SessionID   string
	PhoneNumber string // joined from the session
	Question    string
	Status      string
	Answer      string // empty unless RESOLVED
	CreatedAt   string
	ClosedAt    string
}

// EscalationFilters contains filter options for querying escalations.
type EscalationFilters struct {
	Status string
	Limit  int
}

// MemberRepository defines the secondary port for salon membership.
type MemberRepository interface {
	// GetByPhone retrieves a member, or nil when the number is not a member.
	GetByPhone(ctx context.Context, phoneNumber string) (*MemberRecord, error)

	// Create registers a member. Returns ErrMemberExists on duplicates.
	Create(ctx context.Context, phoneNumber string) (*MemberRecord, error)
}

// MemberRecord represents a member as stored in persistence.
type MemberRecord struct {
	ID          int64
	PhoneNumber string
	CreatedAt   string
}
