// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which callers, supervisors and operators drive it.
package primary

import (
	"context"
	"errors"
)

// Errors surfaced to driving adapters. Adapters map them to status codes.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAnswerRequired  = errors.New("answer is required")
	ErrQueryRequired   = errors.New("query is required")
	ErrMemberExists    = errors.New("member already exists")
	ErrAlreadyResolved = errors.New("escalation already resolved")
	ErrInvalidPhone    = errors.New("phone number must contain digits")
	ErrInvalidStatus   = errors.New("status must be PENDING, RESOLVED or UNRESOLVED")
)

// ReceptionistService defines the primary port for the live call path.
type ReceptionistService interface {
	// Greeting returns the opening line spoken when a call connects.
	Greeting() string

	// StartSession opens a session for an incoming call.
	StartSession(ctx context.Context, phoneNumber string) (*StartSessionResponse, error)

	// HandleQuery answers a caller question or escalates it to a supervisor.
	// Any non-blank query gets a reply the caller can hear.
	HandleQuery(ctx context.Context, caller Caller, query string) (*QueryResponse, error)
}

// Caller identifies the call a query belongs to.
type Caller struct {
	SessionID   string
	PhoneNumber string // May be empty
}

// StartSessionResponse contains the result of opening a session.
type StartSessionResponse struct {
	SessionID string
	Greeting  string
}

// QueryResponse contains the reply for one caller question.
type QueryResponse struct {
	Reply     string
	Escalated bool
	TopScore  float64
}
