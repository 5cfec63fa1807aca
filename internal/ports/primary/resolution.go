package primary

import (
	"context"
	"encoding/json"
)

// ResolutionService defines the primary port for supervisors.
type ResolutionService interface {
	// ListSessions lists escalated sessions, optionally filtered by status.
	ListSessions(ctx context.Context, filters SessionFilters) ([]*SessionSummary, error)

	// GetSession retrieves one session with its latest escalation.
	GetSession(ctx context.Context, sessionID string) (*SessionSummary, error)

	// Resolve records a supervisor answer and teaches it to the knowledge base.
	Resolve(ctx context.Context, req ResolveRequest) (*ResolveResponse, error)
}

// SessionSummary is a session as shown to supervisors. Empty optional
// fields encode as JSON null.
type SessionSummary struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"session_id"`
	PhoneNumber string `json:"phone_number"` // May be empty
	Question    string `json:"question"`     // May be empty
	Status      string `json:"status"`       // May be empty when never escalated
	Answer      string `json:"answer"`       // May be empty
	CreatedAt   string `json:"created_at"`
}

// MarshalJSON writes null for the optional fields that are empty.
func (s SessionSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int64   `json:"id"`
		SessionID   string  `json:"session_id"`
		PhoneNumber *string `json:"phone_number"`
		Question    *string `json:"question"`
		Status      *string `json:"status"`
		Answer      *string `json:"answer"`
		CreatedAt   string  `json:"created_at"`
	}{
		ID:          s.ID,
		SessionID:   s.SessionID,
		PhoneNumber: nullable(s.PhoneNumber),
		Question:    nullable(s.Question),
		Status:      nullable(s.Status),
		Answer:      nullable(s.Answer),
		CreatedAt:   s.CreatedAt,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SessionFilters contains filter options for listing sessions.
type SessionFilters struct {
	Status string // PENDING, RESOLVED, UNRESOLVED or empty for all
	Limit  int
}

// ResolveRequest contains parameters for answering an escalation.
type ResolveRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// ResolveResponse contains the result of answering an escalation.
type ResolveResponse struct {
	Message  string
	Question string
}
