package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/frontdesk/internal/ports/primary"
)

// SessionAdapter is a thin adapter that translates CLI operations to ResolutionService calls.
// It depends only on the ResolutionService interface, enabling easy testing with mocks.
type SessionAdapter struct {
	service primary.ResolutionService
	out     io.Writer
}

// NewSessionAdapter creates a new SessionAdapter with the given service.
func NewSessionAdapter(service primary.ResolutionService, out io.Writer) *SessionAdapter {
	return &SessionAdapter{
		service: service,
		out:     out,
	}
}

// List lists escalated sessions with an optional status filter.
func (a *SessionAdapter) List(ctx context.Context, status string, limit int) ([]*primary.SessionSummary, error) {
	sessions, err := a.service.ListSessions(ctx, primary.SessionFilters{Status: status, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No escalations found.")
		return sessions, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tPHONE\tSTATUS\tCREATED\tQUESTION")
	fmt.Fprintln(w, "-------\t-----\t------\t-------\t--------")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.SessionID,
			orDash(s.PhoneNumber),
			colorStatus(s.Status),
			s.CreatedAt,
			s.Question,
		)
	}
	w.Flush()

	return sessions, nil
}

// Show displays one session and its latest escalation.
func (a *SessionAdapter) Show(ctx context.Context, sessionID string) (*primary.SessionSummary, error) {
	s, err := a.service.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	fmt.Fprintf(a.out, "\nSession:  %s\n", s.SessionID)
	fmt.Fprintf(a.out, "Phone:    %s\n", orDash(s.PhoneNumber))
	fmt.Fprintf(a.out, "Status:   %s\n", colorStatus(s.Status))
	if s.Question != "" {
		fmt.Fprintf(a.out, "Question: %s\n", s.Question)
	}
	if s.Answer != "" {
		fmt.Fprintf(a.out, "Answer:   %s\n", s.Answer)
	}
	fmt.Fprintf(a.out, "Created:  %s\n", s.CreatedAt)
	fmt.Fprintln(a.out)

	return s, nil
}

// Resolve records a supervisor answer for a session.
func (a *SessionAdapter) Resolve(ctx context.Context, sessionID, answer string) error {
	resp, err := a.service.Resolve(ctx, primary.ResolveRequest{SessionID: sessionID, Answer: answer})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ %s\n", resp.Message)
	fmt.Fprintf(a.out, "  Question: %s\n", resp.Question)
	return nil
}
