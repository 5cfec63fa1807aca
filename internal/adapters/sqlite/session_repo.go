// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/frontdesk/internal/core/escalation"
	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// SessionRepository implements secondary.SessionStore with SQLite.
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SQLite session repository.
// A nil clock defaults to time.Now.
func NewSessionRepository(conn *sql.DB, clock func() time.Time) *SessionRepository {
	if clock == nil {
		clock = time.Now
	}
	return &SessionRepository{db: conn, now: clock}
}

const escalationColumns = `e.id, e.session_id, s.phone_number, e.question, e.status, e.answer, e.created_at, e.closed_at`

// CreateSession persists a new session and returns its generated ID.
func (r *SessionRepository) CreateSession(ctx context.Context, phoneNumber string) (string, error) {
	var phone sql.NullString
	if phoneNumber != "" {
		phone = sql.NullString{String: phoneNumber, Valid: true}
	}

	sessionID := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, phone_number, created_at) VALUES (?, ?, ?)`,
		sessionID, phone, db.FormatTime(r.now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return sessionID, nil
}

// GetSession retrieves a session with its latest escalation.
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*secondary.SessionRecord, error) {
	var phone sql.NullString
	record := &secondary.SessionRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT session_id, phone_number, created_at FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&record.SessionID, &phone, &record.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, secondary.ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	record.PhoneNumber = phone.String

	latest, err := r.GetEscalation(ctx, sessionID)
	switch {
	case errors.Is(err, secondary.ErrEscalationNotFound):
	case err != nil:
		return nil, err
	default:
		record.Escalation = latest
	}

	return record, nil
}

// RecordEscalation appends the question to the session's PENDING escalation
// or opens a new one, in a single transaction.
func (r *SessionRepository) RecordEscalation(ctx context.Context, sessionID, question string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sessionExists(ctx, tx, sessionID); err != nil {
		return err
	}

	var (
		pendingID       int64
		pendingQuestion string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, question FROM escalations WHERE session_id = ? AND status = ?`,
		sessionID, string(escalation.StatusPending),
	).Scan(&pendingID, &pendingQuestion)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to find pending escalation: %w", err)
	}

	plan := escalation.PlanRecord(escalation.RecordInput{
		Question:        question,
		HasPending:      err == nil,
		PendingQuestion: pendingQuestion,
	})

	switch plan.Action {
	case escalation.ActionAppend:
		_, err = tx.ExecContext(ctx,
			`UPDATE escalations SET question = ? WHERE id = ?`,
			plan.Question, pendingID,
		)
	default:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO escalations (session_id, question, status, created_at) VALUES (?, ?, ?, ?)`,
			sessionID, plan.Question, string(plan.Status), db.FormatTime(r.now()),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to record escalation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit escalation: %w", err)
	}
	return nil
}

// GetEscalation retrieves the session's latest escalation.
func (r *SessionRepository) GetEscalation(ctx context.Context, sessionID string) (*secondary.EscalationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+escalationColumns+` FROM escalations e JOIN sessions s ON s.session_id = e.session_id
		WHERE e.session_id = ? ORDER BY e.id DESC LIMIT 1`,
		sessionID,
	)
	record, err := scanEscalation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, secondary.ErrEscalationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escalation: %w", err)
	}
	return record, nil
}

// ResolveEscalation answers the session's latest escalation.
func (r *SessionRepository) ResolveEscalation(ctx context.Context, sessionID, answer string) (*secondary.EscalationRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := sessionExists(ctx, tx, sessionID); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+escalationColumns+` FROM escalations e JOIN sessions s ON s.session_id = e.session_id
		WHERE e.session_id = ? ORDER BY e.id DESC LIMIT 1`,
		sessionID,
	)
	record, err := scanEscalation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, secondary.ErrEscalationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get escalation: %w", err)
	}
	if escalation.Status(record.Status) == escalation.StatusResolved {
		return nil, fmt.Errorf("session %s: %w", sessionID, secondary.ErrEscalationResolved)
	}

	transition := escalation.ApplyResolve(r.now())
	closedAt := db.FormatTime(transition.ClosedAt)
	_, err = tx.ExecContext(ctx,
		`UPDATE escalations SET status = ?, answer = ?, closed_at = ? WHERE id = ?`,
		string(transition.NewStatus), answer, closedAt, record.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve escalation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit resolution: %w", err)
	}

	record.Status = string(transition.NewStatus)
	record.Answer = answer
	record.ClosedAt = closedAt
	return record, nil
}

// ExpireEscalation marks a PENDING escalation UNRESOLVED. The update is
// conditional so a concurrent resolution is never overwritten.
func (r *SessionRepository) ExpireEscalation(ctx context.Context, escalationID int64) (bool, error) {
	transition := escalation.ApplyExpire(r.now())
	result, err := r.db.ExecContext(ctx,
		`UPDATE escalations SET status = ?, closed_at = ? WHERE id = ? AND status = ?`,
		string(transition.NewStatus), db.FormatTime(transition.ClosedAt), escalationID, string(escalation.StatusPending),
	)
	if err != nil {
		return false, fmt.Errorf("failed to expire escalation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to expire escalation: %w", err)
	}
	return affected == 1, nil
}

// ListEscalations retrieves escalations matching the given filters, newest first.
func (r *SessionRepository) ListEscalations(ctx context.Context, filters secondary.EscalationFilters) ([]*secondary.EscalationRecord, error) {
	query := `SELECT ` + escalationColumns + ` FROM escalations e JOIN sessions s ON s.session_id = e.session_id WHERE 1=1`
	args := []any{}

	if filters.Status != "" {
		query += " AND e.status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY e.created_at DESC, e.id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalations: %w", err)
	}
	defer rows.Close()

	var escalations []*secondary.EscalationRecord
	for rows.Next() {
		record, err := scanEscalation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation: %w", err)
		}
		escalations = append(escalations, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate escalations: %w", err)
	}
	return escalations, nil
}

// CountEscalations returns the number of escalations in the given status.
func (r *SessionRepository) CountEscalations(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM escalations WHERE status = ?`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count escalations: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEscalation(row rowScanner) (*secondary.EscalationRecord, error) {
	var (
		phone    sql.NullString
		answer   sql.NullString
		closedAt sql.NullString
	)
	record := &secondary.EscalationRecord{}
	err := row.Scan(&record.ID, &record.SessionID, &phone, &record.Question, &record.Status, &answer, &record.CreatedAt, &closedAt)
	if err != nil {
		return nil, err
	}
	record.PhoneNumber = phone.String
	record.Answer = answer.String
	record.ClosedAt = closedAt.String
	return record, nil
}

func sessionExists(ctx context.Context, tx *sql.Tx, sessionID string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE session_id = ?`, sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("session %s: %w", sessionID, secondary.ErrSessionNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	return nil
}

var _ secondary.SessionStore = (*SessionRepository)(nil)
