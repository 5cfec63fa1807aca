package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// MemberRepository implements secondary.MemberRepository with SQLite.
type MemberRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewMemberRepository creates a new SQLite member repository.
func NewMemberRepository(conn *sql.DB, clock func() time.Time) *MemberRepository {
	if clock == nil {
		clock = time.Now
	}
	return &MemberRepository{db: conn, now: clock}
}

// Create registers a member.
func (r *MemberRepository) Create(ctx context.Context, phoneNumber string) (*secondary.MemberRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE phone_number = ?`, phoneNumber,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("member %s: %w", phoneNumber, secondary.ErrMemberExists)
	}

	record := &secondary.MemberRecord{
		PhoneNumber: phoneNumber,
		CreatedAt:   db.FormatTime(r.now()),
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO members (phone_number, created_at) VALUES (?, ?)`,
		record.PhoneNumber, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	if record.ID, err = result.LastInsertId(); err != nil {
		return nil, fmt.Errorf("failed to read member id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit member: %w", err)
	}
	return record, nil
}

// GetByPhone retrieves a member by phone number.
func (r *MemberRepository) GetByPhone(ctx context.Context, phoneNumber string) (*secondary.MemberRecord, error) {
	record := &secondary.MemberRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, phone_number, created_at FROM members WHERE phone_number = ?`, phoneNumber,
	).Scan(&record.ID, &record.PhoneNumber, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return record, nil
}

var _ secondary.MemberRepository = (*MemberRepository)(nil)
