package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: two members,
// a plain call, and one session in each escalation state.
func SeedFixtures(conn *sql.DB, now time.Time) error {
	ts := FormatTime(now)

	for _, phone := range []string{"5551234567", "5559876543"} {
		if _, err := conn.Exec(
			"INSERT INTO members (phone_number, created_at) VALUES (?, ?)", phone, ts,
		); err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
	}

	sessions := []struct {
		id, phone string
	}{
		{"seed-session-plain", "5551234567"},
		{"seed-session-pending", "5551234567"},
		{"seed-session-resolved", "5559876543"},
		{"seed-session-unresolved", ""},
	}
	for _, s := range sessions {
		var phone any
		if s.phone != "" {
			phone = s.phone
		}
		if _, err := conn.Exec(
			"INSERT INTO sessions (session_id, phone_number, created_at) VALUES (?, ?, ?)", s.id, phone, ts,
		); err != nil {
			return fmt.Errorf("seed sessions: %w", err)
		}
	}

	escalations := []struct {
		session, question, status string
		answer                    any
	}{
		{"seed-session-pending", "Do you do bridal packages?", "PENDING", nil},
		{"seed-session-resolved", "Is there parking nearby?", "RESOLVED", "Yes, free parking behind the salon."},
		{"seed-session-unresolved", "Can I bring my dog?", "UNRESOLVED", nil},
	}
	for _, e := range escalations {
		if _, err := conn.Exec(
			"INSERT INTO escalations (session_id, question, status, answer, created_at) VALUES (?, ?, ?, ?, ?)",
			e.session, e.question, e.status, e.answer, ts,
		); err != nil {
			return fmt.Errorf("seed escalations: %w", err)
		}
	}

	return nil
}
