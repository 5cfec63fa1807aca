// Package sqlite_test contains integration tests for SQLite repositories.
//
// All setup goes through setupTestDB, which loads db.GetSchemaSQL() so tests
// run against the authoritative schema. Do not hardcode CREATE TABLE
// statements in test files.
package sqlite_test

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/frontdesk/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// every pooled connection to :memory: would be a fresh database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seedSession inserts a session row directly and returns its ID.
func seedSession(t *testing.T, conn *sql.DB, sessionID, phone string) string {
	t.Helper()
	var phoneValue any
	if phone != "" {
		phoneValue = phone
	}
	_, err := conn.Exec("INSERT INTO sessions (session_id, phone_number, created_at) VALUES (?, ?, ?)",
		sessionID, phoneValue, db.FormatTime(time.Now()))
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return sessionID
}
