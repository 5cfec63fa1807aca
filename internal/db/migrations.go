package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_members_and_member_sessions",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "split_escalations_from_sessions",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_knowledge_vectors",
		Up:      migrationV3,
	},
}

func createVersionTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(conn *sql.DB) (int, error) {
	var version int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(conn *sql.DB) error {
	if err := createVersionTable(conn); err != nil {
		return err
	}

	currentVersion, err := CurrentVersion(conn)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the legacy single-table layout where a call and its
// escalation shared one member_sessions row.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone_number TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create members table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS member_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			phone_number TEXT NOT NULL,
			session_id TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			question TEXT,
			status TEXT,
			answer TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create member_sessions table: %w", err)
	}

	return nil
}

// migrationV2 moves escalation state out of member_sessions into its own
// table so a session can go through more than one escalation cycle.
func migrationV2(tx *sql.Tx) error {
	statements := []struct {
		what string
		sql  string
	}{
		{"create sessions", `
			CREATE TABLE sessions (
				session_id TEXT PRIMARY KEY,
				phone_number TEXT,
				created_at TEXT NOT NULL
			)`},
		{"copy sessions", `
			INSERT INTO sessions (session_id, phone_number, created_at)
			SELECT session_id,
				NULLIF(phone_number, ''),
				COALESCE(strftime('%Y-%m-%dT%H:%M:%S.000000000Z', MIN(created_at)), strftime('%Y-%m-%dT%H:%M:%S.000000000Z', 'now'))
			FROM member_sessions
			GROUP BY session_id`},
		{"create escalations", `
			CREATE TABLE escalations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				question TEXT NOT NULL,
				status TEXT NOT NULL CHECK(status IN ('PENDING', 'RESOLVED', 'UNRESOLVED')) DEFAULT 'PENDING',
				answer TEXT,
				created_at TEXT NOT NULL,
				closed_at TEXT,
				FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
				CHECK(answer IS NULL OR status = 'RESOLVED')
			)`},
		{"index escalation status", `CREATE INDEX idx_escalations_status ON escalations(status)`},
		{"index escalation session", `CREATE INDEX idx_escalations_session ON escalations(session_id, id)`},
		{"index pending escalations", `CREATE UNIQUE INDEX idx_escalations_one_pending ON escalations(session_id) WHERE status = 'PENDING'`},
		// Later duplicates of a PENDING row are dropped by OR IGNORE.
		{"copy escalations", `
			INSERT OR IGNORE INTO escalations (session_id, question, status, answer, created_at)
			SELECT session_id,
				question,
				CASE WHEN status IN ('PENDING', 'RESOLVED', 'UNRESOLVED') THEN status ELSE 'PENDING' END,
				CASE WHEN status = 'RESOLVED' THEN answer END,
				COALESCE(strftime('%Y-%m-%dT%H:%M:%S.000000000Z', created_at), strftime('%Y-%m-%dT%H:%M:%S.000000000Z', 'now'))
			FROM member_sessions
			WHERE question IS NOT NULL AND question != ''
			ORDER BY id`},
		{"drop member_sessions", `DROP TABLE member_sessions`},
		{"index session phone", `CREATE INDEX idx_sessions_phone ON sessions(phone_number)`},
	}

	for _, s := range statements {
		if _, err := tx.Exec(s.sql); err != nil {
			return fmt.Errorf("failed to %s: %w", s.what, err)
		}
	}
	return nil
}

// migrationV3 adds the embedded knowledge store.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS knowledge_vectors (
			namespace TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT,
			category TEXT,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			dimensions INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (namespace, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create knowledge_vectors table: %w", err)
	}
	return nil
}
