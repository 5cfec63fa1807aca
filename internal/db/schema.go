package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after every migration in migrations.go and is what tests open against via
// GetSchemaSQL. Keep the two in sync when adding tables or columns.
const SchemaSQL = `
-- Calls (one row per receptionist session)
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	phone_number TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_phone ON sessions(phone_number);

-- Escalations (one row per PENDING cycle of a session)
CREATE TABLE IF NOT EXISTS escalations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	question TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'RESOLVED', 'UNRESOLVED')) DEFAULT 'PENDING',
	answer TEXT,
	created_at TEXT NOT NULL,
	closed_at TEXT,
	FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE,
	CHECK(answer IS NULL OR status = 'RESOLVED')
);

CREATE INDEX IF NOT EXISTS idx_escalations_status ON escalations(status);
CREATE INDEX IF NOT EXISTS idx_escalations_session ON escalations(session_id, id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_escalations_one_pending ON escalations(session_id) WHERE status = 'PENDING';

-- Members (salon membership registry)
CREATE TABLE IF NOT EXISTS members (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	phone_number TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);

-- Knowledge vectors (embedded salon facts, grouped by namespace)
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
);
`

// InitSchema creates the schema on a fresh database or runs pending
// migrations on an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	var legacyCount int
	err = conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('member_sessions', 'members')").Scan(&legacyCount)
	if err != nil {
		return err
	}
	if legacyCount > 0 {
		// Unversioned database from before migrations existed.
		return RunMigrations(conn)
	}

	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
