package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Driver names registered by the two SQLite packages.
const (
	DriverCGO  = "sqlite3"
	DriverPure = "sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// TimeFormat is the fixed-width UTC layout used for every timestamp column.
// Lexical order equals chronological order, so SQL comparisons stay correct.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t in TimeFormat.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a timestamp column written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeFormat, s)
}

// Open opens the database at path with the given driver, creating the parent
// directory and bringing the schema up to date.
func Open(driver, path string) (*sql.DB, error) {
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	dsn, err := buildDSN(driver, path)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; also keeps :memory: databases on a single connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}

func buildDSN(driver, path string) (string, error) {
	target := "file:" + path
	if path == MemoryPath {
		target = "file::memory:"
	}

	var params []string
	switch driver {
	case DriverCGO:
		params = []string{"_busy_timeout=5000", "_foreign_keys=on", "_txlock=immediate"}
	case DriverPure:
		params = []string{"_pragma=busy_timeout(5000)", "_pragma=foreign_keys(1)", "_txlock=immediate"}
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}

	return target + "?" + strings.Join(params, "&"), nil
}
