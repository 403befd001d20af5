package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// SchemaVersion is the only layout this store understands. There is no
// migration path; a file stamped with a newer version is refused.
const SchemaVersion = 1

const (
	DriverCGO    = "sqlite3" // mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

type DB struct {
	*sql.DB
	path string
}

// New opens the store file at dbPath, creating its directory if needed.
// An empty driver selects the CGO driver.
func New(driver, dbPath string) (*DB, error) {
	if driver == "" {
		driver = DriverCGO
	}

	dsn, err := buildDSN(driver, dbPath)
	if err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)

	// Enable WAL mode so readers never block the single writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{DB: db, path: dbPath}, nil
}

// busy_timeout is a per-connection setting, so it goes in the DSN rather
// than a one-off PRAGMA.
func buildDSN(driver, dbPath string) (string, error) {
	switch driver {
	case DriverCGO:
		return "file:" + dbPath + "?_busy_timeout=5000", nil
	case DriverPureGo:
		return "file:" + dbPath + "?_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Path returns the location of the store file.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Migrate() error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: file has %d, want %d", ErrSchemaVersion, version, SchemaVersion)
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			is_voice INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			due_at INTEGER,
			priority TEXT NOT NULL DEFAULT 'NORMAL'
		)`,

		// amount is kept as canonical decimal text so sums stay exact
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			amount TEXT NOT NULL,
			kind TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_kind_category ON ledger_entries(kind, category)`,

		fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion),
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
