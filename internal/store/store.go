package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on sync_runs.started_at for history listing
const currentSchemaVersion = 1

// runTimeFormat is fixed width so started_at sorts chronologically as text.
const runTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores the sync state and run history in a SQLite database.
type SQLite struct {
	db *sql.DB
}

var (
	_ Backend     = (*SQLite)(nil)
	_ RunRecorder = (*SQLite)(nil)
)

// OpenSQLite creates or opens a database at path, applying pragmas and
// migrations. It is safe to call repeatedly on the same path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads every sync record.
func (s *SQLite) Load(ctx context.Context) (State, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_key, spec_hash, resource_hash
		FROM sync_records
		ORDER BY item_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	defer rows.Close()

	state := State{}
	for rows.Next() {
		var key string
		var r Record
		if err := rows.Scan(&key, &r.SpecHash, &r.ResourceHash); err != nil {
			return nil, fmt.Errorf("load state: scan: %w", err)
		}
		state[key] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// Save replaces every sync record with the contents of st in one transaction.
func (s *SQLite) Save(ctx context.Context, st State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save state: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_records`); err != nil {
		return fmt.Errorf("save state: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sync_records (item_key, spec_hash, resource_hash)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save state: prepare: %w", err)
	}
	defer stmt.Close()

	for _, key := range st.Keys() {
		r := st[key]
		if _, err := stmt.ExecContext(ctx, key, r.SpecHash.String(), r.ResourceHash.String()); err != nil {
			return fmt.Errorf("save state: insert %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save state: commit: %w", err)
	}
	return nil
}

// RecordRun appends a run summary. Recording the same run ID twice is a no-op.
func (s *SQLite) RecordRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs
		(run_id, started_at, finished_at, specs_created, resources_created, skipped, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UTC().Format(runTimeFormat),
		run.FinishedAt.UTC().Format(runTimeFormat),
		run.SpecsCreated,
		run.ResourcesCreated,
		run.Skipped,
		run.ErrorCount,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, most recent first. A limit <= 0 returns all.
func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started_at, finished_at, specs_created, resources_created, skipped, error_count
		FROM sync_runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.SpecsCreated, &r.ResourcesCreated, &r.Skipped, &r.ErrorCount); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("list runs: started_at of %s: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("list runs: finished_at of %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates missing tables and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sync_runs_started
		ON sync_runs(started_at)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// schemaVersion returns the database's user_version.
func (s *SQLite) schemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return v, nil
}
