package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/file-finder/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS invocations (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		client TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		result_count INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return err
	}

	// Additive columns for journals created by older builds; fails harmlessly
	// when the column already exists.
	_, _ = d.db.Exec(`ALTER TABLE invocations ADD COLUMN client TEXT NOT NULL DEFAULT ''`)
	return nil
}

// RecordInvocation appends a journal row.
func (d *Database) RecordInvocation(inv *models.Invocation) error {
	var errMsg sql.NullString
	if inv.Error != "" {
		errMsg = sql.NullString{String: inv.Error, Valid: true}
	}
	_, err := d.db.Exec(`
		INSERT INTO invocations (id, command, client, status, duration_ms, result_count, skipped, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Command, inv.Client, inv.Status, inv.DurationMS, inv.ResultCount, inv.Skipped, errMsg, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// ListInvocations returns the most recent invocations, newest first.
func (d *Database) ListInvocations(limit int) ([]*models.Invocation, error) {
	rows, err := d.db.Query(`
		SELECT id, command, client, status, duration_ms, result_count, skipped, error, created_at
		FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*models.Invocation{}
	for rows.Next() {
		inv := &models.Invocation{}
		var errMsg sql.NullString
		if err := rows.Scan(&inv.ID, &inv.Command, &inv.Client, &inv.Status, &inv.DurationMS,
			&inv.ResultCount, &inv.Skipped, &errMsg, &inv.CreatedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			inv.Error = errMsg.String
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

// PruneInvocations keeps only the newest keep rows.
func (d *Database) PruneInvocations(keep int) (int64, error) {
	res, err := d.db.Exec(`
		DELETE FROM invocations WHERE rowid NOT IN (
			SELECT rowid FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	return res.RowsAffected()
}

func (d *Database) Close() error {
	return d.db.Close()
}
