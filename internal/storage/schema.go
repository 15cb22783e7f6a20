package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// One row per document key. The state snapshot lives here as JSON
		// with its ledger stripped; the ledger has its own table so the
		// append-only history is a real table, not a growing blob.
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			ts INTEGER NOT NULL,
			day TEXT NOT NULL,
			type TEXT NOT NULL,
			subject_id TEXT,
			subject_label TEXT,
			points_delta INTEGER NOT NULL,
			coins_delta INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_day ON ledger_entries(day);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_subject ON ledger_entries(type, subject_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			short := strings.SplitN(stmt, "(", 2)[0]
			return fmt.Errorf("exec %q: %w", strings.TrimSpace(short), err)
		}
	}
	return nil
}
