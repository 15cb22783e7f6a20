package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"emberday/internal/ledger"
	"emberday/internal/state"
)

const stateDocKey = "state"

// SQLitePersister stores the snapshot as a JSON document and the ledger
// as append-only rows. It satisfies state.Persister.
type SQLitePersister struct {
	db  *sql.DB
	ctx context.Context
}

func NewSQLitePersister(ctx context.Context, db *sql.DB) *SQLitePersister {
	return &SQLitePersister{db: db, ctx: ctx}
}

// Load reassembles the snapshot: document body plus ledger rows in
// append order. Returns (nil, nil) when nothing has been saved yet or
// the stored body cannot be decoded; the caller falls back to defaults.
func (p *SQLitePersister) Load() (*state.State, error) {
	var body string
	err := p.db.QueryRowContext(p.ctx,
		`SELECT body FROM documents WHERE key = ?`, stateDocKey).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var st state.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		return nil, nil
	}

	entries, err := p.loadLedger()
	if err != nil {
		return nil, err
	}
	st.Ledger = entries
	return &st, nil
}

func (p *SQLitePersister) loadLedger() ([]ledger.Entry, error) {
	rows, err := p.db.QueryContext(p.ctx,
		`SELECT id, ts, day, type, subject_id, subject_label, points_delta, coins_delta
		 FROM ledger_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		var typ string
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Day, &typ, &e.SubjectID, &e.SubjectLabel, &e.PointsDelta, &e.CoinsDelta); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		e.Type = ledger.EntryType(typ)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}
	return entries, nil
}

// Save writes the document and any new ledger rows in one transaction.
// Ledger inserts key on entry id, so re-saving the same snapshot is
// idempotent and rows are never updated or deleted.
func (p *SQLitePersister) Save(st *state.State) error {
	doc := *st
	doc.Ledger = nil
	body, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return WithTx(p.ctx, p.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(p.ctx,
			`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
			stateDocKey, string(body), time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("save document: %w", err)
		}

		stmt, err := tx.PrepareContext(p.ctx,
			`INSERT OR IGNORE INTO ledger_entries
			 (id, ts, day, type, subject_id, subject_label, points_delta, coins_delta)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare ledger insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range st.Ledger {
			if _, err := stmt.ExecContext(p.ctx,
				e.ID, e.Timestamp, e.Day, string(e.Type), e.SubjectID, e.SubjectLabel, e.PointsDelta, e.CoinsDelta); err != nil {
				return fmt.Errorf("save ledger entry %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

// Wipe removes everything. Used by reset and by import, which replaces
// the ledger wholesale instead of appending to it.
func (p *SQLitePersister) Wipe() error {
	return WithTx(p.ctx, p.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(p.ctx, `DELETE FROM ledger_entries`); err != nil {
			return fmt.Errorf("wipe ledger: %w", err)
		}
		if _, err := tx.ExecContext(p.ctx, `DELETE FROM documents`); err != nil {
			return fmt.Errorf("wipe documents: %w", err)
		}
		return nil
	})
}
