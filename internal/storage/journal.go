// Package storage keeps the audit journal of hedging cycles.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dyike/QuantHedge/models"
	"github.com/dyike/QuantHedge/pkg/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cycles (
    id TEXT PRIMARY KEY,
    prompt TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    action TEXT,
    ticker TEXT,
    quantity INTEGER,
    trade_status TEXT,
    report_json TEXT NOT NULL,
    created_at DATETIME NOT NULL
);`

const indexCreatedAt = `CREATE INDEX IF NOT EXISTS idx_cycles_created ON cycles(created_at);`

const defaultRecentLimit = 20

// Journal is the read/write surface of a cycle log.
type Journal interface {
	Record(ctx context.Context, rec models.CycleRecord) error
	Recent(ctx context.Context, limit int) ([]models.CycleRecord, error)
	Close() error
}

type SQLiteJournal struct {
	db *sql.DB
}

func OpenJournal(ctx context.Context, path string) (*SQLiteJournal, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, schema, indexCreatedAt); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *SQLiteJournal) Record(ctx context.Context, rec models.CycleRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("cycle record id is required")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
INSERT INTO cycles (id, prompt, status, action, ticker, quantity, trade_status, report_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`, rec.ID, rec.Prompt, rec.Status, rec.Action, rec.Ticker, rec.Quantity, rec.TradeStatus, rec.ReportJSON, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

// Recent returns the newest records first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]models.CycleRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, prompt, status, COALESCE(action, ''), COALESCE(ticker, ''), COALESCE(quantity, 0),
       COALESCE(trade_status, ''), report_json, created_at
FROM cycles
ORDER BY id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	out := make([]models.CycleRecord, 0, limit)
	for rows.Next() {
		var rec models.CycleRecord
		if err := rows.Scan(&rec.ID, &rec.Prompt, &rec.Status, &rec.Action, &rec.Ticker, &rec.Quantity,
			&rec.TradeStatus, &rec.ReportJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// NopJournal is used when journaling is switched off.
type NopJournal struct{}

func (NopJournal) Record(context.Context, models.CycleRecord) error { return nil }

func (NopJournal) Recent(context.Context, int) ([]models.CycleRecord, error) {
	return []models.CycleRecord{}, nil
}

func (NopJournal) Close() error { return nil }

// Open returns a SQLite journal, or a NopJournal when path is empty.
func Open(ctx context.Context, path string) (Journal, error) {
	if path == "" {
		return NopJournal{}, nil
	}
	return OpenJournal(ctx, path)
}
