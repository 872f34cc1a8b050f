package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SkewSentinel/internal/model"
)

// SQLiteRecorder persists cycle history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the cycle's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycle_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT,
			side           TEXT,
			spot_price     REAL,
			threshold      REAL,
			quotes_total   INTEGER,
			curve_rows     INTEGER,
			expiries       INTEGER,
			baseline_found INTEGER,
			change_count   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_ts ON cycle_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS change_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			side       TEXT,
			strike     REAL,
			expiry     TEXT,
			iv_delta   REAL,
			skew_delta REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_change_ts ON change_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCycle(run *CycleRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	baselineFound := 0
	if run.BaselineFound {
		baselineFound = 1
	}
	_, err := r.db.Exec(`INSERT INTO cycle_runs
		(timestamp, symbol, side, spot_price, threshold,
		 quotes_total, curve_rows, expiries, baseline_found, change_count)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		run.RanAt.Unix(), run.Symbol, string(run.Side), run.SpotPrice, run.Threshold,
		run.QuotesTotal, run.CurveRows, run.Expiries, baselineFound, run.ChangeCount,
	)
	return err
}

func (r *SQLiteRecorder) RecordChanges(side model.Side, asOf time.Time, records []model.ChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if _, err := r.db.Exec(`INSERT INTO change_events
			(timestamp, side, strike, expiry, iv_delta, skew_delta)
			VALUES (?,?,?,?,?,?)`,
			asOf.Unix(), string(side), rec.Strike,
			rec.Expiry.Format("2006-01-02"), rec.IVDelta, rec.SkewDelta,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
