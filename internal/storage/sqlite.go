// Package storage archives Monte Carlo batch summaries in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rpgo/household-sim/internal/calculation"
)

// DB is the subset of *sql.DB the store uses.
type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Begin() (*sql.Tx, error)
	Close() error
}

// Store reads and writes the batch archive.
type Store struct {
	db  DB
	now func() time.Time
}

// BatchSummary is one archived Monte Carlo batch.
type BatchSummary struct {
	ID             int64
	CreatedAt      time.Time
	Label          string
	Strategy       string
	NumSimulations int
	Completed      int
	Volatility     float64
	Seed           int64
	SuccessRate    decimal.Decimal
	MedianFinal    decimal.Decimal
	P10Final       decimal.Decimal
	P90Final       decimal.Decimal
}

// RunFinal is the archived outcome of one run of a batch.
type RunFinal struct {
	RunID         int
	FinalNetWorth decimal.Decimal
	Success       bool
}

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS batches(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER, label TEXT, strategy TEXT,
		num_simulations INTEGER, completed INTEGER,
		volatility REAL, seed INTEGER,
		success_rate TEXT, median_final TEXT, p10_final TEXT, p90_final TEXT
	)`); err != nil {
		return fmt.Errorf("failed to create batches table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs(
		batch_id INTEGER, run_id INTEGER, final_net_worth TEXT, success INTEGER,
		PRIMARY KEY(batch_id, run_id)
	)`); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

func NewStore(db DB) *Store { return &Store{db: db, now: time.Now} }

// SaveBatch archives the summary of result and the final net worth of each
// of its runs in one transaction, returning the new batch id. On error
// nothing is written.
func (s *Store) SaveBatch(label string, result *calculation.MonteCarloResult) (int64, error) {
	finals := calculation.NewPercentileSet(result.FinalNetWorths())
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO batches(created_at,label,strategy,num_simulations,completed,volatility,seed,success_rate,median_final,p10_final,p90_final)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		s.now().Unix(), label, result.Strategy, result.NumSimulations, result.Completed,
		result.Volatility, result.Seed, result.SuccessRate.String(),
		finals.Median.String(), finals.P10.String(), finals.P90.String())
	if err != nil {
		return 0, fmt.Errorf("failed to insert batch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read batch id: %w", err)
	}
	for _, run := range result.Runs {
		if _, err := tx.Exec(`INSERT INTO runs(batch_id,run_id,final_net_worth,success) VALUES(?,?,?,?)`,
			id, run.RunID, run.FinalNetWorth.String(), run.Success); err != nil {
			return 0, fmt.Errorf("failed to insert run %d: %w", run.RunID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return id, nil
}

// ListBatches returns up to limit batches, newest first. A limit <= 0 lists all.
func (s *Store) ListBatches(limit int) ([]BatchSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`SELECT id,created_at,label,strategy,num_simulations,completed,volatility,seed,success_rate,median_final,p10_final,p90_final
		FROM batches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BatchSummary
	for rows.Next() {
		var (
			b                   BatchSummary
			created             int64
			rate, med, p10, p90 string
		)
		if err := rows.Scan(&b.ID, &created, &b.Label, &b.Strategy, &b.NumSimulations, &b.Completed,
			&b.Volatility, &b.Seed, &rate, &med, &p10, &p90); err != nil {
			return nil, err
		}
		b.CreatedAt = time.Unix(created, 0)
		if b.SuccessRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("batch %d: %w", b.ID, err)
		}
		if b.MedianFinal, err = decimal.NewFromString(med); err != nil {
			return nil, fmt.Errorf("batch %d: %w", b.ID, err)
		}
		if b.P10Final, err = decimal.NewFromString(p10); err != nil {
			return nil, fmt.Errorf("batch %d: %w", b.ID, err)
		}
		if b.P90Final, err = decimal.NewFromString(p90); err != nil {
			return nil, fmt.Errorf("batch %d: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RunFinals returns the archived runs of a batch in run order.
func (s *Store) RunFinals(batchID int64) ([]RunFinal, error) {
	rows, err := s.db.Query(`SELECT run_id,final_net_worth,success FROM runs WHERE batch_id=? ORDER BY run_id ASC`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunFinal
	for rows.Next() {
		var (
			r     RunFinal
			final string
		)
		if err := rows.Scan(&r.RunID, &final, &r.Success); err != nil {
			return nil, err
		}
		if r.FinalNetWorth, err = decimal.NewFromString(final); err != nil {
			return nil, fmt.Errorf("run %d: %w", r.RunID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
