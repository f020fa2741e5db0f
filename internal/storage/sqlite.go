// Package storage provides SQLite-based persistence for the wallet and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/arena-survival/internal/economy"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Ensure Store can back the economy gateway.
var _ economy.Store = (*Store)(nil)

// RunRecord is one finished run.
type RunRecord struct {
	ID        string
	Variant   string
	Phase     int
	Survived  time.Duration
	Kills     int
	Soft      int64 // Soft currency earned during the run
	Premium   int64
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// the gateway writer and the UI share one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wallet (
			currency TEXT PRIMARY KEY,
			amount INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			phase INTEGER NOT NULL,
			survived_ms INTEGER NOT NULL,
			kills INTEGER NOT NULL DEFAULT 0,
			soft_earned INTEGER NOT NULL DEFAULT 0,
			premium_earned INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_variant ON runs(variant);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(variant, survived_ms DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadTotals returns the stored currency totals keyed by currency name.
func (s *Store) LoadTotals(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT currency, amount FROM wallet")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wallet: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var currency string
		var amount int64
		if err := rows.Scan(&currency, &amount); err != nil {
			return nil, fmt.Errorf("storage: cannot scan wallet row: %w", err)
		}
		totals[currency] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return totals, nil
}

// SaveTotals replaces the stored totals for every currency in totals.
// All rows are written in one transaction.
func (s *Store) SaveTotals(ctx context.Context, totals map[string]int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin wallet write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO wallet (currency, amount, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(currency) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare wallet write: %w", err)
	}
	defer stmt.Close()

	for currency, amount := range totals {
		if _, err := stmt.ExecContext(ctx, currency, amount); err != nil {
			return fmt.Errorf("storage: cannot save %s total: %w", currency, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit wallet write: %w", err)
	}
	return nil
}

// SaveRun records a finished run. An empty ID gets a fresh UUID.
// Returns the run ID.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, variant, phase, survived_ms, kills, soft_earned, premium_earned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Variant, r.Phase, r.Survived.Milliseconds(), r.Kills, r.Soft, r.Premium,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `id, variant, phase, survived_ms, kills, soft_earned, premium_earned, created_at`

// TopRuns retrieves the longest N runs for the given variant.
// Ties are broken by phase, then by the earlier run.
func (s *Store) TopRuns(variant string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE variant = ?
		 ORDER BY survived_ms DESC, phase DESC, created_at ASC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestRun returns the longest run for the variant, or nil if none exist.
func (s *Store) BestRun(variant string) (*RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE variant = ?
		 ORDER BY survived_ms DESC, phase DESC, created_at ASC
		 LIMIT 1`,
		variant,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ClearRuns deletes the run history of the given variant.
func (s *Store) ClearRuns(variant string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant      string
	Runs         int
	BestSurvived time.Duration
	AvgSurvived  time.Duration
	BestPhase    int
	TotalKills   int64
	SoftEarned   int64
	PremEarned   int64
	LastPlayed   time.Time
}

// GetVariantStats retrieves aggregated statistics for a specific variant.
func (s *Store) GetVariantStats(variant string) (*VariantStats, error) {
	stats := &VariantStats{Variant: variant}

	var best int64
	var avg float64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(survived_ms), 0), COALESCE(AVG(survived_ms), 0),
		        COALESCE(MAX(phase), 0), COALESCE(SUM(kills), 0),
		        COALESCE(SUM(soft_earned), 0), COALESCE(SUM(premium_earned), 0), MAX(created_at)
		 FROM runs WHERE variant = ?`,
		variant,
	).Scan(&stats.Runs, &best, &avg, &stats.BestPhase, &stats.TotalKills,
		&stats.SoftEarned, &stats.PremEarned, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get variant stats: %w", err)
	}

	stats.BestSurvived = time.Duration(best) * time.Millisecond
	stats.AvgSurvived = time.Duration(avg * float64(time.Millisecond))
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// GetAllVariantStats retrieves statistics for every variant that has runs.
func (s *Store) GetAllVariantStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(
		`SELECT variant, COUNT(*), MAX(survived_ms), AVG(survived_ms), MAX(phase),
		        SUM(kills), SUM(soft_earned), SUM(premium_earned), MAX(created_at)
		 FROM runs
		 GROUP BY variant`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all variant stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var v VariantStats
		var best int64
		var avg float64
		var lastPlayed any
		if err := rows.Scan(&v.Variant, &v.Runs, &best, &avg, &v.BestPhase,
			&v.TotalKills, &v.SoftEarned, &v.PremEarned, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		v.BestSurvived = time.Duration(best) * time.Millisecond
		v.AvgSurvived = time.Duration(avg * float64(time.Millisecond))
		v.LastPlayed = parseTime(lastPlayed)
		stats[v.Variant] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var r RunRecord
	var survivedMs int64
	var createdAt any
	err := sc.Scan(&r.ID, &r.Variant, &r.Phase, &survivedMs, &r.Kills, &r.Soft, &r.Premium, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot scan run: %w", err)
	}
	r.Survived = time.Duration(survivedMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
