/*
Package sqlite persists the holiday dataset and computed plans in SQLite.

PURPOSE:
  The optimizer works from an in-memory dataset. This store is where that
  dataset lives between restarts (so operators can edit holidays without a
  rebuild) and where plans are kept so they can be exported later.

KEY TABLES:
  countries:      One row per country, codes comma-separated
  holidays:       (country, region, date) → name; region '' is federal
  region_aliases: (country, alias) → canonical region key
  plans:          Sanitized preferences and the result, both as JSON

INDEXES:
  - idx_holidays_country_date: Dataset load, ordered by country and date
  - idx_plans_cache_key:       Finding earlier plans for the same request
  - idx_plans_created_at:      Listing newest first

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of the connection pool.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/bridge.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  if n, _ := store.CountHolidays(ctx); n == 0 {
      store.ImportDataset(ctx, holidays.Default())
  }
  ds, err := store.LoadDataset(ctx)

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/holidays"
)

// ErrPlanNotFound is returned when no plan has the requested ID.
var ErrPlanNotFound = errors.New("plan not found")

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is the SQLite persistence layer.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS countries (
		name TEXT PRIMARY KEY,
		codes TEXT NOT NULL DEFAULT ''
	);

	-- Region '' holds the federal list
	CREATE TABLE IF NOT EXISTS holidays (
		country TEXT NOT NULL REFERENCES countries(name) ON DELETE CASCADE,
		region TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (country, region, date)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_country_date
		ON holidays(country, date);

	-- Regions without holidays of their own still need a row to be resolvable
	CREATE TABLE IF NOT EXISTS regions (
		country TEXT NOT NULL REFERENCES countries(name) ON DELETE CASCADE,
		region TEXT NOT NULL,
		PRIMARY KEY (country, region)
	);

	CREATE TABLE IF NOT EXISTS region_aliases (
		country TEXT NOT NULL REFERENCES countries(name) ON DELETE CASCADE,
		alias TEXT NOT NULL,
		region TEXT NOT NULL,
		PRIMARY KEY (country, alias)
	);

	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		cache_key TEXT NOT NULL,
		preferences_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_cache_key
		ON plans(cache_key);
	CREATE INDEX IF NOT EXISTS idx_plans_created_at
		ON plans(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY DATASET
// =============================================================================

// ImportDataset writes every country of ds in one transaction, replacing the
// rows of countries that already exist.
func (s *Store) ImportDataset(ctx context.Context, ds *holidays.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range ds.Countries() {
		if err := importCountry(ctx, tx, c); err != nil {
			return fmt.Errorf("failed to import %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

func importCountry(ctx context.Context, tx *sql.Tx, c *holidays.Country) error {
	for _, table := range []string{"holidays", "regions", "region_aliases"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE country = ?", c.Name); err != nil {
			return err
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO countries (name, codes) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET codes = excluded.codes
	`, c.Name, strings.Join(c.Codes, ","))
	if err != nil {
		return err
	}

	insertHoliday, err := tx.PrepareContext(ctx,
		"INSERT INTO holidays (country, region, date, name) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertHoliday.Close()

	for date, name := range c.Federal {
		if _, err := insertHoliday.ExecContext(ctx, c.Name, "", date, name); err != nil {
			return err
		}
	}
	for _, region := range c.RegionKeys() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO regions (country, region) VALUES (?, ?)", c.Name, region); err != nil {
			return err
		}
		for date, name := range c.Regions[region] {
			if _, err := insertHoliday.ExecContext(ctx, c.Name, region, date, name); err != nil {
				return err
			}
		}
	}
	for alias, region := range c.Aliases {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO region_aliases (country, alias, region) VALUES (?, ?, ?)",
			c.Name, alias, region); err != nil {
			return err
		}
	}
	return nil
}

// LoadDataset reads the stored dataset into memory.
func (s *Store) LoadDataset(ctx context.Context) (*holidays.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds := holidays.NewDataset()

	if err := s.eachRow(ctx, "SELECT name, codes FROM countries ORDER BY name", func(r *sql.Rows) error {
		var name, codes string
		if err := r.Scan(&name, &codes); err != nil {
			return err
		}
		ds.AddCountry(name, splitCodes(codes)...)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, "SELECT country, region FROM regions", func(r *sql.Rows) error {
		var country, region string
		if err := r.Scan(&country, &region); err != nil {
			return err
		}
		ds.AddRegion(country, region)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, "SELECT country, region, date, name FROM holidays ORDER BY country, date", func(r *sql.Rows) error {
		var country, region, date, name string
		if err := r.Scan(&country, &region, &date, &name); err != nil {
			return err
		}
		d, err := calendar.ParseDate(date)
		if err != nil {
			return fmt.Errorf("holiday %s in %s: %w", name, country, err)
		}
		ds.AddHoliday(country, region, d, name)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, "SELECT country, alias, region FROM region_aliases", func(r *sql.Rows) error {
		var country, alias, region string
		if err := r.Scan(&country, &alias, &region); err != nil {
			return err
		}
		ds.AddAlias(country, alias, region)
		return nil
	}); err != nil {
		return nil, err
	}

	return ds, nil
}

// CountHolidays returns the number of stored holiday rows.
func (s *Store) CountHolidays(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM holidays").Scan(&n)
	return n, err
}

func (s *Store) eachRow(ctx context.Context, query string, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// =============================================================================
// PLAN STORE
// =============================================================================

// PlanRecord is a stored plan. The JSON columns are opaque to the store.
type PlanRecord struct {
	ID              string
	CacheKey        string
	PreferencesJSON string
	ResultJSON      string
	CreatedAt       time.Time
}

// SavePlan inserts or replaces a plan. A zero CreatedAt is set to now.
func (s *Store) SavePlan(ctx context.Context, p PlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO plans (id, cache_key, preferences_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			cache_key = excluded.cache_key,
			preferences_json = excluded.preferences_json,
			result_json = excluded.result_json
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.CacheKey, p.PreferencesJSON, p.ResultJSON,
		p.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

// GetPlan retrieves a plan by ID.
func (s *Store) GetPlan(ctx context.Context, id string) (*PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlanRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, cache_key, preferences_json, result_json, created_at FROM plans WHERE id = ?",
		id,
	).Scan(&p.ID, &p.CacheKey, &p.PreferencesJSON, &p.ResultJSON, &createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &p, nil
}

// ListPlans returns the newest plans first. limit <= 0 means no limit.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, cache_key, preferences_json, result_json, created_at FROM plans ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		var p PlanRecord
		var createdAt string
		if err := rows.Scan(&p.ID, &p.CacheKey, &p.PreferencesJSON, &p.ResultJSON, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"plans", "region_aliases", "regions", "holidays", "countries"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
