package store

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS season_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at DATETIME NOT NULL,
    year INTEGER NOT NULL,
    start_month INTEGER NOT NULL,
    end_month INTEGER NOT NULL,
    field_capacity REAL NOT NULL,
    wilting_point REAL NOT NULL,
    irrigation_threshold REAL NOT NULL,
    total_irrigation REAL NOT NULL,
    total_rainfall REAL NOT NULL,
    total_etc REAL NOT NULL,
    irrigation_events INTEGER NOT NULL,
    conventional_irrigation REAL NOT NULL,
    water_savings REAL NOT NULL,
    water_savings_percent REAL NOT NULL,
    stress_days INTEGER NOT NULL,
    severe_stress_days INTEGER NOT NULL,
    yield_potential TEXT NOT NULL,
    yield_notes TEXT NOT NULL,
    advisories TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS simulation_days (
    run_id INTEGER NOT NULL REFERENCES season_runs(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    day_after_planting INTEGER NOT NULL,
    precip REAL NOT NULL,
    eto REAL NOT NULL,
    kc REAL NOT NULL,
    etc REAL NOT NULL,
    soil_moisture REAL NOT NULL,
    irrigation REAL NOT NULL,
    PRIMARY KEY (run_id, day_after_planting)
);

CREATE INDEX IF NOT EXISTS idx_runs_year ON season_runs(year);
CREATE INDEX IF NOT EXISTS idx_days_run ON simulation_days(run_id);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (s *Store) MigrationVersion() (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
