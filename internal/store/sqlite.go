package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/blck04/irrigation-model/internal/metrics"
	"github.com/blck04/irrigation-model/internal/models"
)

// Store archives simulation runs in SQLite.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the archive database and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")

	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertRun archives a run and its daily rows in one transaction, returning
// the new run ID.
func (s *Store) InsertRun(run models.SeasonRun, days []models.SimulationDay) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.Exec(`
		INSERT INTO season_runs (
			created_at, year, start_month, end_month,
			field_capacity, wilting_point, irrigation_threshold,
			total_irrigation, total_rainfall, total_etc, irrigation_events,
			conventional_irrigation, water_savings, water_savings_percent,
			stress_days, severe_stress_days, yield_potential, yield_notes, advisories
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		createdAt, run.Year, run.StartMonth, run.EndMonth,
		run.Soil.FieldCapacity, run.Soil.WiltingPoint, run.Soil.IrrigationThreshold,
		run.Summary.TotalIrrigation, run.Summary.TotalRainfall, run.Summary.TotalETc,
		run.Summary.IrrigationEvents, run.Summary.ConventionalIrrigation,
		run.Summary.WaterSavings, run.Summary.WaterSavingsPercent,
		run.Summary.StressDays, run.Summary.SevereStressDays,
		run.Summary.YieldPotential, run.Summary.YieldNotes, run.Advisories,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO simulation_days (run_id, date, day_after_planting, precip, eto, kc, etc, soil_moisture, irrigation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare day insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err := stmt.Exec(runID, d.Date, d.DayAfterPlanting, d.Precip, d.ETo, d.Kc, d.ETc, d.SoilMoisture, d.Irrigation); err != nil {
			return 0, fmt.Errorf("insert day %d: %w", d.DayAfterPlanting, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	metrics.RunsStoredTotal.Inc()
	return runID, nil
}

const runColumns = `
	id, created_at, year, start_month, end_month,
	field_capacity, wilting_point, irrigation_threshold,
	total_irrigation, total_rainfall, total_etc, irrigation_events,
	conventional_irrigation, water_savings, water_savings_percent,
	stress_days, severe_stress_days, yield_potential, yield_notes, advisories
`

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns(limit int) ([]models.SeasonRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		"SELECT "+runColumns+" FROM season_runs ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SeasonRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one archived run, or nil when absent.
func (s *Store) GetRun(id int64) (*models.SeasonRun, error) {
	row := s.db.QueryRow("SELECT "+runColumns+" FROM season_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRunDays fetches the daily rows of an archived run in day order.
func (s *Store) GetRunDays(runID int64) ([]models.SimulationDay, error) {
	rows, err := s.db.Query(`
		SELECT date, day_after_planting, precip, eto, kc, etc, soil_moisture, irrigation
		FROM simulation_days WHERE run_id = ? ORDER BY day_after_planting
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.SimulationDay
	for rows.Next() {
		var d models.SimulationDay
		if err := rows.Scan(&d.Date, &d.DayAfterPlanting, &d.Precip, &d.ETo, &d.Kc, &d.ETc, &d.SoilMoisture, &d.Irrigation); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (models.SeasonRun, error) {
	var run models.SeasonRun
	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.Year, &run.StartMonth, &run.EndMonth,
		&run.Soil.FieldCapacity, &run.Soil.WiltingPoint, &run.Soil.IrrigationThreshold,
		&run.Summary.TotalIrrigation, &run.Summary.TotalRainfall, &run.Summary.TotalETc,
		&run.Summary.IrrigationEvents, &run.Summary.ConventionalIrrigation,
		&run.Summary.WaterSavings, &run.Summary.WaterSavingsPercent,
		&run.Summary.StressDays, &run.Summary.SevereStressDays,
		&run.Summary.YieldPotential, &run.Summary.YieldNotes, &run.Advisories,
	)
	return run, err
}

// JoinAdvisories flattens run advisories for storage.
func JoinAdvisories(advisories []string) string {
	return strings.Join(advisories, "\n")
}
