package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/blck04/irrigation-model/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func testRun() (models.SeasonRun, []models.SimulationDay) {
	run := models.SeasonRun{
		Year:       2018,
		StartMonth: 10,
		EndMonth:   3,
		Soil:       models.SoilProfile{FieldCapacity: 150, WiltingPoint: 75, IrrigationThreshold: 75},
		Summary: models.SeasonSummary{
			TotalIrrigation:        130.5,
			TotalRainfall:          280.0,
			TotalETc:               390.2,
			IrrigationEvents:       7,
			ConventionalIrrigation: 500,
			WaterSavings:           369.5,
			WaterSavingsPercent:    73.9,
			StressDays:             3,
			SevereStressDays:       0,
			YieldPotential:         "High",
			YieldNotes:             "Minimal water stress detected, optimal growing conditions maintained.",
		},
		Advisories: JoinAdvisories([]string{"advisory one", "advisory two"}),
	}

	start := time.Date(2018, time.October, 1, 0, 0, 0, 0, time.UTC)
	days := []models.SimulationDay{
		{Date: start, DayAfterPlanting: 0, Precip: 0, ETo: 3.21, Kc: 0.3, ETc: 0.96, SoilMoisture: 105, Irrigation: 0},
		{Date: start.AddDate(0, 0, 1), DayAfterPlanting: 1, Precip: 4, ETo: 3.1, Kc: 0.3, ETc: 0.93, SoilMoisture: 108.07, Irrigation: 0},
	}
	return run, days
}

func TestInsertAndGetRun(t *testing.T) {
	store := setupTestStore(t)

	run, days := testRun()
	id, err := store.InsertRun(run, days)
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d, want > 0", id)
	}

	got, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil")
	}
	if got.Year != 2018 || got.StartMonth != 10 || got.EndMonth != 3 {
		t.Errorf("season = %d/%d-%d, want 2018/10-3", got.Year, got.StartMonth, got.EndMonth)
	}
	if got.Soil.FieldCapacity != 150 {
		t.Errorf("FieldCapacity = %v, want 150", got.Soil.FieldCapacity)
	}
	if got.Summary.IrrigationEvents != 7 {
		t.Errorf("IrrigationEvents = %d, want 7", got.Summary.IrrigationEvents)
	}
	if got.Summary.YieldPotential != "High" {
		t.Errorf("YieldPotential = %q, want High", got.Summary.YieldPotential)
	}
	if got.Advisories != "advisory one\nadvisory two" {
		t.Errorf("Advisories = %q", got.Advisories)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetRunDays(t *testing.T) {
	store := setupTestStore(t)

	run, days := testRun()
	id, err := store.InsertRun(run, days)
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	got, err := store.GetRunDays(id)
	if err != nil {
		t.Fatalf("GetRunDays: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(got))
	}
	if got[0].DayAfterPlanting != 0 || got[1].DayAfterPlanting != 1 {
		t.Errorf("day order = %d, %d", got[0].DayAfterPlanting, got[1].DayAfterPlanting)
	}
	if got[0].SoilMoisture != 105 {
		t.Errorf("day 0 moisture = %v, want 105", got[0].SoilMoisture)
	}
	if got[1].Precip != 4 {
		t.Errorf("day 1 precip = %v, want 4", got[1].Precip)
	}
}

func TestGetRunMissing(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.GetRun(42)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Errorf("GetRun(42) = %+v, want nil", got)
	}
}

func TestListRuns(t *testing.T) {
	store := setupTestStore(t)

	run, days := testRun()
	for i := 0; i < 3; i++ {
		run.Year = 2016 + i
		run.CreatedAt = time.Date(2020, time.January, 1+i, 0, 0, 0, 0, time.UTC)
		if _, err := store.InsertRun(run, days); err != nil {
			t.Fatalf("InsertRun %d: %v", i, err)
		}
	}

	runs, err := store.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	if runs[0].Year != 2018 {
		t.Errorf("newest run year = %d, want 2018", runs[0].Year)
	}

	limited, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2): %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestOpenFileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	run, days := testRun()
	id, err := store.InsertRun(run, days)
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: migrations must be a no-op and the run must still be there.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("run not found after reopen")
	}
	if got.Year != run.Year {
		t.Errorf("Year = %d, want %d", got.Year, run.Year)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	version, err := store.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}
