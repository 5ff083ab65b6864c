package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blck04/irrigation-model/internal/store"
)

func writeClimateFile(t *testing.T) string {
	t.Helper()
	rows := []string{"Date,T2M_MAX (°C),T2M_MIN (°C),ALLSKY_SFC_SW_DWN (MJ/m²),PRECTOT (mm)"}
	for _, day := range []string{"01", "02", "03", "04", "05"} {
		rows = append(rows, "2018-10-"+day+",30.0,15.0,20.0,1.5")
	}

	path := filepath.Join(t.TempDir(), "climate.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write climate csv: %v", err)
	}
	return path
}

func TestSimulateCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "results.csv")
	dbPath := filepath.Join(dir, "runs.db")

	cmd := simulateCmd{
		Climate:    writeClimateFile(t),
		Year:       2018,
		StartMonth: 10,
		EndMonth:   3,
		Out:        out,
		DB:         dbPath,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 6 {
		t.Errorf("results csv has %d lines, want header + 5 days", len(lines))
	}

	// The run must land in the archive, opened through this binary's own
	// driver registration, with the default soil profile applied.
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(1)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Soil != defaultSoil {
		t.Errorf("archived soil = %+v, want default %+v", runs[0].Soil, defaultSoil)
	}
	if runs[0].Year != 2018 {
		t.Errorf("archived year = %d, want 2018", runs[0].Year)
	}

	days, err := st.GetRunDays(runs[0].ID)
	if err != nil {
		t.Fatalf("GetRunDays: %v", err)
	}
	if len(days) != 5 {
		t.Errorf("len(days) = %d, want 5", len(days))
	}
	if days[0].SoilMoisture != 105 { // 0.7 × default field capacity
		t.Errorf("day 0 moisture = %v, want 105", days[0].SoilMoisture)
	}
}
