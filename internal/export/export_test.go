package export

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/blck04/irrigation-model/internal/ingest"
	"github.com/blck04/irrigation-model/internal/models"
	"github.com/blck04/irrigation-model/internal/sim"
)

func TestWriteResultsCSV(t *testing.T) {
	result := models.SimulationResult{Days: []models.SimulationDay{
		{
			Date:             time.Date(2018, time.October, 1, 0, 0, 0, 0, time.UTC),
			DayAfterPlanting: 0,
			Precip:           0,
			ETo:              3.2109,
			Kc:               0.3,
			ETc:              0.96327,
			SoilMoisture:     105,
			Irrigation:       0,
		},
	}}

	var buf strings.Builder
	if err := WriteResultsCSV(&buf, result); err != nil {
		t.Fatalf("WriteResultsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date,Day,PRECTOT (mm)") {
		t.Errorf("header = %q", lines[0])
	}
	want := "2018-10-01,0,0.000,3.211,0.300,0.963,105.000,0.000"
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestClimateCSVRoundTrip(t *testing.T) {
	records := []models.DailyRecord{
		{
			Date:           time.Date(2018, time.October, 1, 0, 0, 0, 0, time.UTC),
			TempMax:        sql.NullFloat64{Float64: 30, Valid: true},
			TempMin:        sql.NullFloat64{Float64: 15, Valid: true},
			SolarRadiation: sql.NullFloat64{Float64: 20, Valid: true},
			Precip:         sql.NullFloat64{Float64: 2.5, Valid: true},
		},
		{
			Date:    time.Date(2018, time.October, 2, 0, 0, 0, 0, time.UTC),
			TempMax: sql.NullFloat64{Float64: 31, Valid: true},
			TempMin: sql.NullFloat64{Float64: 16, Valid: true},
			// solar missing, precip missing
		},
	}

	var buf strings.Builder
	if err := WriteClimateCSV(&buf, records); err != nil {
		t.Fatalf("WriteClimateCSV: %v", err)
	}

	parsed, err := ingest.ReadClimateCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadClimateCSV: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
	if !parsed[0].Precip.Valid || parsed[0].Precip.Float64 != 2.5 {
		t.Errorf("day 1 Precip = %+v, want 2.5", parsed[0].Precip)
	}
	if parsed[1].SolarRadiation.Valid {
		t.Errorf("day 2 SolarRadiation = %+v, want invalid", parsed[1].SolarRadiation)
	}
}

func TestWriteSummaryReport(t *testing.T) {
	window := sim.NewSeasonWindow(2018, time.October, time.March)
	soil := models.SoilProfile{FieldCapacity: 150, WiltingPoint: 75, IrrigationThreshold: 75}
	summary := models.SeasonSummary{
		TotalIrrigation:        120.5,
		TotalRainfall:          310.2,
		TotalETc:               405.8,
		IrrigationEvents:       9,
		ConventionalIrrigation: 500,
		WaterSavings:           379.5,
		WaterSavingsPercent:    75.9,
		StressDays:             4,
		SevereStressDays:       0,
		YieldPotential:         "High",
		YieldNotes:             "Minimal water stress detected, optimal growing conditions maintained.",
	}

	var buf strings.Builder
	err := WriteSummaryReport(&buf, window, soil, summary, []string{"wilting point at or above threshold"})
	if err != nil {
		t.Fatalf("WriteSummaryReport: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Growing Season: October 2018 - March 2019",
		"Total Irrigation Applied: 120.50 mm",
		"Water Savings: 379.50 mm (75.9%)",
		"Estimated Yield Potential: High",
		"Advisories:",
		"wilting point at or above threshold",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}
