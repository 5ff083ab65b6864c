package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blck04/irrigation-model/internal/models"
)

// Climate CSVs follow the NASA POWER export shape. Headers carry unit
// suffixes ("T2M_MAX (°C)") which are stripped before matching.
var climateColumns = []string{"Date", "T2M_MAX", "T2M_MIN", "ALLSKY_SFC_SW_DWN", "PRECTOT"}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// LoadClimateCSV reads a daily climate series. Unparseable or empty numeric
// cells become invalid values; the season window decides later whether that
// is fatal for the retained range.
func LoadClimateCSV(path string) ([]models.DailyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open climate csv: %w", err)
	}
	defer f.Close()
	return ReadClimateCSV(f)
}

// ReadClimateCSV parses climate records from a reader.
func ReadClimateCSV(r io.Reader) ([]models.DailyRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read climate header: %w", err)
	}

	cols := make(map[string]int)
	for _, name := range climateColumns {
		idx := findColumn(header, name)
		if name == "Date" && idx < 0 {
			return nil, fmt.Errorf("climate csv has no Date column")
		}
		cols[name] = idx
	}

	var records []models.DailyRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read climate row: %w", err)
		}
		line++

		date, err := parseDate(field(row, cols["Date"]))
		if err != nil {
			return nil, fmt.Errorf("climate csv line %d: %w", line, err)
		}

		records = append(records, models.DailyRecord{
			Date:           date,
			TempMax:        parseCell(field(row, cols["T2M_MAX"])),
			TempMin:        parseCell(field(row, cols["T2M_MIN"])),
			SolarRadiation: parseCell(field(row, cols["ALLSKY_SFC_SW_DWN"])),
			Precip:         parseCell(field(row, cols["PRECTOT"])),
		})
	}

	return records, nil
}

// LoadKcCSV reads crop-coefficient samples with "Day After Planting" and
// "Kc" columns. Rows with unparseable values are skipped.
func LoadKcCSV(path string) ([]models.KcPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kc csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read kc header: %w", err)
	}
	dayIdx := findColumn(header, "Day After Planting")
	kcIdx := findColumn(header, "Kc")
	if dayIdx < 0 || kcIdx < 0 {
		return nil, fmt.Errorf("kc csv needs 'Day After Planting' and 'Kc' columns")
	}

	var points []models.KcPoint
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read kc row: %w", err)
		}

		day, dayErr := strconv.ParseFloat(strings.TrimSpace(field(row, dayIdx)), 64)
		kc, kcErr := strconv.ParseFloat(strings.TrimSpace(field(row, kcIdx)), 64)
		if dayErr != nil || kcErr != nil {
			continue
		}
		points = append(points, models.KcPoint{Day: int(day), Kc: kc})
	}

	return points, nil
}

// LoadSoilCSV reads soil parameters from the first data row. When the file
// has no irrigation threshold column the threshold defaults to half of field
// capacity.
func LoadSoilCSV(path string) (models.SoilProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.SoilProfile{}, fmt.Errorf("open soil csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return models.SoilProfile{}, fmt.Errorf("read soil header: %w", err)
	}
	fcIdx := findColumn(header, "Field Capacity")
	wpIdx := findColumn(header, "Wilting Point")
	thIdx := findColumn(header, "Irrigation Threshold")
	if fcIdx < 0 || wpIdx < 0 {
		return models.SoilProfile{}, fmt.Errorf("soil csv needs 'Field Capacity' and 'Wilting Point' columns")
	}

	row, err := reader.Read()
	if err != nil {
		return models.SoilProfile{}, fmt.Errorf("soil csv has no data row: %w", err)
	}

	fc, err := strconv.ParseFloat(strings.TrimSpace(field(row, fcIdx)), 64)
	if err != nil {
		return models.SoilProfile{}, fmt.Errorf("parse field capacity: %w", err)
	}
	wp, err := strconv.ParseFloat(strings.TrimSpace(field(row, wpIdx)), 64)
	if err != nil {
		return models.SoilProfile{}, fmt.Errorf("parse wilting point: %w", err)
	}

	soil := models.SoilProfile{FieldCapacity: fc, WiltingPoint: wp}
	if thIdx >= 0 {
		if th, err := strconv.ParseFloat(strings.TrimSpace(field(row, thIdx)), 64); err == nil {
			soil.IrrigationThreshold = th
			return soil, nil
		}
	}
	soil.IrrigationThreshold = fc * 0.5
	return soil, nil
}

// findColumn matches a canonical column name against headers that may carry
// unit suffixes, case-insensitively. "T2M_MAX" matches "T2M_MAX (°C)".
func findColumn(header []string, name string) int {
	want := strings.ToLower(name)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == want || strings.HasPrefix(h, want+" (") {
			return i
		}
	}
	return -1
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseCell(s string) sql.NullFloat64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
