package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/blck04/irrigation-model/internal/models"
)

var resultHeader = []string{
	"Date", "Day", "PRECTOT (mm)", "ETo (mm)", "Kc", "ETc (mm)",
	"Soil Moisture (mm/m)", "Irrigation (mm)",
}

// WriteResultsCSV writes one row per simulated day, floats at 3 decimal
// places to match the original export format.
func WriteResultsCSV(w io.Writer, result models.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("write results header: %w", err)
	}

	for _, d := range result.Days {
		row := []string{
			d.Date.Format("2006-01-02"),
			strconv.Itoa(d.DayAfterPlanting),
			formatFloat(d.Precip),
			formatFloat(d.ETo),
			formatFloat(d.Kc),
			formatFloat(d.ETc),
			formatFloat(d.SoilMoisture),
			formatFloat(d.Irrigation),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write results row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResultsCSVFile is WriteResultsCSV to a file path.
func WriteResultsCSVFile(path string, result models.SimulationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results csv: %w", err)
	}
	defer f.Close()
	return WriteResultsCSV(f, result)
}

var climateHeader = []string{
	"Date", "T2M_MAX (°C)", "T2M_MIN (°C)", "ALLSKY_SFC_SW_DWN (MJ/m²)", "PRECTOT (mm)",
}

// WriteClimateCSV writes fetched climate records in the same shape the
// climate loader reads, missing values as empty cells.
func WriteClimateCSV(w io.Writer, records []models.DailyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(climateHeader); err != nil {
		return fmt.Errorf("write climate header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Date.Format("2006-01-02"),
			formatNull(r.TempMax.Float64, r.TempMax.Valid),
			formatNull(r.TempMin.Float64, r.TempMin.Valid),
			formatNull(r.SolarRadiation.Float64, r.SolarRadiation.Valid),
			formatNull(r.Precip.Float64, r.Precip.Valid),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write climate row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteClimateCSVFile is WriteClimateCSV to a file path.
func WriteClimateCSVFile(path string, records []models.DailyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create climate csv: %w", err)
	}
	defer f.Close()
	return WriteClimateCSV(f, records)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatNull(v float64, valid bool) string {
	if !valid {
		return ""
	}
	return formatFloat(v)
}
