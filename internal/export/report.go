package export

import (
	"fmt"
	"io"
	"os"

	"github.com/blck04/irrigation-model/internal/models"
	"github.com/blck04/irrigation-model/internal/sim"
)

// WriteSummaryReport writes the plain-text season report: soil parameters,
// totals, water efficiency against the conventional baseline, and the yield
// assessment. Advisories from the run are listed so they are never dropped
// silently.
func WriteSummaryReport(w io.Writer, window sim.SeasonWindow, soil models.SoilProfile, summary models.SeasonSummary, advisories []string) error {
	var err error
	p := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	p("Maize Irrigation Simulation Summary\n")
	p("===================================\n\n")
	p("Growing Season: %s - %s\n\n",
		window.Start.Format("January 2006"), window.End.Format("January 2006"))

	p("Soil Parameters:\n")
	p("  Field Capacity: %.1f mm/m\n", soil.FieldCapacity)
	p("  Wilting Point: %.1f mm/m\n", soil.WiltingPoint)
	p("  Irrigation Threshold: %.1f mm/m\n\n", soil.IrrigationThreshold)

	p("Simulation Totals & Events:\n")
	p("  Total Irrigation Applied: %.2f mm\n", summary.TotalIrrigation)
	p("  Total Rainfall: %.2f mm\n", summary.TotalRainfall)
	p("  Total Crop Water Use (ETc): %.2f mm\n", summary.TotalETc)
	p("  Number of Irrigation Events: %d\n\n", summary.IrrigationEvents)

	p("Water Efficiency:\n")
	p("  Conventional Irrigation (Assumed): %.1f mm\n", summary.ConventionalIrrigation)
	p("  Water Savings: %.2f mm (%.1f%%)\n\n", summary.WaterSavings, summary.WaterSavingsPercent)

	p("Yield Assessment:\n")
	p("  Days Under Water Stress (< Threshold): %d\n", summary.StressDays)
	p("  Days Under Severe Water Stress (< WP+10mm): %d\n", summary.SevereStressDays)
	p("  Estimated Yield Potential: %s\n", summary.YieldPotential)
	p("  Notes: %s\n", summary.YieldNotes)

	if len(advisories) > 0 {
		p("\nAdvisories:\n")
		for _, a := range advisories {
			p("  - %s\n", a)
		}
	}

	return err
}

// WriteSummaryReportFile is WriteSummaryReport to a file path.
func WriteSummaryReportFile(path string, window sim.SeasonWindow, soil models.SoilProfile, summary models.SeasonSummary, advisories []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary report: %w", err)
	}
	defer f.Close()
	return WriteSummaryReport(f, window, soil, summary, advisories)
}
