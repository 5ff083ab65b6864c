package sim

import "github.com/blck04/irrigation-model/internal/models"

const (
	// conventionalIrrigationMM is the seasonal water use of a fixed-schedule
	// irrigation program, the baseline for the savings figures.
	conventionalIrrigationMM = 500.0

	// severeStressMarginMM above the wilting point marks severe stress.
	severeStressMarginMM = 10.0
)

// Stress-day counts above which the yield outlook is downgraded.
const (
	severeStressDayLimit = 10
	stressDayLimit       = 20
)

// Analyze reduces a completed simulation to season totals, stress-day counts
// and a coarse yield outlook. It reads the result and soil only, so repeated
// calls on the same inputs return the same summary.
func Analyze(result models.SimulationResult, soil models.SoilProfile) models.SeasonSummary {
	summary := models.SeasonSummary{
		ConventionalIrrigation: conventionalIrrigationMM,
	}

	for _, d := range result.Days {
		summary.TotalIrrigation += d.Irrigation
		summary.TotalRainfall += d.Precip
		summary.TotalETc += d.ETc
		if d.Irrigation > 0 {
			summary.IrrigationEvents++
		}
		if d.SoilMoisture < soil.IrrigationThreshold {
			summary.StressDays++
		}
		if d.SoilMoisture < soil.WiltingPoint+severeStressMarginMM {
			summary.SevereStressDays++
		}
	}

	summary.WaterSavings = conventionalIrrigationMM - summary.TotalIrrigation
	summary.WaterSavingsPercent = summary.WaterSavings / conventionalIrrigationMM * 100

	// Coarse heuristic, not a calibrated agronomic model. First match wins.
	switch {
	case summary.SevereStressDays > severeStressDayLimit:
		summary.YieldPotential = "Low"
		summary.YieldNotes = "Significant water stress detected during critical growth stages."
	case summary.StressDays > stressDayLimit:
		summary.YieldPotential = "Medium"
		summary.YieldNotes = "Some water stress detected, but not severe enough to significantly impact yield."
	default:
		summary.YieldPotential = "High"
		summary.YieldNotes = "Minimal water stress detected, optimal growing conditions maintained."
	}

	return summary
}
