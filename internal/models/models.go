package models

import (
	"database/sql"
	"time"
)

// DailyRecord is one day of raw climate input. The nullable fields mirror the
// source data, where any of the four measurements can be absent for a day;
// presence is enforced by the season window before simulation.
type DailyRecord struct {
	Date             time.Time
	Precip           sql.NullFloat64 // PRECTOT, mm
	TempMax          sql.NullFloat64 // T2M_MAX, °C
	TempMin          sql.NullFloat64 // T2M_MIN, °C
	SolarRadiation   sql.NullFloat64 // ALLSKY_SFC_SW_DWN, MJ/m²/day
	DayAfterPlanting int             // day 0 = season start, set by the season window
}

// SoilProfile holds the water-holding parameters of the root zone, all in mm
// per metre of root depth. Expected ordering is WiltingPoint <
// IrrigationThreshold < FieldCapacity; violations are advisories, not errors.
type SoilProfile struct {
	FieldCapacity       float64
	WiltingPoint        float64
	IrrigationThreshold float64
}

// KcPoint is one sample of a measured crop-coefficient curve.
type KcPoint struct {
	Day int // day after planting, >= 0
	Kc  float64
}

// SimulationDay is the derived state for one day of a season run.
type SimulationDay struct {
	Date             time.Time
	DayAfterPlanting int
	Precip           float64 // mm
	ETo              float64 // mm
	Kc               float64
	ETc              float64 // mm
	SoilMoisture     float64 // mm/m
	Irrigation       float64 // mm
}

// SimulationResult is the output of one simulation run: one SimulationDay per
// input record, in input order. Built once per run and never mutated after.
type SimulationResult struct {
	Days       []SimulationDay
	Advisories []string
}

// SeasonSummary aggregates a completed simulation into season totals and a
// coarse yield-risk assessment.
type SeasonSummary struct {
	TotalIrrigation        float64 // mm
	TotalRainfall          float64 // mm
	TotalETc               float64 // mm
	IrrigationEvents       int
	ConventionalIrrigation float64 // mm, fixed-schedule baseline
	WaterSavings           float64 // mm vs conventional
	WaterSavingsPercent    float64
	StressDays             int
	SevereStressDays       int
	YieldPotential         string // "Low", "Medium" or "High"
	YieldNotes             string
}

// SeasonRun is an archived simulation run as stored in the database.
type SeasonRun struct {
	ID         int64
	CreatedAt  time.Time
	Year       int
	StartMonth int
	EndMonth   int
	Soil       SoilProfile
	Summary    SeasonSummary
	Advisories string // newline-joined, empty when none
}
