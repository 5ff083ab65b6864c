package api

import (
	"database/sql"
	"time"

	"github.com/blck04/irrigation-model/internal/models"
)

// RecordInput is one climate day as accepted over the wire. Pointer fields
// distinguish absent measurements from zeros.
type RecordInput struct {
	Date   string   `json:"date"` // 2006-01-02
	Precip *float64 `json:"precip_mm"`
	TMax   *float64 `json:"tmax_c"`
	TMin   *float64 `json:"tmin_c"`
	Solar  *float64 `json:"solar_mj_m2"`
}

type SoilInput struct {
	FieldCapacity       float64 `json:"field_capacity"`
	WiltingPoint        float64 `json:"wilting_point"`
	IrrigationThreshold float64 `json:"irrigation_threshold"`
}

type KcPointInput struct {
	Day int     `json:"day"`
	Kc  float64 `json:"kc"`
}

// SimulateRequest is the body of POST /api/simulate.
type SimulateRequest struct {
	Year            int            `json:"year"`
	StartMonth      int            `json:"start_month"` // 0 means October
	EndMonth        int            `json:"end_month"`   // 0 means March
	Records         []RecordInput  `json:"records"`
	Soil            SoilInput      `json:"soil"`
	KcPoints        []KcPointInput `json:"kc_points"`
	InitialMoisture *float64       `json:"initial_moisture"`
	Store           bool           `json:"store"`
}

type DayView struct {
	Date             string  `json:"date"`
	DayAfterPlanting int     `json:"day"`
	Precip           float64 `json:"precip_mm"`
	ETo              float64 `json:"eto_mm"`
	Kc               float64 `json:"kc"`
	ETc              float64 `json:"etc_mm"`
	SoilMoisture     float64 `json:"soil_moisture_mm_per_m"`
	Irrigation       float64 `json:"irrigation_mm"`
}

type SummaryView struct {
	TotalIrrigation        float64 `json:"total_irrigation_mm"`
	TotalRainfall          float64 `json:"total_rainfall_mm"`
	TotalETc               float64 `json:"total_etc_mm"`
	IrrigationEvents       int     `json:"irrigation_events"`
	ConventionalIrrigation float64 `json:"conventional_irrigation_mm"`
	WaterSavings           float64 `json:"water_savings_mm"`
	WaterSavingsPercent    float64 `json:"water_savings_percent"`
	StressDays             int     `json:"stress_days"`
	SevereStressDays       int     `json:"severe_stress_days"`
	YieldPotential         string  `json:"yield_potential"`
	YieldNotes             string  `json:"yield_notes"`
}

// SimulateResponse is the body returned by POST /api/simulate.
type SimulateResponse struct {
	RunID      int64       `json:"run_id,omitempty"`
	Summary    SummaryView `json:"summary"`
	Days       []DayView   `json:"days"`
	Advisories []string    `json:"advisories,omitempty"`
}

type RunView struct {
	ID         int64       `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	Year       int         `json:"year"`
	StartMonth int         `json:"start_month"`
	EndMonth   int         `json:"end_month"`
	Soil       SoilInput   `json:"soil"`
	Summary    SummaryView `json:"summary"`
	Advisories string      `json:"advisories,omitempty"`
	Days       []DayView   `json:"days,omitempty"`
}

func (r RecordInput) toModel() (models.DailyRecord, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return models.DailyRecord{}, err
	}
	return models.DailyRecord{
		Date:           date.UTC(),
		Precip:         toNull(r.Precip),
		TempMax:        toNull(r.TMax),
		TempMin:        toNull(r.TMin),
		SolarRadiation: toNull(r.Solar),
	}, nil
}

func toNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func (s SoilInput) toModel() models.SoilProfile {
	return models.SoilProfile{
		FieldCapacity:       s.FieldCapacity,
		WiltingPoint:        s.WiltingPoint,
		IrrigationThreshold: s.IrrigationThreshold,
	}
}

func soilView(s models.SoilProfile) SoilInput {
	return SoilInput{
		FieldCapacity:       s.FieldCapacity,
		WiltingPoint:        s.WiltingPoint,
		IrrigationThreshold: s.IrrigationThreshold,
	}
}

func dayViews(days []models.SimulationDay) []DayView {
	out := make([]DayView, len(days))
	for i, d := range days {
		out[i] = DayView{
			Date:             d.Date.Format("2006-01-02"),
			DayAfterPlanting: d.DayAfterPlanting,
			Precip:           d.Precip,
			ETo:              d.ETo,
			Kc:               d.Kc,
			ETc:              d.ETc,
			SoilMoisture:     d.SoilMoisture,
			Irrigation:       d.Irrigation,
		}
	}
	return out
}

func summaryView(s models.SeasonSummary) SummaryView {
	return SummaryView{
		TotalIrrigation:        s.TotalIrrigation,
		TotalRainfall:          s.TotalRainfall,
		TotalETc:               s.TotalETc,
		IrrigationEvents:       s.IrrigationEvents,
		ConventionalIrrigation: s.ConventionalIrrigation,
		WaterSavings:           s.WaterSavings,
		WaterSavingsPercent:    s.WaterSavingsPercent,
		StressDays:             s.StressDays,
		SevereStressDays:       s.SevereStressDays,
		YieldPotential:         s.YieldPotential,
		YieldNotes:             s.YieldNotes,
	}
}
