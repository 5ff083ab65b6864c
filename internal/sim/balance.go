package sim

import (
	"fmt"
	"log"

	"github.com/blck04/irrigation-model/internal/models"
)

// defaultInitialMoistureFrac is the fraction of field capacity assumed to be
// in the profile at planting when no starting moisture is given.
const defaultInitialMoistureFrac = 0.7

// Simulator runs the daily soil-water balance for one growing season.
type Simulator struct {
	Soil  models.SoilProfile
	Curve *KcCurve

	// InitialMoisture is the profile water content on day 0 in mm/m.
	// Nil means 0.7 × field capacity; an explicit zero is honored as zero.
	InitialMoisture *float64
}

// NewSimulator returns a simulator with the default initial moisture. A nil
// curve means the built-in maize curve.
func NewSimulator(soil models.SoilProfile, curve *KcCurve) *Simulator {
	if curve == nil {
		curve = DefaultKcCurve()
	}
	return &Simulator{Soil: soil, Curve: curve}
}

// Run folds the water balance over the season records, which must already be
// windowed (DayAfterPlanting assigned, all measurements present). Day 0 is
// seeded with the initial moisture and no irrigation; every later day depends
// only on the previous day's moisture and its own weather, so the loop is
// strictly sequential. The per-day ETo and Kc values have no such dependency
// and are computed in a pre-pass.
//
// Each call builds a fresh result; identical inputs produce identical output.
func (s *Simulator) Run(records []models.DailyRecord) models.SimulationResult {
	result := models.SimulationResult{
		Advisories: soilAdvisories(s.Soil),
	}
	for _, a := range result.Advisories {
		log.Printf("sim: advisory: %s", a)
	}
	if len(records) == 0 {
		return result
	}

	days := make([]models.SimulationDay, len(records))
	for i, r := range records {
		eto := ETo(r.TempMax.Float64, r.TempMin.Float64, r.SolarRadiation.Float64)
		kc := s.Curve.Kc(r.DayAfterPlanting)
		days[i] = models.SimulationDay{
			Date:             r.Date,
			DayAfterPlanting: r.DayAfterPlanting,
			Precip:           r.Precip.Float64,
			ETo:              eto,
			Kc:               kc,
			ETc:              eto * kc,
		}
	}

	initial := defaultInitialMoistureFrac * s.Soil.FieldCapacity
	if s.InitialMoisture != nil {
		initial = *s.InitialMoisture
	}
	days[0].SoilMoisture = initial
	days[0].Irrigation = 0

	for i := 1; i < len(days); i++ {
		candidate := days[i-1].SoilMoisture + days[i].Precip - days[i].ETc

		if candidate < s.Soil.IrrigationThreshold {
			days[i].Irrigation = s.Soil.FieldCapacity - candidate
			candidate += days[i].Irrigation
		}

		// Clamp after irrigation in every case: excess above field capacity
		// is unmodeled drainage loss, and the floor at wilting point is an
		// implicit rescue rather than a logged event.
		if candidate > s.Soil.FieldCapacity {
			candidate = s.Soil.FieldCapacity
		}
		if candidate < s.Soil.WiltingPoint {
			candidate = s.Soil.WiltingPoint
		}
		days[i].SoilMoisture = candidate
	}

	result.Days = days
	return result
}

// soilAdvisories reports soil parameter orderings under which irrigation may
// not trigger correctly. These do not stop a run.
func soilAdvisories(soil models.SoilProfile) []string {
	var advisories []string
	if soil.WiltingPoint >= soil.IrrigationThreshold {
		advisories = append(advisories, fmt.Sprintf(
			"wilting point (%.1f mm/m) is at or above the irrigation threshold (%.1f mm/m)",
			soil.WiltingPoint, soil.IrrigationThreshold))
	}
	if soil.IrrigationThreshold >= soil.FieldCapacity {
		advisories = append(advisories, fmt.Sprintf(
			"irrigation threshold (%.1f mm/m) is at or above field capacity (%.1f mm/m)",
			soil.IrrigationThreshold, soil.FieldCapacity))
	}
	return advisories
}
