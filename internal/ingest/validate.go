package ingest

import (
	"fmt"

	"github.com/blck04/irrigation-model/internal/models"
)

const (
	FlagTempOutOfRange = "temp_out_of_range"
	FlagTempInverted   = "temp_inverted"
	FlagSolarNegative  = "solar_negative"
	FlagPrecipNegative = "precip_negative"
)

// ValidateRecord returns sanity flags for one climate record. Flags are
// advisories only: flagged records still simulate.
func ValidateRecord(r models.DailyRecord) []string {
	var flags []string

	if r.TempMax.Valid && (r.TempMax.Float64 < -30 || r.TempMax.Float64 > 55) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if r.TempMin.Valid && (r.TempMin.Float64 < -40 || r.TempMin.Float64 > 45) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if r.TempMax.Valid && r.TempMin.Valid && r.TempMin.Float64 > r.TempMax.Float64 {
		flags = append(flags, FlagTempInverted)
	}
	if r.SolarRadiation.Valid && r.SolarRadiation.Float64 < 0 {
		flags = append(flags, FlagSolarNegative)
	}
	if r.Precip.Valid && r.Precip.Float64 < 0 {
		flags = append(flags, FlagPrecipNegative)
	}

	return flags
}

// ValidateRecords summarizes flags over a series as per-date advisories.
func ValidateRecords(records []models.DailyRecord) []string {
	var advisories []string
	for _, r := range records {
		for _, flag := range ValidateRecord(r) {
			advisories = append(advisories, fmt.Sprintf("%s: %s", r.Date.Format("2006-01-02"), flag))
		}
	}
	return advisories
}
