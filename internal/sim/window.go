package sim

import (
	"time"

	"github.com/blck04/irrigation-model/internal/models"
)

// Default maize growing season for the southern hemisphere: planted at the
// start of October, harvested by the end of March.
const (
	DefaultStartMonth = time.October
	DefaultEndMonth   = time.March
)

// SeasonWindow is the inclusive date range of one growing season.
type SeasonWindow struct {
	Start time.Time
	End   time.Time
}

// NewSeasonWindow computes the season bounds for the season planted in the
// given year. The season starts on the first day of startMonth in year; when
// endMonth precedes startMonth the season wraps into the following calendar
// year and ends on the last day of endMonth there.
func NewSeasonWindow(year int, startMonth, endMonth time.Month) SeasonWindow {
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)

	endYear := year
	if endMonth < startMonth {
		endYear = year + 1
	}
	// First of the month after endMonth, minus one day. time.Date normalizes
	// month 13 into January of the next year.
	end := time.Date(endYear, endMonth+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	return SeasonWindow{Start: start, End: end}
}

// Filter selects the records inside the window and assigns DayAfterPlanting
// (day 0 = season start). It returns an EmptySeasonError when nothing falls
// in range and a MissingColumnError when a retained record lacks any of the
// four required measurements.
func (w SeasonWindow) Filter(records []models.DailyRecord) ([]models.DailyRecord, error) {
	var season []models.DailyRecord
	for _, r := range records {
		if r.Date.Before(w.Start) || r.Date.After(w.End) {
			continue
		}
		r.DayAfterPlanting = int(r.Date.Sub(w.Start).Hours() / 24)
		season = append(season, r)
	}

	if len(season) == 0 {
		return nil, &EmptySeasonError{Start: w.Start, End: w.End}
	}

	for _, r := range season {
		switch {
		case !r.TempMax.Valid:
			return nil, &MissingColumnError{Date: r.Date, Column: "T2M_MAX"}
		case !r.TempMin.Valid:
			return nil, &MissingColumnError{Date: r.Date, Column: "T2M_MIN"}
		case !r.SolarRadiation.Valid:
			return nil, &MissingColumnError{Date: r.Date, Column: "ALLSKY_SFC_SW_DWN"}
		case !r.Precip.Valid:
			return nil, &MissingColumnError{Date: r.Date, Column: "PRECTOT"}
		}
	}

	return season, nil
}
