package sim

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/blck04/irrigation-model/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRecord(t time.Time) models.DailyRecord {
	return models.DailyRecord{
		Date:           t,
		Precip:         sql.NullFloat64{Float64: 0, Valid: true},
		TempMax:        sql.NullFloat64{Float64: 28, Valid: true},
		TempMin:        sql.NullFloat64{Float64: 14, Valid: true},
		SolarRadiation: sql.NullFloat64{Float64: 21, Valid: true},
	}
}

func TestNewSeasonWindow(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		startMonth time.Month
		endMonth   time.Month
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{
			name:       "october to march wraps into next year",
			year:       2018,
			startMonth: time.October,
			endMonth:   time.March,
			wantStart:  date(2018, time.October, 1),
			wantEnd:    date(2019, time.March, 31),
		},
		{
			name:       "same-year season",
			year:       2020,
			startMonth: time.April,
			endMonth:   time.September,
			wantStart:  date(2020, time.April, 1),
			wantEnd:    date(2020, time.September, 30),
		},
		{
			name:       "season ending in december",
			year:       2021,
			startMonth: time.June,
			endMonth:   time.December,
			wantStart:  date(2021, time.June, 1),
			wantEnd:    date(2021, time.December, 31),
		},
		{
			name:       "february end respects short month",
			year:       2018,
			startMonth: time.November,
			endMonth:   time.February,
			wantStart:  date(2018, time.November, 1),
			wantEnd:    date(2019, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewSeasonWindow(tt.year, tt.startMonth, tt.endMonth)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %s, want %s", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("End = %s, want %s", w.End, tt.wantEnd)
			}
		})
	}
}

func TestSeasonWindowFilter(t *testing.T) {
	w := NewSeasonWindow(2018, time.October, time.March)

	records := []models.DailyRecord{
		validRecord(date(2018, time.September, 30)), // before window
		validRecord(date(2018, time.October, 1)),
		validRecord(date(2018, time.October, 15)),
		validRecord(date(2019, time.March, 31)),
		validRecord(date(2019, time.April, 1)), // after window
	}

	season, err := w.Filter(records)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(season) != 3 {
		t.Fatalf("len(season) = %d, want 3", len(season))
	}
	if season[0].DayAfterPlanting != 0 {
		t.Errorf("first day index = %d, want 0", season[0].DayAfterPlanting)
	}
	if season[1].DayAfterPlanting != 14 {
		t.Errorf("Oct 15 day index = %d, want 14", season[1].DayAfterPlanting)
	}
	if season[2].DayAfterPlanting != 181 {
		t.Errorf("Mar 31 day index = %d, want 181", season[2].DayAfterPlanting)
	}
}

func TestSeasonWindowFilterEmpty(t *testing.T) {
	w := NewSeasonWindow(2018, time.October, time.March)

	_, err := w.Filter([]models.DailyRecord{validRecord(date(2017, time.January, 1))})
	var emptyErr *EmptySeasonError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want EmptySeasonError", err)
	}
}

func TestSeasonWindowFilterMissingColumn(t *testing.T) {
	w := NewSeasonWindow(2018, time.October, time.March)

	r := validRecord(date(2018, time.November, 3))
	r.SolarRadiation = sql.NullFloat64{}

	_, err := w.Filter([]models.DailyRecord{validRecord(date(2018, time.October, 1)), r})
	var missingErr *MissingColumnError
	if !errors.As(err, &missingErr) {
		t.Fatalf("err = %v, want MissingColumnError", err)
	}
	if missingErr.Column != "ALLSKY_SFC_SW_DWN" {
		t.Errorf("Column = %q, want ALLSKY_SFC_SW_DWN", missingErr.Column)
	}
	if !missingErr.Date.Equal(date(2018, time.November, 3)) {
		t.Errorf("Date = %s, want 2018-11-03", missingErr.Date)
	}
}
