package sim

import (
	"fmt"
	"time"
)

// EmptySeasonError is returned when the season window selects no records.
type EmptySeasonError struct {
	Start time.Time
	End   time.Time
}

func (e *EmptySeasonError) Error() string {
	return fmt.Sprintf("no climate records between %s and %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// MissingColumnError is returned when a record inside the season window lacks
// one of the four required measurements.
type MissingColumnError struct {
	Date   time.Time
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("record %s missing required column %s",
		e.Date.Format("2006-01-02"), e.Column)
}
