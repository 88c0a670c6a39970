package market

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar date format used by the quote provider.
	DateLayout = "2006-01-02"

	// DaysPerYear is the flat divisor used for time to expiry.
	DaysPerYear = 365.0
)

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// YearFraction returns the time between two calendar dates as a fraction
// of a 365 day year. The result is negative when end is before start.
// Leap days count as ordinary days.
func YearFraction(start, end string) (float64, error) {
	t1, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	t2, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	days := t2.Sub(t1).Hours() / 24.0
	return days / DaysPerYear, nil
}

// LookbackWindow returns the dates bounding the last n calendar days
// ending at now, in provider format.
func LookbackWindow(now time.Time, days int) (from, to string) {
	to = now.Format(DateLayout)
	from = now.AddDate(0, 0, -days).Format(DateLayout)
	return from, to
}
