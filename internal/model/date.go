package model

import "time"

// DateLayout is the calendar day key format used throughout the calendar.
const DateLayout = "2006-01-02"

// DateKey formats t as YYYY-MM-DD in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key into a midnight UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Date builds a midnight UTC calendar date. Out-of-range values normalize
// the way time.Date does.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateDay drops the time of day, keeping t's wall-clock calendar day.
func TruncateDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}
