package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// IsraeliWeekend is the Friday-Saturday weekend
var IsraeliWeekend = []time.Weekday{time.Friday, time.Saturday}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekend returns true if the date falls on one of the given weekend days.
// With no days given the Israeli weekend is used.
func IsWeekend(date time.Time, weekend ...time.Weekday) bool {
	if len(weekend) == 0 {
		weekend = IsraeliWeekend
	}
	weekday := date.Weekday()
	for _, w := range weekend {
		if weekday == w {
			return true
		}
	}
	return false
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of calendar days from start to end.
// DST transitions do not affect the result.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int((e.Unix() - s.Unix()) / secondsPerDay)
}

// FormatDate formats date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses date string in various formats, interpreting it in loc.
// The time of day is discarded.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseWeekday parses an English weekday name or its three-letter abbreviation
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
