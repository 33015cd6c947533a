package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateOutOfRange is returned for dates the calendar cannot convert
var ErrDateOutOfRange = errors.New("date out of calendar range")

// Flags is a bitset of semantic markers attached to a holiday event
type Flags uint32

const (
	FlagChag Flags = 1 << iota
	FlagErev
	FlagCholHamoed
	FlagYomTovEnds
	FlagLightCandles
	FlagMinorHoliday
	FlagModernHoliday
	FlagMinorFast
	FlagMajorFast
	FlagRoshChodesh
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagChag, "chag"},
	{FlagErev, "erev"},
	{FlagCholHamoed, "chol_hamoed"},
	{FlagYomTovEnds, "yom_tov_ends"},
	{FlagLightCandles, "light_candles"},
	{FlagMinorHoliday, "minor_holiday"},
	{FlagModernHoliday, "modern_holiday"},
	{FlagMinorFast, "minor_fast"},
	{FlagMajorFast, "major_fast"},
	{FlagRoshChodesh, "rosh_chodesh"},
}

// Has reports whether any of flag is set
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseFlags parses a comma-separated list of flag names. "-" means no flags.
func ParseFlags(s string) (Flags, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, nil
	}

	var f Flags
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for _, fn := range flagNames {
			if fn.name == part {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", part)
		}
	}
	return f, nil
}

// Event represents one holiday occurrence on one date
type Event struct {
	Date   time.Time `json:"date"`
	Desc   string    `json:"desc"`
	Hebrew string    `json:"hebrew,omitempty"`
	Flags  Flags     `json:"flags"`
}

// Oracle answers which holiday events fall on a date
type Oracle interface {
	// EventsOn returns the events on the calendar day of date.
	// israel selects Israeli observance (one-day festivals, modern holidays).
	EventsOn(date time.Time, israel bool) ([]Event, error)
}

func dayKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// atDay re-dates events to midnight of date's calendar day in date's location
func atDay(events []Event, date time.Time) []Event {
	if len(events) == 0 {
		return nil
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	out := make([]Event, len(events))
	for i, ev := range events {
		ev.Date = day
		out[i] = ev
	}
	return out
}
