package vacation

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/username/vacation-days/pkg/dateutil"
)

// ErrInvalidRange is returned for empty, unparseable or reversed date ranges
var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive range of calendar dates. Start is never after End.
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// ParseRange parses two date strings in the local time zone and validates the range
func ParseRange(startStr, endStr string) (DateRange, error) {
	return parseRangeIn(startStr, endStr, time.Local)
}

func parseRangeIn(startStr, endStr string, loc *time.Location) (DateRange, error) {
	start, err := parseBound("start", startStr, loc)
	if err != nil {
		return DateRange{}, err
	}
	end, err := parseBound("end", endStr, loc)
	if err != nil {
		return DateRange{}, err
	}
	return NewRange(start, end)
}

func parseBound(side, s string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fmt.Errorf("%w: %s date is empty", ErrInvalidRange, side)
	}
	t, err := dateutil.ParseDate(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s date: %v", ErrInvalidRange, side, err)
	}
	return t, nil
}

// NewRange validates already parsed bounds. Time of day is discarded.
func NewRange(start, end time.Time) (DateRange, error) {
	start = dateutil.StartOfDay(start)
	end = dateutil.StartOfDay(end)

	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidRange, dateutil.FormatDate(start), dateutil.FormatDate(end))
	}
	return DateRange{Start: start, End: end}, nil
}

// TotalDays returns the inclusive number of days in the range
func (r DateRange) TotalDays() int {
	return dateutil.DaysBetween(r.Start, r.End) + 1
}

// Days yields every date in the range in ascending order
func (r DateRange) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		total := r.TotalDays()
		for i := 0; i < total; i++ {
			if !yield(r.Start.AddDate(0, 0, i)) {
				return
			}
		}
	}
}

func (r DateRange) String() string {
	return dateutil.FormatDate(r.Start) + ".." + dateutil.FormatDate(r.End)
}
