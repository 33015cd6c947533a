package vacation

import (
	"time"

	"github.com/username/vacation-days/internal/calendar"
)

// Category represents the type of day
type Category string

const (
	CategoryWorkday Category = "workday"
	CategoryWeekend Category = "weekend"
	CategoryHoliday Category = "holiday"
	CategoryHalfDay Category = "half_day"
)

// Work values per category
const (
	fullDay = 1.0
	halfDay = 0.5
	dayOff  = 0.0
)

// Day is the classification of a single date
type Day struct {
	Date      time.Time `json:"date" yaml:"date"`
	Category  Category  `json:"category" yaml:"category"`
	WorkValue float64   `json:"work_value" yaml:"work_value"`
	Events    []string  `json:"events,omitempty" yaml:"events,omitempty"`
}

// classify applies weekend, half-day, holiday and workday rules in that order
func (p Policy) classify(date time.Time, events []calendar.Event, includeHolHamoed bool) Day {
	day := Day{Date: date, Category: CategoryWorkday, WorkValue: fullDay}
	for _, ev := range events {
		day.Events = append(day.Events, ev.Desc)
	}

	switch {
	case p.IsWeekend(date):
		day.Category, day.WorkValue = CategoryWeekend, dayOff
	case anyEvent(events, p.IsHalfDay):
		day.Category, day.WorkValue = CategoryHalfDay, halfDay
	case anyEvent(events, func(ev calendar.Event) bool { return p.IsMajorHoliday(ev, includeHolHamoed) }):
		day.Category, day.WorkValue = CategoryHoliday, dayOff
	}

	return day
}

func anyEvent(events []calendar.Event, pred func(calendar.Event) bool) bool {
	for _, ev := range events {
		if pred(ev) {
			return true
		}
	}
	return false
}
