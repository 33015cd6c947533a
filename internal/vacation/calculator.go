package vacation

import (
	"time"

	"github.com/username/vacation-days/internal/calendar"
	"github.com/username/vacation-days/pkg/dateutil"
	"go.uber.org/zap"
)

// HolidayEvent is one holiday occurrence inside a calculated range
type HolidayEvent struct {
	Date        time.Time `json:"date" yaml:"date"`
	Name        string    `json:"name" yaml:"name"`
	HebrewName  string    `json:"hebrew_name,omitempty" yaml:"hebrew_name,omitempty"`
	IsHalfDay   bool      `json:"is_half_day" yaml:"is_half_day"`
	IsHolHamoed bool      `json:"is_hol_hamoed" yaml:"is_hol_hamoed"`
}

// Calculation is the result of classifying every day of a range
type Calculation struct {
	Range              DateRange      `json:"range" yaml:"range"`
	TotalDays          int            `json:"total_days" yaml:"total_days"`
	WorkDays           int            `json:"work_days" yaml:"work_days"`
	WeekendDays        int            `json:"weekend_days" yaml:"weekend_days"`
	HolidayDays        int            `json:"holiday_days" yaml:"holiday_days"`
	HalfDays           int            `json:"half_days" yaml:"half_days"`
	VacationDaysNeeded float64        `json:"vacation_days_needed" yaml:"vacation_days_needed"`
	Holidays           []HolidayEvent `json:"holidays" yaml:"holidays"`
	Days               []Day          `json:"days,omitempty" yaml:"days,omitempty"`
}

// Calculator computes vacation days against a holiday oracle
type Calculator struct {
	oracle calendar.Oracle
	policy Policy
	logger *zap.Logger
}

// NewCalculator creates a new Calculator
func NewCalculator(oracle calendar.Oracle, policy Policy, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		oracle: oracle,
		policy: policy,
		logger: logger,
	}
}

// Policy returns the calculator's policy
func (c *Calculator) Policy() Policy {
	return c.policy
}

// Calculate validates the range and aggregates it.
// Invalid input yields a nil Calculation and an error wrapping ErrInvalidRange.
func (c *Calculator) Calculate(startStr, endStr string, includeHolHamoed bool) (*Calculation, error) {
	r, err := ParseRange(startStr, endStr)
	if err != nil {
		c.logger.Debug("Rejected date range",
			zap.String("start", startStr),
			zap.String("end", endStr),
			zap.Error(err))
		return nil, err
	}
	return c.Aggregate(r, includeHolHamoed), nil
}

// Aggregate classifies every day of r and tallies the result
func (c *Calculator) Aggregate(r DateRange, includeHolHamoed bool) *Calculation {
	calc := &Calculation{
		Range:     r,
		TotalDays: r.TotalDays(),
		Holidays:  []HolidayEvent{},
		Days:      make([]Day, 0, r.TotalDays()),
	}

	for date := range r.Days() {
		events := c.eventsOn(date)

		day := c.policy.classify(date, events, includeHolHamoed)
		calc.Days = append(calc.Days, day)
		calc.VacationDaysNeeded += day.WorkValue

		switch day.Category {
		case CategoryWeekend:
			calc.WeekendDays++
		case CategoryHalfDay:
			calc.HalfDays++
		case CategoryHoliday:
			calc.HolidayDays++
		default:
			calc.WorkDays++
		}

		calc.Holidays = append(calc.Holidays, c.holidayEvents(date, events, includeHolHamoed)...)
	}

	c.logger.Debug("Range aggregated",
		zap.String("range", r.String()),
		zap.Bool("include_hol_hamoed", includeHolHamoed),
		zap.Int("total_days", calc.TotalDays),
		zap.Float64("vacation_days_needed", calc.VacationDaysNeeded))

	return calc
}

// Classify returns the category and work value of a single date
func (c *Calculator) Classify(date time.Time, includeHolHamoed bool) Day {
	date = dateutil.StartOfDay(date)
	return c.policy.classify(date, c.eventsOn(date), includeHolHamoed)
}

// Enumerate lists the half-day and holiday events in r in date order.
// Several events on one date each produce an entry.
func (c *Calculator) Enumerate(r DateRange, includeHolHamoed bool) []HolidayEvent {
	holidays := []HolidayEvent{}
	for date := range r.Days() {
		holidays = append(holidays, c.holidayEvents(date, c.eventsOn(date), includeHolHamoed)...)
	}
	return holidays
}

func (c *Calculator) holidayEvents(date time.Time, events []calendar.Event, includeHolHamoed bool) []HolidayEvent {
	var out []HolidayEvent
	for _, ev := range events {
		isHalfDay := c.policy.IsHalfDay(ev)
		if !isHalfDay && !c.policy.IsMajorHoliday(ev, includeHolHamoed) {
			continue
		}
		out = append(out, HolidayEvent{
			Date:        date,
			Name:        ev.Desc,
			HebrewName:  ev.Hebrew,
			IsHalfDay:   isHalfDay,
			IsHolHamoed: ev.Flags.Has(calendar.FlagCholHamoed),
		})
	}
	return out
}

// eventsOn queries the oracle, treating a failure as a day without events
func (c *Calculator) eventsOn(date time.Time) []calendar.Event {
	events, err := c.oracle.EventsOn(date, c.policy.Israel)
	if err != nil {
		c.logger.Warn("Holiday lookup failed, treating day as having no events",
			zap.String("date", dateutil.FormatDate(date)),
			zap.Error(err))
		return nil
	}
	return events
}
