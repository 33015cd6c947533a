package vacation

import (
	"slices"
	"strings"
	"time"

	"github.com/username/vacation-days/internal/calendar"
	"github.com/username/vacation-days/pkg/dateutil"
)

// Policy holds the workplace rules used to classify days
type Policy struct {
	// Weekend days. Empty means Friday and Saturday.
	Weekend []time.Weekday

	// HalfDayNames are event descriptions counted as half days
	// in addition to holiday eves.
	HalfDayNames []string

	// NationalDayNames are event descriptions counted as full holidays
	// even though the calendar does not mark them as festivals.
	NationalDayNames []string

	// Israel selects Israeli holiday observance when querying the oracle
	Israel bool
}

// DefaultHalfDayNames are observances some workplaces treat as half days
var DefaultHalfDayNames = []string{
	"Sukkot VII (Hoshana Raba)",
	"Pesach VI (CH''M)",
}

// DefaultNationalDayNames are the memorial, independence and unification days
var DefaultNationalDayNames = []string{
	"Yom HaZikaron",
	"Yom HaAtzma'ut",
	"Yom Yerushalayim",
}

const erevMarker = "Erev"

// DefaultPolicy returns the Israeli policy
func DefaultPolicy() Policy {
	return Policy{
		Weekend:          slices.Clone(dateutil.IsraeliWeekend),
		HalfDayNames:     slices.Clone(DefaultHalfDayNames),
		NationalDayNames: slices.Clone(DefaultNationalDayNames),
		Israel:           true,
	}
}

// IsWeekend reports whether date falls on a weekend day
func (p Policy) IsWeekend(date time.Time) bool {
	return dateutil.IsWeekend(date, p.Weekend...)
}

// IsHalfDay reports whether ev makes its day a half day
func (p Policy) IsHalfDay(ev calendar.Event) bool {
	return ev.Flags.Has(calendar.FlagErev) ||
		strings.HasPrefix(ev.Desc, erevMarker) ||
		slices.Contains(p.HalfDayNames, ev.Desc)
}

// IsMajorHoliday reports whether ev makes its day a full day off.
// Chol hamoed days count only when includeHolHamoed is set.
func (p Policy) IsMajorHoliday(ev calendar.Event, includeHolHamoed bool) bool {
	if strings.Contains(ev.Desc, erevMarker) {
		return false
	}

	switch {
	case ev.Flags.Has(calendar.FlagChag) && !ev.Flags.Has(calendar.FlagErev):
		return true
	case ev.Flags.Has(calendar.FlagYomTovEnds):
		return true
	case includeHolHamoed && ev.Flags.Has(calendar.FlagCholHamoed):
		return true
	default:
		return slices.Contains(p.NationalDayNames, ev.Desc)
	}
}
