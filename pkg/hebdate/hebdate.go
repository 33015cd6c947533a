// Package hebdate converts between Gregorian dates and the Hebrew calendar.
//
// Days are counted as Rata Die (R.D.) numbers where 0001-01-01 (Gregorian)
// is day 1. All arithmetic is integer-only.
package hebdate

import (
	"fmt"
	"time"
)

// Month numbers follow the civil-religious order starting at Nisan.
const (
	Nisan    = 1
	Iyyar    = 2
	Sivan    = 3
	Tamuz    = 4
	Av       = 5
	Elul     = 6
	Tishrei  = 7
	Cheshvan = 8
	Kislev   = 9
	Tevet    = 10
	Shvat    = 11
	AdarI    = 12
	AdarII   = 13
)

// epoch aligns ElapsedDays with R.D. numbering: 1 Tishrei AM 5785 is R.D. 739162 (2024-10-03).
const epoch = -1373429

// averageYear is the mean Hebrew year length in days.
const averageYear = 365.24682220597794

// HDate is a Hebrew calendar date.
type HDate struct {
	Year  int
	Month int
	Day   int
}

// New returns the Hebrew date for year, month, day. It does not normalize
// out-of-range values.
func New(year, month, day int) HDate {
	return HDate{Year: year, Month: month, Day: day}
}

// FromTime returns the Hebrew date of the calendar day of t in t's location.
func FromTime(t time.Time) HDate {
	return FromRD(RataDie(t.Year(), t.Month(), t.Day()))
}

// FromRD converts an R.D. day number to a Hebrew date.
func FromRD(rd int) HDate {
	year := int(float64(rd-epoch) / averageYear)
	for newYear(year) <= rd {
		year++
	}
	year--

	month := Tishrei
	if rd >= ToRD(year, Nisan, 1) {
		month = Nisan
	}
	for rd > ToRD(year, month, DaysInMonth(month, year)) {
		month++
	}

	return HDate{Year: year, Month: month, Day: 1 + rd - ToRD(year, month, 1)}
}

// RD returns the R.D. day number of h.
func (h HDate) RD() int {
	return ToRD(h.Year, h.Month, h.Day)
}

// Time returns midnight of the Gregorian day h falls on, in loc.
func (h HDate) Time(loc *time.Location) time.Time {
	return FromRataDie(h.RD(), loc)
}

// Weekday returns the day of the week of h.
func (h HDate) Weekday() time.Weekday {
	return Weekday(h.RD())
}

// MonthName returns the English transliteration of h's month.
func (h HDate) MonthName() string {
	return MonthName(h.Month, h.Year)
}

func (h HDate) String() string {
	return fmt.Sprintf("%d %s %d", h.Day, h.MonthName(), h.Year)
}

// IsLeapYear reports whether year has a thirteenth month (Adar II).
func IsLeapYear(year int) bool {
	return (1+year*7)%19 < 7
}

// MonthsInYear returns 12 or 13.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// ElapsedDays returns the number of days from the calendar epoch to
// 1 Tishrei of year, applying the molad and dechiyot postponement rules.
func ElapsedDays(year int) int {
	prev := year - 1
	monthsElapsed := 235*(prev/19) + 12*(prev%19) + ((prev%19)*7+1)/19
	partsElapsed := 204 + 793*(monthsElapsed%1080)
	hoursElapsed := 5 + 12*monthsElapsed + 793*(monthsElapsed/1080) + partsElapsed/1080
	parts := partsElapsed%1080 + 1080*(hoursElapsed%24)
	day := 1 + 29*monthsElapsed + hoursElapsed/24

	if parts >= 19440 ||
		(day%7 == 2 && parts >= 9924 && !IsLeapYear(year)) ||
		(day%7 == 1 && parts >= 16789 && IsLeapYear(prev)) {
		day++
	}
	// lo ADU rosh
	if d := day % 7; d == 0 || d == 3 || d == 5 {
		day++
	}
	return day
}

// DaysInYear returns the length of year: 353-355 or 383-385.
func DaysInYear(year int) int {
	return ElapsedDays(year+1) - ElapsedDays(year)
}

// LongCheshvan reports whether Cheshvan has 30 days in year.
func LongCheshvan(year int) bool {
	return DaysInYear(year)%10 == 5
}

// ShortKislev reports whether Kislev has 29 days in year.
func ShortKislev(year int) bool {
	return DaysInYear(year)%10 == 3
}

// DaysInMonth returns 29 or 30.
func DaysInMonth(month, year int) int {
	switch {
	case month == Iyyar, month == Tamuz, month == Elul, month == Tevet, month == AdarII:
		return 29
	case month == AdarI && !IsLeapYear(year):
		return 29
	case month == Cheshvan && !LongCheshvan(year):
		return 29
	case month == Kislev && ShortKislev(year):
		return 29
	}
	return 30
}

// ToRD converts a Hebrew date to an R.D. day number.
func ToRD(year, month, day int) int {
	days := day
	if month < Tishrei {
		for m := Tishrei; m <= MonthsInYear(year); m++ {
			days += DaysInMonth(m, year)
		}
		for m := Nisan; m < month; m++ {
			days += DaysInMonth(m, year)
		}
	} else {
		for m := Tishrei; m < month; m++ {
			days += DaysInMonth(m, year)
		}
	}
	return epoch + ElapsedDays(year) + days
}

func newYear(year int) int {
	return epoch + ElapsedDays(year) + 1
}

var monthNames = [...]string{
	"", "Nisan", "Iyyar", "Sivan", "Tamuz", "Av", "Elul",
	"Tishrei", "Cheshvan", "Kislev", "Tevet", "Sh'vat", "Adar", "Adar II",
}

// MonthName returns the English transliteration of month in year.
// In leap years month 12 is "Adar I".
func MonthName(month, year int) string {
	if month < Nisan || month > AdarII {
		return ""
	}
	if month == AdarI && IsLeapYear(year) {
		return "Adar I"
	}
	return monthNames[month]
}

// RataDie returns the R.D. day number of a proleptic Gregorian date.
func RataDie(year int, month time.Month, day int) int {
	y := year - 1
	rd := 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) + (367*int(month)-362)/12 + day
	if month > time.February {
		if isGregorianLeap(year) {
			rd--
		} else {
			rd -= 2
		}
	}
	return rd
}

// FromRataDie returns midnight of the Gregorian day rd in loc.
func FromRataDie(rd int, loc *time.Location) time.Time {
	// time.Date normalizes day overflow, so offset from a fixed anchor.
	return time.Date(1, time.January, rd, 0, 0, 0, 0, loc)
}

// Weekday returns the day of the week of an R.D. day number.
func Weekday(rd int) time.Weekday {
	w := rd % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}

func isGregorianLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
