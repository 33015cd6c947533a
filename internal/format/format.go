package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Lang is a display language
type Lang string

const (
	LangEnglish Lang = "en"
	LangHebrew  Lang = "he"
)

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Hebrew,
}

var matcher = language.NewMatcher(supported)

// ParseLang matches a language tag or Accept-Language value against the
// supported languages. Anything unmatched is English.
func ParseLang(s string) Lang {
	s = strings.TrimSpace(s)
	if s == "" {
		return LangEnglish
	}
	_, idx := language.MatchStrings(matcher, s)
	if supported[idx] == language.Hebrew {
		return LangHebrew
	}
	return LangEnglish
}

// number renders n without trailing zeros: 3, 3.5
func number(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// English formats a day count: "1 day", otherwise "n days"
func English(n float64) string {
	if n == 1 {
		return "1 day"
	}
	return number(n) + " days"
}

// Hebrew formats a day count with the singular and dual forms for 1 and 2
func Hebrew(n float64) string {
	switch n {
	case 1:
		return "יום אחד"
	case 2:
		return "יומיים"
	default:
		return number(n) + " ימים"
	}
}

// Days formats a day count in lang
func Days(lang Lang, n float64) string {
	if lang == LangHebrew {
		return Hebrew(n)
	}
	return English(n)
}

var categoryLabels = map[Lang]map[string]string{
	LangEnglish: {
		"workday":  "Workday",
		"weekend":  "Weekend",
		"holiday":  "Holiday",
		"half_day": "Half day",
	},
	LangHebrew: {
		"workday":  "יום עבודה",
		"weekend":  "סוף שבוע",
		"holiday":  "חג",
		"half_day": "חצי יום",
	},
}

// CategoryLabel returns the display label of a day category.
// Unknown categories are returned unchanged.
func CategoryLabel(lang Lang, category string) string {
	labels, ok := categoryLabels[lang]
	if !ok {
		labels = categoryLabels[LangEnglish]
	}
	if label, ok := labels[category]; ok {
		return label
	}
	return category
}

// HolidayName picks the holiday name for lang, falling back to the English name
func HolidayName(lang Lang, name, hebrew string) string {
	if lang == LangHebrew && hebrew != "" {
		return hebrew
	}
	return name
}

// Summary is the one-line result shown to the user
func Summary(lang Lang, needed float64) string {
	if lang == LangHebrew {
		return "ימי חופשה נדרשים: " + Hebrew(needed)
	}
	return "Vacation needed: " + English(needed)
}
