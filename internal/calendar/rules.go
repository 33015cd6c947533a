package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/username/vacation-days/pkg/hebdate"
	"go.uber.org/zap"
)

const (
	minGregorianYear = 1
	maxGregorianYear = 9999
)

var (
	romanDays  = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII"}
	hebrewDays = [...]string{"א׳", "ב׳", "ג׳", "ד׳", "ה׳", "ו׳", "ז׳", "ח׳"}

	hebrewMonths = map[string]string{
		"Nisan":    "ניסן",
		"Iyyar":    "אייר",
		"Sivan":    "סיון",
		"Tamuz":    "תמוז",
		"Av":       "אב",
		"Elul":     "אלול",
		"Tishrei":  "תשרי",
		"Cheshvan": "חשון",
		"Kislev":   "כסלו",
		"Tevet":    "טבת",
		"Sh'vat":   "שבט",
		"Adar":     "אדר",
		"Adar I":   "אדר א׳",
		"Adar II":  "אדר ב׳",
	}
)

// holiday is an event before it is pinned to a Gregorian date
type holiday struct {
	desc   string
	hebrew string
	flags  Flags
}

// yearTable maps R.D. day numbers to the holidays on that day
type yearTable map[int][]holiday

type tableKey struct {
	year   int
	israel bool
}

// RulesOracle implements Oracle by computing the Jewish holiday calendar
// from Hebrew calendar arithmetic. Tables are built once per Hebrew year.
type RulesOracle struct {
	logger  *zap.Logger
	tables  map[tableKey]yearTable
	tableMu sync.RWMutex
}

// NewRulesOracle creates a new RulesOracle
func NewRulesOracle(logger *zap.Logger) *RulesOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RulesOracle{
		logger: logger,
		tables: make(map[tableKey]yearTable),
	}
}

// EventsOn returns the holidays on the calendar day of date
func (o *RulesOracle) EventsOn(date time.Time, israel bool) ([]Event, error) {
	if date.Year() < minGregorianYear || date.Year() > maxGregorianYear {
		return nil, fmt.Errorf("%w: %s", ErrDateOutOfRange, dayKey(date))
	}

	rd := hebdate.RataDie(date.Year(), date.Month(), date.Day())
	hd := hebdate.FromRD(rd)
	table := o.table(hd.Year, israel)

	holidays := table[rd]
	if len(holidays) == 0 {
		return nil, nil
	}

	events := make([]Event, len(holidays))
	for i, h := range holidays {
		events[i] = Event{Desc: h.desc, Hebrew: h.hebrew, Flags: h.flags}
	}
	return atDay(events, date), nil
}

func (o *RulesOracle) table(year int, israel bool) yearTable {
	key := tableKey{year: year, israel: israel}

	o.tableMu.RLock()
	if t, ok := o.tables[key]; ok {
		o.tableMu.RUnlock()
		return t
	}
	o.tableMu.RUnlock()

	t := buildYear(year, israel)

	o.tableMu.Lock()
	o.tables[key] = t
	o.tableMu.Unlock()

	o.logger.Debug("Holiday table built",
		zap.Int("hebrew_year", year),
		zap.Bool("israel", israel),
		zap.Int("days", len(t)))

	return t
}

// buildYear computes all holidays whose Hebrew date falls in year
func buildYear(year int, israel bool) yearTable {
	t := make(yearTable)
	add := func(rd int, desc, hebrew string, flags Flags) {
		t[rd] = append(t[rd], holiday{desc: desc, hebrew: hebrew, flags: flags})
	}
	at := func(month, day int, desc, hebrew string, flags Flags) {
		add(hebdate.ToRD(year, month, day), desc, hebrew, flags)
	}
	weekday := hebdate.Weekday

	// Tishrei
	at(hebdate.Tishrei, 1, fmt.Sprintf("Rosh Hashana %d", year), "ראש השנה", FlagChag|FlagLightCandles)
	at(hebdate.Tishrei, 2, "Rosh Hashana II", "ראש השנה ב׳", FlagChag|FlagYomTovEnds)

	gedaliah := hebdate.ToRD(year, hebdate.Tishrei, 3)
	if weekday(gedaliah) == time.Saturday {
		gedaliah++
	}
	add(gedaliah, "Tzom Gedaliah", "צום גדליה", FlagMinorFast)

	at(hebdate.Tishrei, 9, "Erev Yom Kippur", "ערב יום כפור", FlagErev|FlagLightCandles)
	at(hebdate.Tishrei, 10, "Yom Kippur", "יום כפור", FlagChag|FlagMajorFast|FlagYomTovEnds)
	at(hebdate.Tishrei, 14, "Erev Sukkot", "ערב סוכות", FlagErev|FlagLightCandles)

	festival(at, hebdate.Tishrei, "Sukkot", "סוכות", israel)
	at(hebdate.Tishrei, 21, "Sukkot VII (Hoshana Raba)", "סוכות ז׳ (הושענא רבה)", FlagCholHamoed|FlagLightCandles)
	if israel {
		at(hebdate.Tishrei, 22, "Shmini Atzeret", "שמיני עצרת", FlagChag|FlagYomTovEnds)
	} else {
		at(hebdate.Tishrei, 22, "Shmini Atzeret", "שמיני עצרת", FlagChag|FlagLightCandles)
		at(hebdate.Tishrei, 23, "Simchat Torah", "שמחת תורה", FlagChag|FlagYomTovEnds)
	}

	// Kislev / Tevet
	chanukah := hebdate.ToRD(year, hebdate.Kislev, 24)
	for i := 0; i < 8; i++ {
		desc := fmt.Sprintf("Chanukah: %d Candles", i+1)
		flags := FlagMinorHoliday
		if i == 0 {
			// the first candle is lit on the eve of the first day
			desc = "Chanukah: 1 Candle"
			flags |= FlagErev
		}
		add(chanukah+i, desc, fmt.Sprintf("חנוכה: נר %s", hebrewDays[i]), flags)
	}
	add(chanukah+8, "Chanukah: 8th Day", "חנוכה: יום ח׳", FlagMinorHoliday)
	at(hebdate.Tevet, 10, "Asara B'Tevet", "עשרה בטבת", FlagMinorFast)

	// Sh'vat / Adar
	at(hebdate.Shvat, 15, "Tu BiShvat", "ט״ו בשבט", FlagMinorHoliday)

	adar := hebdate.AdarI
	if hebdate.IsLeapYear(year) {
		adar = hebdate.AdarII
		at(hebdate.AdarI, 14, "Purim Katan", "פורים קטן", FlagMinorHoliday)
	}
	esther := hebdate.ToRD(year, adar, 13)
	if weekday(esther) == time.Saturday {
		esther -= 2
	}
	add(esther, "Ta'anit Esther", "תענית אסתר", FlagMinorFast)
	at(adar, 13, "Erev Purim", "ערב פורים", FlagErev|FlagMinorHoliday)
	at(adar, 14, "Purim", "פורים", FlagMinorHoliday)
	at(adar, 15, "Shushan Purim", "שושן פורים", FlagMinorHoliday)

	// Nisan
	at(hebdate.Nisan, 14, "Erev Pesach", "ערב פסח", FlagErev|FlagLightCandles)
	festival(at, hebdate.Nisan, "Pesach", "פסח", israel)
	at(hebdate.Nisan, 20, "Pesach VI (CH''M)", "פסח ו׳ (חוה״מ)", FlagCholHamoed|FlagLightCandles)
	if israel {
		at(hebdate.Nisan, 21, "Pesach VII", "פסח ז׳", FlagChag|FlagYomTovEnds)
	} else {
		at(hebdate.Nisan, 21, "Pesach VII", "פסח ז׳", FlagChag|FlagLightCandles)
		at(hebdate.Nisan, 22, "Pesach VIII", "פסח ח׳", FlagChag|FlagYomTovEnds)
	}

	if year >= 5711 {
		shoah := hebdate.ToRD(year, hebdate.Nisan, 27)
		switch weekday(shoah) {
		case time.Friday:
			shoah--
		case time.Sunday:
			shoah++
		}
		add(shoah, "Yom HaShoah", "יום השואה", FlagModernHoliday)
	}

	// Iyyar
	if year >= 5708 {
		day := zikaronDay(year)
		at(hebdate.Iyyar, day, "Yom HaZikaron", "יום הזיכרון", FlagModernHoliday)
		at(hebdate.Iyyar, day+1, "Yom HaAtzma'ut", "יום העצמאות", FlagModernHoliday)
	}
	at(hebdate.Iyyar, 18, "Lag BaOmer", "ל״ג בעומר", FlagMinorHoliday)
	if year >= 5727 {
		at(hebdate.Iyyar, 28, "Yom Yerushalayim", "יום ירושלים", FlagModernHoliday)
	}

	// Sivan
	at(hebdate.Sivan, 5, "Erev Shavuot", "ערב שבועות", FlagErev|FlagLightCandles)
	if israel {
		at(hebdate.Sivan, 6, "Shavuot", "שבועות", FlagChag|FlagYomTovEnds)
	} else {
		at(hebdate.Sivan, 6, "Shavuot I", "שבועות א׳", FlagChag|FlagLightCandles)
		at(hebdate.Sivan, 7, "Shavuot II", "שבועות ב׳", FlagChag|FlagYomTovEnds)
	}

	// Tamuz / Av
	tammuz := hebdate.ToRD(year, hebdate.Tamuz, 17)
	if weekday(tammuz) == time.Saturday {
		tammuz++
	}
	add(tammuz, "Tzom Tammuz", "צום תמוז", FlagMinorFast)

	av := hebdate.ToRD(year, hebdate.Av, 9)
	if weekday(av) == time.Saturday {
		av++
	}
	add(av-1, "Erev Tish'a B'Av", "ערב תשעה באב", FlagErev|FlagMajorFast)
	add(av, "Tish'a B'Av", "תשעה באב", FlagMajorFast)
	at(hebdate.Av, 15, "Tu B'Av", "ט״ו באב", FlagMinorHoliday)

	// Elul
	at(hebdate.Elul, 29, "Erev Rosh Hashana", "ערב ראש השנה", FlagErev|FlagLightCandles)

	roshChodesh(add, year)

	return t
}

// festival adds the first day(s) and chol hamoed days of Sukkot or Pesach.
// Day VII and beyond are added by the caller since their names differ.
func festival(at func(month, day int, desc, hebrew string, flags Flags), month int, name, hebrew string, israel bool) {
	first := 16
	if israel {
		at(month, 15, name+" I", hebrew+" "+hebrewDays[0], FlagChag|FlagYomTovEnds)
	} else {
		at(month, 15, name+" I", hebrew+" "+hebrewDays[0], FlagChag|FlagLightCandles)
		at(month, 16, name+" II", hebrew+" "+hebrewDays[1], FlagChag|FlagYomTovEnds)
		first = 17
	}

	last := 20
	if month == hebdate.Nisan {
		// Pesach VI carries candle lighting and is added by the caller
		last = 19
	}
	for day := first; day <= last; day++ {
		i := day - 15
		at(month, day,
			fmt.Sprintf("%s %s (CH''M)", name, romanDays[i]),
			fmt.Sprintf("%s %s (חוה״מ)", hebrew, hebrewDays[i]),
			FlagCholHamoed)
	}
}

// zikaronDay returns the Iyyar day of Yom HaZikaron. Yom HaAtzma'ut is the
// next day. Both move to avoid adjoining Shabbat.
func zikaronDay(year int) int {
	switch pesach := hebdate.Weekday(hebdate.ToRD(year, hebdate.Nisan, 15)); {
	case pesach == time.Sunday:
		return 2
	case pesach == time.Saturday:
		return 3
	case year < 5764:
		return 4
	case pesach == time.Tuesday:
		return 5
	default:
		return 4
	}
}

// roshChodesh adds Rosh Chodesh for every month but Tishrei. When the
// previous month has 30 days its last day is the first day of Rosh Chodesh.
func roshChodesh(add func(rd int, desc, hebrew string, flags Flags), year int) {
	order := []int{hebdate.Cheshvan, hebdate.Kislev, hebdate.Tevet, hebdate.Shvat, hebdate.AdarI}
	if hebdate.IsLeapYear(year) {
		order = append(order, hebdate.AdarII)
	}
	order = append(order, hebdate.Nisan, hebdate.Iyyar, hebdate.Sivan, hebdate.Tamuz, hebdate.Av, hebdate.Elul)

	prev := hebdate.Tishrei
	for _, month := range order {
		name := hebdate.MonthName(month, year)
		desc := "Rosh Chodesh " + name
		hebrew := "ראש חודש " + hebrewMonths[name]

		if hebdate.DaysInMonth(prev, year) == 30 {
			add(hebdate.ToRD(year, prev, 30), desc, hebrew, FlagRoshChodesh)
		}
		add(hebdate.ToRD(year, month, 1), desc, hebrew, FlagRoshChodesh)
		prev = month
	}
}
