package vacation

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/username/vacation-days/internal/calendar"
	"go.uber.org/zap"
)

// d is a test helper to construct dates.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewRange(start, end)
	if err != nil {
		t.Fatalf("NewRange() error = %v", err)
	}
	return r
}

// fakeOracle serves fixed events keyed by YYYY-MM-DD
type fakeOracle struct {
	events map[string][]calendar.Event
	fail   map[string]bool
	calls  int
}

func (f *fakeOracle) EventsOn(date time.Time, _ bool) ([]calendar.Event, error) {
	f.calls++
	key := date.Format("2006-01-02")
	if f.fail[key] {
		return nil, errors.New("conversion failed")
	}
	return f.events[key], nil
}

func holidayNames(holidays []HolidayEvent) []string {
	out := make([]string, len(holidays))
	for i, h := range holidays {
		out[i] = h.Date.Format("2006-01-02") + " " + h.Name
	}
	return out
}

func checkPartition(t *testing.T, calc *Calculation) {
	t.Helper()
	sum := calc.WorkDays + calc.WeekendDays + calc.HolidayDays + calc.HalfDays
	if sum != calc.TotalDays {
		t.Errorf("category sum = %d, want TotalDays %d", sum, calc.TotalDays)
	}
	if calc.VacationDaysNeeded < 0 || calc.VacationDaysNeeded > float64(calc.TotalDays) {
		t.Errorf("VacationDaysNeeded = %v out of [0, %d]", calc.VacationDaysNeeded, calc.TotalDays)
	}
	if len(calc.Days) != calc.TotalDays {
		t.Errorf("len(Days) = %d, want %d", len(calc.Days), calc.TotalDays)
	}
}

func TestCalculator_Aggregate(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	tests := []struct {
		name             string
		start, end       time.Time
		includeHolHamoed bool
		wantWork         int
		wantWeekend      int
		wantHoliday      int
		wantHalf         int
		wantNeeded       float64
		wantHolidays     []string
	}{
		{
			name:  "ordinary week",
			start: d(2024, 1, 1), end: d(2024, 1, 7),
			wantWork: 5, wantWeekend: 2, wantNeeded: 5,
			wantHolidays: []string{},
		},
		{
			name:  "sukkot without chol hamoed",
			start: d(2024, 10, 13), end: d(2024, 10, 26),
			wantWork: 6, wantWeekend: 4, wantHoliday: 2, wantHalf: 2, wantNeeded: 7,
			wantHolidays: []string{
				"2024-10-16 Erev Sukkot",
				"2024-10-17 Sukkot I",
				"2024-10-23 Sukkot VII (Hoshana Raba)",
				"2024-10-24 Shmini Atzeret",
			},
		},
		{
			name:  "sukkot with chol hamoed",
			start: d(2024, 10, 13), end: d(2024, 10, 26), includeHolHamoed: true,
			wantWork: 3, wantWeekend: 4, wantHoliday: 5, wantHalf: 2, wantNeeded: 4,
			wantHolidays: []string{
				"2024-10-16 Erev Sukkot",
				"2024-10-17 Sukkot I",
				"2024-10-18 Sukkot II (CH''M)",
				"2024-10-19 Sukkot III (CH''M)",
				"2024-10-20 Sukkot IV (CH''M)",
				"2024-10-21 Sukkot V (CH''M)",
				"2024-10-22 Sukkot VI (CH''M)",
				"2024-10-23 Sukkot VII (Hoshana Raba)",
				"2024-10-24 Shmini Atzeret",
			},
		},
		{
			name:  "pesach without chol hamoed",
			start: d(2024, 4, 21), end: d(2024, 4, 30),
			wantWork: 4, wantWeekend: 2, wantHoliday: 2, wantHalf: 2, wantNeeded: 5,
			wantHolidays: []string{
				"2024-04-22 Erev Pesach",
				"2024-04-23 Pesach I",
				"2024-04-28 Pesach VI (CH''M)",
				"2024-04-29 Pesach VII",
			},
		},
		{
			name:  "pesach with chol hamoed",
			start: d(2024, 4, 21), end: d(2024, 4, 30), includeHolHamoed: true,
			wantWork: 2, wantWeekend: 2, wantHoliday: 4, wantHalf: 2, wantNeeded: 3,
		},
		{
			name:  "memorial and independence days",
			start: d(2024, 5, 12), end: d(2024, 5, 16),
			wantWork: 3, wantHoliday: 2, wantNeeded: 3,
			wantHolidays: []string{
				"2024-05-13 Yom HaZikaron",
				"2024-05-14 Yom HaAtzma'ut",
			},
		},
		{
			name:  "rosh hashana",
			start: d(2024, 10, 1), end: d(2024, 10, 5),
			wantWork: 1, wantWeekend: 2, wantHoliday: 1, wantHalf: 1, wantNeeded: 1.5,
			wantHolidays: []string{
				"2024-10-02 Erev Rosh Hashana",
				"2024-10-03 Rosh Hashana 5785",
				"2024-10-04 Rosh Hashana II",
			},
		},
		{
			name:  "erev tisha b'av",
			start: d(2024, 8, 11), end: d(2024, 8, 14),
			wantWork: 3, wantHalf: 1, wantNeeded: 3.5,
			wantHolidays: []string{"2024-08-12 Erev Tish'a B'Av"},
		},
		{
			name:  "shavuot",
			start: d(2025, 6, 1), end: d(2025, 6, 3),
			wantWork: 1, wantHoliday: 1, wantHalf: 1, wantNeeded: 1.5,
			wantHolidays: []string{
				"2025-06-01 Erev Shavuot",
				"2025-06-02 Shavuot",
			},
		},
		{
			name:  "first chanukah candle is a half day",
			start: d(2024, 12, 22), end: d(2024, 12, 26),
			wantWork: 4, wantHalf: 1, wantNeeded: 4.5,
			wantHolidays: []string{"2024-12-25 Chanukah: 1 Candle"},
		},
		{
			name:  "first chanukah candle alone",
			start: d(2024, 12, 25), end: d(2024, 12, 25),
			wantHalf: 1, wantNeeded: 0.5,
			wantHolidays: []string{"2024-12-25 Chanukah: 1 Candle"},
		},
		{
			name:  "erev on a weekend is listed but counted as weekend",
			start: d(2024, 3, 20), end: d(2024, 3, 26),
			wantWork: 5, wantWeekend: 2, wantNeeded: 5,
			wantHolidays: []string{"2024-03-23 Erev Purim"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Aggregate(mustRange(t, tt.start, tt.end), tt.includeHolHamoed)

			checkPartition(t, got)
			if got.WorkDays != tt.wantWork {
				t.Errorf("WorkDays = %d, want %d", got.WorkDays, tt.wantWork)
			}
			if got.WeekendDays != tt.wantWeekend {
				t.Errorf("WeekendDays = %d, want %d", got.WeekendDays, tt.wantWeekend)
			}
			if got.HolidayDays != tt.wantHoliday {
				t.Errorf("HolidayDays = %d, want %d", got.HolidayDays, tt.wantHoliday)
			}
			if got.HalfDays != tt.wantHalf {
				t.Errorf("HalfDays = %d, want %d", got.HalfDays, tt.wantHalf)
			}
			if got.VacationDaysNeeded != tt.wantNeeded {
				t.Errorf("VacationDaysNeeded = %v, want %v", got.VacationDaysNeeded, tt.wantNeeded)
			}
			if tt.wantHolidays != nil {
				if names := holidayNames(got.Holidays); !reflect.DeepEqual(names, tt.wantHolidays) {
					t.Errorf("Holidays = %v, want %v", names, tt.wantHolidays)
				}
			}
		})
	}
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	got, err := calc.Calculate("2024-01-01", "2024-01-07", false)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.TotalDays != 7 {
		t.Errorf("TotalDays = %d, want 7", got.TotalDays)
	}
	if got.WeekendDays < 1 {
		t.Errorf("WeekendDays = %d, want at least 1", got.WeekendDays)
	}
	checkPartition(t, got)
}

func TestCalculator_CalculateInvalid(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	tests := []struct {
		name       string
		start, end string
	}{
		{"empty start", "", "2024-01-07"},
		{"empty end", "2024-01-01", ""},
		{"both empty", "", ""},
		{"whitespace", "  ", "2024-01-07"},
		{"end before start", "2024-01-07", "2024-01-01"},
		{"unparseable", "next tuesday", "2024-01-07"},
		{"impossible date", "2024-02-30", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Calculate(tt.start, tt.end, false)
			if got != nil {
				t.Errorf("Calculate() = %+v, want nil", got)
			}
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Calculate() error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestCalculator_SingleDay(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	for _, date := range []string{"2024-01-01", "2024-10-03", "2024-10-05"} {
		got, err := calc.Calculate(date, date, true)
		if err != nil {
			t.Fatalf("Calculate(%s) error = %v", date, err)
		}
		if got.TotalDays != 1 {
			t.Errorf("Calculate(%s).TotalDays = %d, want 1", date, got.TotalDays)
		}
		checkPartition(t, got)
	}
}

func TestCalculator_Idempotent(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	first, err := calc.Calculate("2024-09-01", "2024-11-30", true)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	second, err := calc.Calculate("2024-09-01", "2024-11-30", true)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Calculate() results differ between identical calls")
	}
	checkPartition(t, first)
}

func TestCalculator_PartitionOverLongRanges(t *testing.T) {
	calc := NewCalculator(calendar.NewRulesOracle(zap.NewNop()), DefaultPolicy(), zap.NewNop())

	for _, incl := range []bool{false, true} {
		got := calc.Aggregate(mustRange(t, d(2020, 1, 1), d(2027, 12, 31)), incl)
		checkPartition(t, got)

		var sum float64
		for i, day := range got.Days {
			sum += day.WorkValue
			if i > 0 && !day.Date.After(got.Days[i-1].Date) {
				t.Fatalf("Days not ascending at %d", i)
			}
		}
		if sum != got.VacationDaysNeeded {
			t.Errorf("sum of WorkValue = %v, want %v", sum, got.VacationDaysNeeded)
		}
	}
}

func TestCalculator_Classify(t *testing.T) {
	oracle := &fakeOracle{events: map[string][]calendar.Event{
		"2024-10-03": {{Desc: "Rosh Hashana 5785", Flags: calendar.FlagChag}},
		"2024-10-04": {{Desc: "Rosh Hashana II", Flags: calendar.FlagChag}},
		"2024-10-16": {{Desc: "Erev Sukkot", Flags: calendar.FlagErev}},
		"2024-10-21": {{Desc: "Sukkot V (CH''M)", Flags: calendar.FlagCholHamoed}},
		"2024-10-23": {{Desc: "Sukkot VII (Hoshana Raba)", Flags: calendar.FlagCholHamoed}},
		"2024-10-27": {{Desc: "Erev Something", Flags: calendar.FlagChag}},
		"2024-10-28": {{Desc: "Yom HaZikaron", Flags: calendar.FlagModernHoliday}},
		"2024-10-29": {{Desc: "Tzom Gedaliah", Flags: calendar.FlagMinorFast}},
		"2024-10-30": {{Desc: "Simchat Torah", Flags: calendar.FlagYomTovEnds}},
	}}
	calc := NewCalculator(oracle, DefaultPolicy(), zap.NewNop())

	tests := []struct {
		name             string
		date             time.Time
		includeHolHamoed bool
		want             Category
		wantValue        float64
	}{
		{"friday", d(2024, 1, 5), false, CategoryWeekend, 0},
		{"saturday", d(2024, 1, 6), false, CategoryWeekend, 0},
		{"sunday", d(2024, 1, 7), false, CategoryWorkday, 1},
		{"monday", d(2024, 1, 8), false, CategoryWorkday, 1},
		{"chag", d(2024, 10, 3), false, CategoryHoliday, 0},
		{"chag on friday is weekend", d(2024, 10, 4), false, CategoryWeekend, 0},
		{"erev flag", d(2024, 10, 16), false, CategoryHalfDay, 0.5},
		{"chol hamoed excluded", d(2024, 10, 21), false, CategoryWorkday, 1},
		{"chol hamoed included", d(2024, 10, 21), true, CategoryHoliday, 0},
		{"named half day", d(2024, 10, 23), true, CategoryHalfDay, 0.5},
		{"erev description wins over chag flag", d(2024, 10, 27), false, CategoryHalfDay, 0.5},
		{"national day", d(2024, 10, 28), false, CategoryHoliday, 0},
		{"minor fast is a workday", d(2024, 10, 29), false, CategoryWorkday, 1},
		{"end of festival", d(2024, 10, 30), false, CategoryHoliday, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Classify(tt.date, tt.includeHolHamoed)
			if got.Category != tt.want {
				t.Errorf("Category = %v, want %v", got.Category, tt.want)
			}
			if got.WorkValue != tt.wantValue {
				t.Errorf("WorkValue = %v, want %v", got.WorkValue, tt.wantValue)
			}
		})
	}
}

func TestCalculator_CholHamoedToggle(t *testing.T) {
	oracle := &fakeOracle{events: map[string][]calendar.Event{
		"2024-10-20": {{Desc: "Sukkot IV (CH''M)", Flags: calendar.FlagCholHamoed}},
	}}
	calc := NewCalculator(oracle, DefaultPolicy(), zap.NewNop())

	if got := calc.Classify(d(2024, 10, 20), false); got.Category != CategoryWorkday {
		t.Errorf("without hol hamoed Category = %v, want workday", got.Category)
	}
	if got := calc.Classify(d(2024, 10, 20), true); got.Category != CategoryHoliday {
		t.Errorf("with hol hamoed Category = %v, want holiday", got.Category)
	}

	r := mustRange(t, d(2024, 10, 20), d(2024, 10, 20))
	if got := calc.Enumerate(r, false); len(got) != 0 {
		t.Errorf("Enumerate(false) = %v, want none", holidayNames(got))
	}
	got := calc.Enumerate(r, true)
	if len(got) != 1 || !got[0].IsHolHamoed || got[0].IsHalfDay {
		t.Errorf("Enumerate(true) = %+v", got)
	}
}

func TestCalculator_OracleErrorsAreSwallowed(t *testing.T) {
	oracle := &fakeOracle{
		events: map[string][]calendar.Event{
			"2024-10-03": {{Desc: "Rosh Hashana 5785", Flags: calendar.FlagChag}},
		},
		fail: map[string]bool{"2024-10-01": true},
	}
	calc := NewCalculator(oracle, DefaultPolicy(), zap.NewNop())

	got := calc.Aggregate(mustRange(t, d(2024, 9, 30), d(2024, 10, 3)), false)
	checkPartition(t, got)
	if got.WorkDays != 3 || got.HolidayDays != 1 {
		t.Errorf("WorkDays = %d, HolidayDays = %d, want 3 and 1", got.WorkDays, got.HolidayDays)
	}
	if names := holidayNames(got.Holidays); !reflect.DeepEqual(names, []string{"2024-10-03 Rosh Hashana 5785"}) {
		t.Errorf("Holidays = %v", names)
	}
}

func TestCalculator_OneLookupPerDate(t *testing.T) {
	oracle := &fakeOracle{}
	calc := NewCalculator(oracle, DefaultPolicy(), zap.NewNop())

	calc.Aggregate(mustRange(t, d(2024, 1, 1), d(2024, 1, 31)), false)
	if oracle.calls != 31 {
		t.Errorf("oracle calls = %d, want 31", oracle.calls)
	}
}

func TestCalculator_MultipleEventsPerDate(t *testing.T) {
	oracle := &fakeOracle{events: map[string][]calendar.Event{
		"2024-12-31": {
			{Desc: "Chanukah: 7 Candles", Flags: calendar.FlagMinorHoliday},
			{Desc: "Rosh Chodesh Tevet", Flags: calendar.FlagRoshChodesh},
			{Desc: "Yom HaZikaron", Flags: calendar.FlagModernHoliday},
			{Desc: "Erev Test", Flags: calendar.FlagErev},
		},
	}}
	calc := NewCalculator(oracle, DefaultPolicy(), zap.NewNop())

	got := calc.Enumerate(mustRange(t, d(2024, 12, 31), d(2024, 12, 31)), false)
	want := []string{"2024-12-31 Yom HaZikaron", "2024-12-31 Erev Test"}
	if names := holidayNames(got); !reflect.DeepEqual(names, want) {
		t.Errorf("Enumerate() = %v, want %v", names, want)
	}
	if got[0].IsHalfDay || !got[1].IsHalfDay {
		t.Errorf("IsHalfDay = %v, %v, want false, true", got[0].IsHalfDay, got[1].IsHalfDay)
	}

	// half day takes precedence over the national day
	if day := calc.Classify(d(2024, 12, 31), false); day.Category != CategoryHalfDay {
		t.Errorf("Category = %v, want half_day", day.Category)
	}
}

func TestCalculator_CustomWeekend(t *testing.T) {
	policy := DefaultPolicy()
	policy.Weekend = []time.Weekday{time.Saturday, time.Sunday}
	calc := NewCalculator(&fakeOracle{}, policy, zap.NewNop())

	got := calc.Aggregate(mustRange(t, d(2024, 1, 1), d(2024, 1, 7)), false)
	if got.WeekendDays != 2 || got.WorkDays != 5 {
		t.Errorf("WeekendDays = %d, WorkDays = %d", got.WeekendDays, got.WorkDays)
	}
	if got.Days[4].Category != CategoryWorkday {
		t.Errorf("friday Category = %v, want workday", got.Days[4].Category)
	}
}
