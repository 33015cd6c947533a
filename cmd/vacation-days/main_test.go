package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/vacation-days/internal/vacation"
	"github.com/username/vacation-days/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile := writeFile(t, "config.yaml", "log:\n  level: error\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"-c", configFile}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestCalcCmd_Text(t *testing.T) {
	out, err := runCmd(t, "calc", "--start", "2024-10-13", "--end", "2024-10-26")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}

	for _, want := range []string{
		"2024-10-13 .. 2024-10-26",
		"Vacation needed: 7 days",
		"2024-10-16  Erev Sukkot (Half day)",
		"2024-10-24  Shmini Atzeret",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Per-day breakdown") {
		t.Error("breakdown printed without --breakdown")
	}
}

func TestCalcCmd_HebrewBreakdown(t *testing.T) {
	out, err := runCmd(t, "calc", "--start", "01.01.2024", "--end", "02.01.2024", "--lang", "he", "--breakdown")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}
	if !strings.Contains(out, "ימי חופשה נדרשים: יומיים") {
		t.Errorf("output missing Hebrew summary:\n%s", out)
	}
	if !strings.Contains(out, "Per-day breakdown") || !strings.Contains(out, "יום עבודה") {
		t.Errorf("output missing breakdown:\n%s", out)
	}
}

func TestCalcCmd_JSON(t *testing.T) {
	out, err := runCmd(t, "calc", "--start", "2024-04-21", "--end", "2024-04-30", "--hol-hamoed", "-o", "json")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}

	var got struct {
		TotalDays          int                     `json:"total_days"`
		VacationDaysNeeded float64                 `json:"vacation_days_needed"`
		IncludeHolHamoed   bool                    `json:"include_hol_hamoed"`
		Formatted          string                  `json:"formatted"`
		Holidays           []vacation.HolidayEvent `json:"holidays"`
		Days               []vacation.Day          `json:"days"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if got.TotalDays != 10 || got.VacationDaysNeeded != 3 || !got.IncludeHolHamoed {
		t.Errorf("result = %+v", got)
	}
	if got.Formatted != "3 days" {
		t.Errorf("formatted = %q", got.Formatted)
	}
	if len(got.Days) != 0 {
		t.Errorf("days = %d entries without --breakdown", len(got.Days))
	}
}

func TestCalcCmd_YAML(t *testing.T) {
	out, err := runCmd(t, "calc", "--start", "2024-01-01", "--end", "2024-01-07", "-o", "yaml", "--breakdown")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}

	var got map[string]interface{}
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid yaml %q: %v", out, err)
	}
	if got["total_days"] != 7 || got["weekend_days"] != 2 {
		t.Errorf("result = %v", got)
	}
	if days, ok := got["days"].([]interface{}); !ok || len(days) != 7 {
		t.Errorf("days = %v", got["days"])
	}
}

func TestCalcCmd_StartDefaultsToToday(t *testing.T) {
	today := dateutil.FormatDate(dateutil.Today())
	out, err := runCmd(t, "calc", "--end", today, "-o", "json")
	if err != nil {
		t.Fatalf("calc error = %v", err)
	}

	var got struct {
		TotalDays int `json:"total_days"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if got.TotalDays != 1 {
		t.Errorf("total_days = %d, want 1", got.TotalDays)
	}
}

func TestCalcCmd_InvalidRange(t *testing.T) {
	_, err := runCmd(t, "calc", "--start", "2024-01-07", "--end", "2024-01-01")
	if !errors.Is(err, vacation.ErrInvalidRange) {
		t.Errorf("calc error = %v, want ErrInvalidRange", err)
	}
}

func TestCalcCmd_UnknownOutput(t *testing.T) {
	if _, err := runCmd(t, "calc", "--start", "2024-01-01", "--end", "2024-01-07", "-o", "xml"); err == nil {
		t.Error("calc expected error for unknown output")
	}
}

func TestHolidaysCmd(t *testing.T) {
	out, err := runCmd(t, "holidays", "--start", "2024-05-12", "--end", "2024-05-16")
	if err != nil {
		t.Fatalf("holidays error = %v", err)
	}
	if !strings.Contains(out, "2024-05-13  Yom HaZikaron") || !strings.Contains(out, "2024-05-14  Yom HaAtzma'ut") {
		t.Errorf("output = %q", out)
	}

	out, err = runCmd(t, "holidays", "--start", "2024-01-01", "--end", "2024-01-07")
	if err != nil {
		t.Fatalf("holidays error = %v", err)
	}
	if !strings.Contains(out, "No holidays") {
		t.Errorf("output = %q", out)
	}
}

func TestHolidaysCmd_FileCalendar(t *testing.T) {
	holidays := writeFile(t, "holidays.txt", "2024-01-03 chag Company Day\n")
	configFile := writeFile(t, "config.yaml", "calendar:\n  type: file\n  file: "+holidays+"\nlog:\n  level: error\n")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"-c", configFile, "holidays", "--start", "2024-01-01", "--end", "2024-01-07", "-o", "json"})
	if err := root.Execute(); err != nil {
		t.Fatalf("holidays error = %v", err)
	}

	var got []vacation.HolidayEvent
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if len(got) != 1 || got[0].Name != "Company Day" {
		t.Errorf("holidays = %+v", got)
	}
}

func TestCacheClearCmd(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "memory cache is per process",
			config:  "log:\n  level: error\n",
			wantErr: "calendar.cache: redis",
		},
		{
			name:    "unreachable redis is reported",
			config:  "calendar:\n  cache: redis\nredis:\n  addr: 127.0.0.1:1\nlog:\n  level: error\n",
			wantErr: "failed to scan cache keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := writeFile(t, "config.yaml", tt.config)

			root := newRootCmd()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{"-c", configFile, "cache-clear"})

			err := root.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("cache-clear error = %v, want %q", err, tt.wantErr)
			}
			if strings.Contains(out.String(), "Calendar cache cleared") {
				t.Errorf("output = %q, want no success message", out.String())
			}
		})
	}
}
