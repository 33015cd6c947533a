package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileOracle implements Oracle using a local text file.
//
// Format: one event per line, "YYYY-MM-DD flags Description".
// flags is a comma-separated list of flag names or "-" for none.
// A Hebrew rendering may follow the description after " | ".
// Blank lines and lines starting with '#' are ignored.
//
//	2024-10-03 chag,light_candles Rosh Hashana 5785 | ראש השנה 5785
//
// A month appears as covered once any line for it is loaded; asking for a
// date in an uncovered month is an error so a composite can fall back.
type FileOracle struct {
	filePath string
	logger   *zap.Logger
	data     map[string][]Event // key: "YYYY-MM"
}

// NewFileOracle creates a new FileOracle instance
func NewFileOracle(filePath string, logger *zap.Logger) *FileOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileOracle{
		filePath: filePath,
		logger:   logger,
		data:     make(map[string][]Event),
	}
}

// Load loads calendar data from file
func (fc *FileOracle) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data := make(map[string][]Event)
	scanner := bufio.NewScanner(file)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ev, err := parseEventLine(line)
		if err != nil {
			fc.logger.Warn("Invalid calendar line",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(err))
			continue
		}

		key := monthKey(ev.Date.Year(), ev.Date.Month())
		data[key] = append(data[key], ev)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.data = data

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("months", len(fc.data)))

	return nil
}

// parseEventLine parses "YYYY-MM-DD flags Description[ | Hebrew]"
func parseEventLine(line string) (Event, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 3 {
		return Event{}, fmt.Errorf("expected date, flags and description")
	}

	date, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return Event{}, fmt.Errorf("failed to parse date: %w", err)
	}

	flags, err := ParseFlags(parts[1])
	if err != nil {
		return Event{}, err
	}

	desc, hebrew, _ := strings.Cut(parts[2], " | ")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return Event{}, fmt.Errorf("empty description")
	}

	return Event{
		Date:   date,
		Desc:   desc,
		Hebrew: strings.TrimSpace(hebrew),
		Flags:  flags,
	}, nil
}

// EventsOn returns the events on the calendar day of date
func (fc *FileOracle) EventsOn(date time.Time, _ bool) ([]Event, error) {
	key := monthKey(date.Year(), date.Month())

	events, ok := fc.data[key]
	if !ok {
		return nil, fmt.Errorf("month not found in calendar: %s", key)
	}

	day := dayKey(date)
	var out []Event
	for _, ev := range events {
		if dayKey(ev.Date) == day {
			out = append(out, ev)
		}
	}
	return atDay(out, date), nil
}

// Months returns the number of months covered by the loaded file
func (fc *FileOracle) Months() int {
	return len(fc.data)
}
