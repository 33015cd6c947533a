package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/username/vacation-days/pkg/random"
	"go.uber.org/zap"
)

const (
	hebcalBaseURL      = "https://www.hebcal.com"
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 3
	defaultBackoff     = time.Second
	backoffJitter      = 20.0
	failureTTL         = time.Minute

	// the first Chanukah candle is lit on the eve of the first day
	chanukahFirstCandle = "Chanukah: 1 Candle"
)

// statusError is returned for non-200 responses; 5xx responses are retried
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.code)
}

// HebcalOracle implements Oracle using the hebcal.com REST API.
// Events are fetched a month at a time and kept in a MonthCache.
type HebcalOracle struct {
	baseURL    string
	httpClient *http.Client
	cache      MonthCache
	logger     *zap.Logger
	retries    int
	backoff    time.Duration

	// months whose fetch failed recently are not refetched for every date
	failures  map[string]failedFetch
	failureMu sync.Mutex
}

type failedFetch struct {
	err error
	at  time.Time
}

// hebcalResponse represents the API response
type hebcalResponse struct {
	Title string       `json:"title"`
	Items []hebcalItem `json:"items"`
}

// hebcalItem represents a single calendar item
type hebcalItem struct {
	Title    string `json:"title"`
	Date     string `json:"date"` // "2024-10-03" or RFC3339 for timed items
	Category string `json:"category"`
	Subcat   string `json:"subcat,omitempty"`
	Hebrew   string `json:"hebrew"`
	Yomtov   bool   `json:"yomtov,omitempty"`
}

// NewHebcalOracle creates a new HebcalOracle instance.
// An empty baseURL uses https://www.hebcal.com; a nil cache uses a 24h MemoryCache.
func NewHebcalOracle(baseURL string, cache MonthCache, logger *zap.Logger) *HebcalOracle {
	if baseURL == "" {
		baseURL = hebcalBaseURL
	}
	if cache == nil {
		cache = NewMemoryCache(defaultCacheTTL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HebcalOracle{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		cache:    cache,
		logger:   logger,
		retries:  defaultRetries,
		backoff:  defaultBackoff,
		failures: make(map[string]failedFetch),
	}
}

// EventsOn returns the events on the calendar day of date
func (c *HebcalOracle) EventsOn(date time.Time, israel bool) ([]Event, error) {
	events, err := c.GetMonthEvents(date.Year(), date.Month(), israel)
	if err != nil {
		return nil, err
	}

	key := dayKey(date)
	var out []Event
	for _, ev := range events {
		if dayKey(ev.Date) == key {
			out = append(out, ev)
		}
	}
	return atDay(out, date), nil
}

// GetMonthEvents returns all events of a Gregorian month
func (c *HebcalOracle) GetMonthEvents(year int, month time.Month, israel bool) ([]Event, error) {
	cacheKey := monthKey(year, month) + scopeSuffix(israel)

	if events, ok := c.cache.Get(cacheKey); ok {
		c.logger.Debug("Using cached month events",
			zap.String("key", cacheKey))
		return events, nil
	}

	if err := c.recentFailure(cacheKey); err != nil {
		return nil, err
	}

	events, err := c.fetchMonthWithRetry(year, month, israel)
	if err != nil {
		c.failureMu.Lock()
		c.failures[cacheKey] = failedFetch{err: err, at: time.Now()}
		c.failureMu.Unlock()
		return nil, err
	}

	c.cache.Set(cacheKey, events)

	c.logger.Info("Month events fetched and cached",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Bool("israel", israel),
		zap.Int("events", len(events)))

	return events, nil
}

func (c *HebcalOracle) recentFailure(key string) error {
	c.failureMu.Lock()
	defer c.failureMu.Unlock()

	f, ok := c.failures[key]
	if !ok {
		return nil
	}
	if time.Since(f.at) >= failureTTL {
		delete(c.failures, key)
		return nil
	}
	return f.err
}

// fetchMonthWithRetry retries transport failures and 5xx responses with a growing, jittered delay
func (c *HebcalOracle) fetchMonthWithRetry(year int, month time.Month, israel bool) ([]Event, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		events, err := c.fetchMonth(year, month, israel)
		if err == nil {
			return events, nil
		}
		if !retryable(err) {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("Hebcal request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.retries),
			zap.Error(err))

		if attempt < c.retries {
			time.Sleep(random.Jitter(c.backoff*time.Duration(attempt), backoffJitter))
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError
	}
	var fe *fetchError
	return errors.As(err, &fe)
}

// fetchError wraps transport failures
type fetchError struct {
	err error
}

func (e *fetchError) Error() string {
	return "failed to fetch calendar data: " + e.err.Error()
}

func (e *fetchError) Unwrap() error { return e.err }

// fetchMonth fetches a month of holidays from the API
func (c *HebcalOracle) fetchMonth(year int, month time.Month, israel bool) ([]Event, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	il := "off"
	if israel {
		il = "on"
	}

	// Build URL: https://www.hebcal.com/hebcal?v=1&cfg=json&maj=on&...&start=2024-10-01&end=2024-10-31
	url := fmt.Sprintf("%s/hebcal?v=1&cfg=json&maj=on&min=on&mod=on&nx=on&mf=on&ss=off&i=%s&start=%s&end=%s",
		c.baseURL, il, start.Format("2006-01-02"), end.Format("2006-01-02"))

	c.logger.Debug("Fetching month from hebcal",
		zap.String("url", url),
		zap.Int("year", year),
		zap.Int("month", int(month)))

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, &fetchError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var apiResp hebcalResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	return c.parseItems(apiResp.Items), nil
}

// parseItems converts API items to events, skipping items that are not holidays
func (c *HebcalOracle) parseItems(items []hebcalItem) []Event {
	events := make([]Event, 0, len(items))

	for _, item := range items {
		flags, ok := itemFlags(item)
		if !ok {
			continue
		}

		dateStr := item.Date
		if len(dateStr) > len("2006-01-02") {
			dateStr = dateStr[:len("2006-01-02")]
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.logger.Warn("Failed to parse date",
				zap.String("date", item.Date),
				zap.Error(err))
			continue
		}

		events = append(events, Event{
			Date:   date,
			Desc:   item.Title,
			Hebrew: item.Hebrew,
			Flags:  flags,
		})
	}

	return events
}

// itemFlags maps hebcal categories onto Flags.
// Returns false for items that are not holidays (parsha, candles, omer, ...).
func itemFlags(item hebcalItem) (Flags, bool) {
	var flags Flags

	switch item.Category {
	case "holiday":
		switch item.Subcat {
		case "major":
			if item.Yomtov {
				flags |= FlagChag
			}
			if strings.Contains(item.Title, "CH''M") || strings.Contains(item.Title, "Hoshana Raba") {
				flags |= FlagCholHamoed
			}
		case "minor":
			flags |= FlagMinorHoliday
		case "modern":
			flags |= FlagModernHoliday
		case "fast":
			flags |= FlagMinorFast
		}
		if item.Title == "Yom Kippur" || strings.Contains(item.Title, "Tish'a B'Av") {
			flags &^= FlagMinorFast
			flags |= FlagMajorFast
		}
	case "roshchodesh":
		flags |= FlagRoshChodesh
	default:
		return 0, false
	}

	if strings.HasPrefix(item.Title, "Erev ") || item.Title == chanukahFirstCandle {
		flags |= FlagErev
		flags &^= FlagChag
	}

	return flags, true
}

func scopeSuffix(israel bool) string {
	if israel {
		return "-il"
	}
	return "-diaspora"
}
