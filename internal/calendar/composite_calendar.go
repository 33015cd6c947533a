package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeOracle implements Oracle with fallback strategy
// Primary: usually HebcalOracle (API)
// Fallback: RulesOracle or FileOracle
type CompositeOracle struct {
	primary  Oracle
	fallback Oracle
	logger   *zap.Logger
}

// NewCompositeOracle creates a new CompositeOracle
func NewCompositeOracle(primary, fallback Oracle, logger *zap.Logger) *CompositeOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeOracle{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// EventsOn returns the events on the calendar day of date
func (cc *CompositeOracle) EventsOn(date time.Time, israel bool) ([]Event, error) {
	// Try primary first
	events, err := cc.primary.EventsOn(date, israel)
	if err == nil {
		return events, nil
	}

	cc.logger.Warn("Primary calendar failed, falling back",
		zap.String("date", dayKey(date)),
		zap.Error(err))

	return cc.fallback.EventsOn(date, israel)
}

// LoadFallback loads the fallback calendar (if FileOracle)
func (cc *CompositeOracle) LoadFallback() error {
	if fc, ok := cc.fallback.(*FileOracle); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cc.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
