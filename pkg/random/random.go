package random

import (
	"math/rand/v2"
	"time"
)

// Jitter spreads d by ±percent.
// The result is never negative.
func Jitter(d time.Duration, percent float64) time.Duration {
	if d <= 0 || percent <= 0 {
		return d
	}

	variance := float64(d) * (percent / 100.0)
	jittered := time.Duration(float64(d) + (rand.Float64()*2-1)*variance)
	if jittered < 0 {
		return 0
	}
	return jittered
}
