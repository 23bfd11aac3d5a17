package worker

import (
	"math"
	"time"
)

// RetryPolicy controls backoff for the spreadsheet mirror sync. The zero
// value is usable: withDefaults fills in quota-friendly settings for the
// Sheets API (its write quota is per-minute, hence the one-minute cap).
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func (r RetryPolicy) withDefaults() RetryPolicy {
	if r.MaxRetries == 0 {
		r.MaxRetries = 5
	}
	if r.InitialDelay == 0 {
		r.InitialDelay = 2 * time.Second
	}
	if r.MaxDelay == 0 {
		r.MaxDelay = 1 * time.Minute
	}
	if r.BackoffFactor == 0 {
		r.BackoffFactor = 2
	}
	return r
}

// NextDelay returns how long to wait after a failed attempt (1-based),
// growing the delay exponentially up to MaxDelay.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	r = r.withDefaults()
	if attempt < 1 {
		attempt = 1
	}

	delay := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if delay > r.MaxDelay {
		delay = r.MaxDelay
	}
	if delay <= 0 {
		delay = r.InitialDelay
	}
	return delay
}
