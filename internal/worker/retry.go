package worker

import (
	"math"
	"time"
)

// RetryPolicy spaces out repeated delivery attempts with exponential
// backoff clamped to MaxDelay. A failed notification is never dropped: it
// stays due and the sweep retries it once its backoff elapses. The delay
// curve flattens after MaxRetries attempts.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the backoff before the given attempt (1-based).
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	// Capping the exponent keeps the float math finite for notifications
	// that keep failing across many passes.
	if r.MaxRetries > 0 && attempt > r.MaxRetries {
		attempt = r.MaxRetries
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}
