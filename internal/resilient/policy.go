package resilient

import "time"

// Policy describes how many times an operation runs and how long to wait
// between attempts.  Backoff receives the number of the attempt that just
// failed (1-based).
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// DefaultPolicy is three attempts back to back.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Backoff: NoBackoff}
}

// NoBackoff retries immediately.
func NoBackoff(int) time.Duration { return 0 }

// Exponential doubles base after every failed attempt, capped at max.
func Exponential(base, max time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if base <= 0 {
			return 0
		}
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if max > 0 && d >= max {
				return max
			}
		}
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// PolicyFor builds a policy from configured values.  A zero base keeps the
// observed fixed-count behaviour.
func PolicyFor(maxAttempts int, base, max time.Duration) Policy {
	p := Policy{MaxAttempts: maxAttempts, Backoff: NoBackoff}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if base > 0 {
		p.Backoff = Exponential(base, max)
	}
	return p
}
