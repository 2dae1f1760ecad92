package batch

import "time"

// RetryPolicy controls per-unit retries and pacing between units.
type RetryPolicy struct {
	MaxAttempts    int
	Backoff        time.Duration
	InterUnitDelay time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    2,
		Backoff:        550 * time.Millisecond,
		InterUnitDelay: 300 * time.Millisecond,
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}
