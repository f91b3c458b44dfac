package tasks

import "time"

// Default retry policy: two attempts total with a half-second pause between them.
const (
	DefaultAttempts = 2
	DefaultWait     = 500 * time.Millisecond
)

// RetryPolicy bounds how many times an enrollment is attempted and how long
// to wait between attempts. Every HTTP error is treated as retryable; no
// distinction is made between client and server errors.
type RetryPolicy struct {
	Attempts int           // Total attempts including the first (minimum 1)
	Wait     time.Duration // Pause between attempts
}

// DefaultRetryPolicy returns the standard two-attempt policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Wait: DefaultWait}
}

// normalized fills in defaults for zero or invalid fields.
func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts <= 0 {
		p.Attempts = DefaultAttempts
	}
	if p.Wait <= 0 {
		p.Wait = DefaultWait
	}
	return p
}

// AttemptLabel names an attempt for error records: the first attempt is
// "first", every subsequent attempt is "retry".
func AttemptLabel(attempt int) string {
	if attempt <= 1 {
		return "first"
	}
	return "retry"
}
