package tasks

import (
	"testing"
	"time"
)

func TestAttemptLabel(t *testing.T) {
	tests := []struct {
		attempt int
		want    string
	}{
		{1, "first"},
		{2, "retry"},
		{3, "retry"},
		{0, "first"},
	}

	for _, tt := range tests {
		if got := AttemptLabel(tt.attempt); got != tt.want {
			t.Errorf("AttemptLabel(%d): expected %s, got %s", tt.attempt, tt.want, got)
		}
	}
}

func TestRetryPolicyNormalized(t *testing.T) {
	t.Run("zero value gets defaults", func(t *testing.T) {
		p := RetryPolicy{}.normalized()
		if p.Attempts != DefaultAttempts {
			t.Errorf("expected %d attempts, got %d", DefaultAttempts, p.Attempts)
		}
		if p.Wait != DefaultWait {
			t.Errorf("expected %v wait, got %v", DefaultWait, p.Wait)
		}
	})

	t.Run("explicit values kept", func(t *testing.T) {
		p := RetryPolicy{Attempts: 5, Wait: time.Second}.normalized()
		if p.Attempts != 5 || p.Wait != time.Second {
			t.Errorf("expected configured values preserved, got %+v", p)
		}
	})

	t.Run("negative attempts replaced", func(t *testing.T) {
		p := RetryPolicy{Attempts: -1, Wait: time.Second}.normalized()
		if p.Attempts != DefaultAttempts {
			t.Errorf("expected %d attempts, got %d", DefaultAttempts, p.Attempts)
		}
	})
}
