package scheduler

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	cases := []struct {
		failures int
		base     time.Duration
		want     time.Duration
	}{
		{-1, 2 * time.Second, 2 * time.Second},
		{0, 2 * time.Second, 2 * time.Second},
		{1, 2 * time.Second, 4 * time.Second},
		{3, 2 * time.Second, 16 * time.Second},
		{4, 2 * time.Second, maxBackoff},
		{1, 20 * time.Second, maxBackoff},
		{3, time.Minute, time.Minute},
		{2, 500 * time.Millisecond, 2 * time.Second},
	}
	for _, c := range cases {
		if got := calculateBackoff(c.failures, c.base); got != c.want {
			t.Errorf("calculateBackoff(%d, %v) = %v, want %v", c.failures, c.base, got, c.want)
		}
	}
}

func TestCalculateBackoff_NeverOverflows(t *testing.T) {
	for failures := 0; failures <= 100; failures += 7 {
		if got := calculateBackoff(failures, time.Second); got <= 0 || got > maxBackoff {
			t.Fatalf("calculateBackoff(%d, 1s) = %v, outside (0, %v]", failures, got, maxBackoff)
		}
	}
}
