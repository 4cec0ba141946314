package leave

import (
	"testing"
	"time"
)

func TestCalculateDaysInclusive(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	days, err := CalculateDays(start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected 1 day for same-day leave, got %v", days)
	}

	days, err = CalculateDays(start, start.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 5 {
		t.Fatalf("expected 5 days, got %v", days)
	}
}

func TestCalculateDaysReversedRange(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	if _, err := CalculateDays(start, start.AddDate(0, 0, -1)); err == nil {
		t.Fatal("expected error for end before start")
	}
}
