package timesheet

import (
	"testing"
	"time"
)

func TestValidateWeekStartMonday(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if verr := ValidateWeekStart(monday, now); verr != nil {
		t.Fatalf("expected Monday to validate, got %v", verr)
	}

	tuesday := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	if verr := ValidateWeekStart(tuesday, now); verr == nil {
		t.Fatal("expected rejection for non-Monday week start")
	}
}

func TestValidateWeekStartFuture(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	if verr := ValidateWeekStart(future, now); verr == nil {
		t.Fatal("expected rejection for future week start")
	}
}

func TestValidateHoursSumMismatch(t *testing.T) {
	hours := DailyHours{8, 8, 8, 8, 8, 0, 0}

	if verr := ValidateHours(hours, 40); verr != nil {
		t.Fatalf("expected matching total to validate, got %v", verr)
	}
	if verr := ValidateHours(hours, 40.005); verr != nil {
		t.Fatalf("expected total within tolerance to validate, got %v", verr)
	}
	if verr := ValidateHours(hours, 39); verr == nil {
		t.Fatal("expected rejection for mismatched total")
	}
}

func TestValidateHoursDailyRange(t *testing.T) {
	hours := DailyHours{25, 0, 0, 0, 0, 0, 0}
	if verr := ValidateHours(hours, 25); verr == nil {
		t.Fatal("expected rejection for a 25-hour day")
	}

	negative := DailyHours{-1, 0, 0, 0, 0, 0, 0}
	if verr := ValidateHours(negative, -1); verr == nil {
		t.Fatal("expected rejection for negative hours")
	}
}

func TestWeekEndAndNumber(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := WeekEnd(monday)
	if end.Weekday() != time.Sunday {
		t.Fatalf("expected Sunday, got %v", end.Weekday())
	}
	if got := end.Sub(monday).Hours() / 24; got != 6 {
		t.Fatalf("expected 6 days between start and end, got %v", got)
	}
	if WeekNumber(monday) != 2 {
		t.Fatalf("expected ISO week 2 for 2025-01-06, got %d", WeekNumber(monday))
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(StatusDraft) || !CanEdit(StatusRejected) {
		t.Fatal("draft and rejected timesheets must be editable")
	}
	if CanEdit(StatusSubmitted) || CanEdit(StatusApproved) {
		t.Fatal("submitted and approved timesheets must not be editable")
	}
}

func TestCanApprove(t *testing.T) {
	if !CanApprove("admin", "", "mgr-1") {
		t.Fatal("admin must be able to approve")
	}
	if !CanApprove("hr", "", "mgr-1") {
		t.Fatal("hr must be able to approve")
	}
	if !CanApprove("manager", "mgr-1", "mgr-1") {
		t.Fatal("direct manager must be able to approve")
	}
	if CanApprove("manager", "mgr-2", "mgr-1") {
		t.Fatal("unrelated manager must not be able to approve")
	}
	if CanApprove("employee", "emp-1", "mgr-1") {
		t.Fatal("employee must not be able to approve")
	}
}
