package timesheet

import (
	"math"
	"time"
)

// HoursTolerance is the allowed drift between the daily breakdown and the
// reported weekly total.
const HoursTolerance = 0.01

const maxWeeklyHours = 168

// WeekEnd returns the Sunday closing the week that starts on the given Monday.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 6)
}

// WeekNumber returns the ISO week number for the given week start.
func WeekNumber(weekStart time.Time) int {
	_, week := weekStart.ISOWeek()
	return week
}

// ValidateWeekStart enforces that a timesheet week opens on a Monday no later
// than the current week.
func ValidateWeekStart(weekStart, now time.Time) *ValidationError {
	if weekStart.IsZero() {
		return &ValidationError{Field: "weekStartDate", Reason: "must be a valid date"}
	}
	if weekStart.Weekday() != time.Monday {
		return &ValidationError{Field: "weekStartDate", Reason: "must be a Monday"}
	}
	if weekStart.After(now) {
		return &ValidationError{Field: "weekStartDate", Reason: "cannot be in the future"}
	}
	return nil
}

// ValidateHours enforces the daily-range and sum-consistency invariants.
func ValidateHours(hours DailyHours, total float64) *ValidationError {
	for i, h := range hours {
		if h < 0 || h > 24 {
			return &ValidationError{Field: dayField(i), Reason: "must be between 0 and 24"}
		}
	}
	if total < 0 || total > maxWeeklyHours {
		return &ValidationError{Field: "totalHoursWorked", Reason: "must be between 0 and 168"}
	}
	if math.Abs(hours.Sum()-total) > HoursTolerance {
		return &ValidationError{Field: "totalHoursWorked", Reason: "must equal the sum of daily hours"}
	}
	return nil
}

// CanEdit reports whether a timesheet in the given status accepts changes.
func CanEdit(status string) bool {
	return status == StatusDraft || status == StatusRejected
}

// CanApprove reports whether the actor may decide on the owner's timesheet.
// Managers decide for their direct reports; admin and hr decide for anyone.
func CanApprove(actorRole, actorEmployeeID, ownerManagerID string) bool {
	switch actorRole {
	case "admin", "hr":
		return true
	case "manager":
		return actorEmployeeID != "" && actorEmployeeID == ownerManagerID
	default:
		return false
	}
}

func dayField(index int) string {
	names := [7]string{
		"mondayHours", "tuesdayHours", "wednesdayHours",
		"thursdayHours", "fridayHours", "saturdayHours", "sundayHours",
	}
	return names[index]
}
