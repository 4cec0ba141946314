package timesheet

import "errors"

var (
	ErrNotFound     = errors.New("timesheet not found")
	ErrDuplicate    = errors.New("timesheet already exists for this week, project and task")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("operation not allowed in current timesheet status")
	ErrZeroHours    = errors.New("cannot submit timesheet with zero hours")
)

// ValidationError carries a field-level reason for a rejected payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
