package timesheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/platform/email"
)

type Service struct {
	Store     *Store
	Directory *directory.Store
	Mailer    email.Mailer
	EmailFrom string
}

func NewService(store *Store, dir *directory.Store, mailer email.Mailer, emailFrom string) *Service {
	return &Service{Store: store, Directory: dir, Mailer: mailer, EmailFrom: emailFrom}
}

// Create validates the weekly invariants and opens a Draft timesheet.
func (s *Service) Create(ctx context.Context, in CreateInput) (Timesheet, error) {
	if verr := ValidateWeekStart(in.WeekStartDate, time.Now()); verr != nil {
		return Timesheet{}, verr
	}
	if verr := ValidateHours(in.Hours, in.TotalHoursWorked); verr != nil {
		return Timesheet{}, verr
	}

	exists, err := s.Store.Exists(ctx, in.EmployeeID, in.WeekStartDate, in.ProjectID, in.TaskID)
	if err != nil {
		return Timesheet{}, err
	}
	if exists {
		return Timesheet{}, ErrDuplicate
	}

	ok, err := s.Directory.ProjectExists(ctx, in.ProjectID)
	if err != nil {
		return Timesheet{}, err
	}
	if !ok {
		return Timesheet{}, &ValidationError{Field: "projectId", Reason: "unknown or inactive project"}
	}
	ok, err = s.Directory.TaskExists(ctx, in.TaskID)
	if err != nil {
		return Timesheet{}, err
	}
	if !ok {
		return Timesheet{}, &ValidationError{Field: "taskId", Reason: "unknown or inactive task"}
	}

	id, err := s.Store.Create(ctx, in, WeekEnd(in.WeekStartDate), WeekNumber(in.WeekStartDate), in.WeekStartDate.Year())
	if err != nil {
		return Timesheet{}, err
	}
	return s.Store.Get(ctx, id)
}

// Edit updates the hours of a Draft or Rejected timesheet owned by the actor,
// re-validating the daily-sum invariant.
func (s *Service) Edit(ctx context.Context, id string, actor auth.UserContext, in EditInput) (Timesheet, error) {
	ts, err := s.Store.Get(ctx, id)
	if err != nil {
		return Timesheet{}, err
	}
	if ts.EmployeeID != actor.EmployeeID {
		return Timesheet{}, ErrForbidden
	}
	if !CanEdit(ts.Status) {
		return Timesheet{}, ErrInvalidState
	}
	if verr := ValidateHours(in.Hours, in.TotalHoursWorked); verr != nil {
		return Timesheet{}, verr
	}

	if err := s.Store.UpdateHours(ctx, id, in); err != nil {
		return Timesheet{}, err
	}
	return s.Store.Get(ctx, id)
}

// Submit moves a Draft or Rejected timesheet to Submitted. Only the owning
// employee may submit and the week must carry hours.
func (s *Service) Submit(ctx context.Context, id string, actor auth.UserContext) (Timesheet, error) {
	ts, err := s.Store.Get(ctx, id)
	if err != nil {
		return Timesheet{}, err
	}
	if ts.EmployeeID != actor.EmployeeID {
		return Timesheet{}, ErrForbidden
	}
	if !CanEdit(ts.Status) {
		return Timesheet{}, ErrInvalidState
	}
	if ts.TotalHoursWorked <= 0 {
		return Timesheet{}, ErrZeroHours
	}

	if err := s.Store.MarkSubmitted(ctx, id, time.Now()); err != nil {
		return Timesheet{}, err
	}
	return s.Store.Get(ctx, id)
}

// Decide approves or rejects a Submitted timesheet. The actor must be the
// owner's manager, or carry the admin/hr role.
func (s *Service) Decide(ctx context.Context, id string, actor auth.UserContext, approve bool, comments string) (Timesheet, error) {
	ts, err := s.Store.Get(ctx, id)
	if err != nil {
		return Timesheet{}, err
	}

	managerID, err := s.Directory.ManagerID(ctx, ts.EmployeeID)
	if err != nil {
		return Timesheet{}, err
	}
	if !CanApprove(actor.Role, actor.EmployeeID, managerID) {
		return Timesheet{}, ErrForbidden
	}
	if ts.Status != StatusSubmitted {
		return Timesheet{}, ErrInvalidState
	}

	status := StatusApproved
	if !approve {
		status = StatusRejected
	}
	if err := s.Store.MarkDecided(ctx, id, status, actor.EmployeeID, comments, time.Now()); err != nil {
		return Timesheet{}, err
	}

	s.notifyDecision(ctx, ts, status, comments)
	return s.Store.Get(ctx, id)
}

// notifyDecision emails the owner. Delivery problems are logged, never
// surfaced to the approver.
func (s *Service) notifyDecision(ctx context.Context, ts Timesheet, status, comments string) {
	to, err := s.Directory.EmployeeEmail(ctx, ts.EmployeeID)
	if err != nil {
		slog.Warn("timesheet notification skipped", "timesheetId", ts.ID, "err", err)
		return
	}
	subject := fmt.Sprintf("Timesheet for week of %s: %s", ts.WeekStartDate.Format("2006-01-02"), status)
	body := fmt.Sprintf("Your timesheet for the week starting %s has been %s.",
		ts.WeekStartDate.Format("2006-01-02"), status)
	if comments != "" {
		body += "\n\nComments: " + comments
	}
	if err := s.Mailer.Send(ctx, s.EmailFrom, to, subject, body); err != nil {
		slog.Warn("timesheet notification failed", "timesheetId", ts.ID, "err", err)
	}
}
