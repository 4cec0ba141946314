package timesheet

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"hrpay/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const timesheetColumns = `
    id, employee_id, project_id, task_id, week_start_date, week_end_date,
    week_number, year,
    monday_hours, tuesday_hours, wednesday_hours, thursday_hours,
    friday_hours, saturday_hours, sunday_hours,
    total_hours_worked, description, status,
    submitted_at, approved_at, rejected_at,
    approver_comments, COALESCE(approved_by::text, ''),
    created_at, updated_at`

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var ts Timesheet
	err := row.Scan(
		&ts.ID, &ts.EmployeeID, &ts.ProjectID, &ts.TaskID,
		&ts.WeekStartDate, &ts.WeekEndDate, &ts.WeekNumber, &ts.Year,
		&ts.Hours[0], &ts.Hours[1], &ts.Hours[2], &ts.Hours[3],
		&ts.Hours[4], &ts.Hours[5], &ts.Hours[6],
		&ts.TotalHoursWorked, &ts.Description, &ts.Status,
		&ts.SubmittedAt, &ts.ApprovedAt, &ts.RejectedAt,
		&ts.ApproverComments, &ts.ApprovedBy,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	return ts, err
}

func (s *Store) Get(ctx context.Context, id string) (Timesheet, error) {
	ts, err := scanTimesheet(s.DB.QueryRow(ctx, `
    SELECT `+timesheetColumns+`
    FROM timesheets
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrNotFound
	}
	return ts, err
}

func (s *Store) Exists(ctx context.Context, employeeID string, weekStart time.Time, projectID, taskID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM timesheets
    WHERE employee_id = $1 AND week_start_date = $2 AND project_id = $3 AND task_id = $4
  `, employeeID, weekStart, projectID, taskID).Scan(&count)
	return count > 0, err
}

func (s *Store) Create(ctx context.Context, in CreateInput, weekEnd time.Time, weekNumber, year int) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (
      employee_id, project_id, task_id, week_start_date, week_end_date,
      week_number, year,
      monday_hours, tuesday_hours, wednesday_hours, thursday_hours,
      friday_hours, saturday_hours, sunday_hours,
      total_hours_worked, description, status
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, in.EmployeeID, in.ProjectID, in.TaskID, in.WeekStartDate, weekEnd,
		weekNumber, year,
		in.Hours[0], in.Hours[1], in.Hours[2], in.Hours[3],
		in.Hours[4], in.Hours[5], in.Hours[6],
		in.TotalHoursWorked, in.Description, StatusDraft).Scan(&id)
	return id, err
}

func (s *Store) UpdateHours(ctx context.Context, id string, in EditInput) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET monday_hours = $1, tuesday_hours = $2, wednesday_hours = $3,
        thursday_hours = $4, friday_hours = $5, saturday_hours = $6,
        sunday_hours = $7, total_hours_worked = $8, description = $9,
        updated_at = now()
    WHERE id = $10
  `, in.Hours[0], in.Hours[1], in.Hours[2], in.Hours[3],
		in.Hours[4], in.Hours[5], in.Hours[6],
		in.TotalHoursWorked, in.Description, id)
	return err
}

func (s *Store) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $1, submitted_at = $2, approved_by = NULL, approved_at = NULL,
        rejected_at = NULL, approver_comments = '', updated_at = now()
    WHERE id = $3
  `, StatusSubmitted, at, id)
	return err
}

func (s *Store) MarkDecided(ctx context.Context, id, status, approverID, comments string, at time.Time) error {
	rejectedAt := any(nil)
	if status == StatusRejected {
		rejectedAt = at
	}
	approver := any(nil)
	if approverID != "" {
		approver = approverID
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $1, approved_at = $2, rejected_at = $3,
        approved_by = $4, approver_comments = $5, updated_at = now()
    WHERE id = $6
  `, status, at, rejectedAt, approver, comments, id)
	return err
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Timesheet, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if len(filter.EmployeeIDs) > 0 {
		args = append(args, filter.EmployeeIDs)
		where += " AND employee_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		where += " AND project_id = $" + strconv.Itoa(len(args))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		where += " AND year = $" + strconv.Itoa(len(args))
	}
	if filter.WeekNumber > 0 {
		args = append(args, filter.WeekNumber)
		where += " AND week_number = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM timesheets"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := "SELECT " + timesheetColumns + " FROM timesheets" + where +
		" ORDER BY week_start_date DESC, created_at DESC" +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sheets []Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, 0, err
		}
		sheets = append(sheets, ts)
	}
	return sheets, total, rows.Err()
}
