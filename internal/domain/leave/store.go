package leave

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"hrpay/internal/platform/querier"
)

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrInvalidState = errors.New("leave request already decided")
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const requestColumns = `
    id, employee_id, leave_type, start_date, end_date, total_days,
    reason, status, COALESCE(approved_by::text, ''), created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate,
		&r.TotalDays, &r.Reason, &r.Status, &r.ApprovedBy, &r.CreatedAt,
	)
	return r, err
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

func (s *Store) Create(ctx context.Context, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, total_days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.TotalDays, r.Reason, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) Decide(ctx context.Context, id, status, approverID string) error {
	var approver any
	if approverID != "" {
		approver = approverID
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, approved_by = $2
    WHERE id = $3 AND status = $4
  `, status, approver, id, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

func (s *Store) List(ctx context.Context, employeeIDs []string, status string, limit, offset int) ([]Request, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if len(employeeIDs) > 0 {
		args = append(args, employeeIDs)
		where += " AND employee_id = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	if status != "" {
		args = append(args, status)
		where += " AND status = $" + strconv.Itoa(len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := "SELECT " + requestColumns + " FROM leave_requests" + where +
		" ORDER BY start_date DESC" +
		" LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, r)
	}
	return requests, total, rows.Err()
}

// ApprovedDaysByEmployee sums approved leave days per employee for requests
// starting inside [periodStart, periodEnd]. One query covers the whole batch.
func (s *Store) ApprovedDaysByEmployee(ctx context.Context, employeeIDs []string, periodStart, periodEnd time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, COALESCE(SUM(total_days), 0)
    FROM leave_requests
    WHERE employee_id = ANY($1)
      AND status = $2
      AND start_date >= $3 AND start_date <= $4
    GROUP BY employee_id
  `, employeeIDs, StatusApproved, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var employeeID string
		var days float64
		if err := rows.Scan(&employeeID, &days); err != nil {
			return nil, err
		}
		out[employeeID] = days
	}
	return out, rows.Err()
}
