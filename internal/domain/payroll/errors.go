package payroll

import "errors"

var (
	ErrNotFound     = errors.New("payroll not found")
	ErrInvalidState = errors.New("payroll does not permit this transition")
)
