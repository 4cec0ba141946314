package payslip

import "errors"

var (
	ErrNotFound     = errors.New("payslip not found")
	ErrLocked       = errors.New("payslip is locked")
	ErrInvalidState = errors.New("payslip is not locked")
	ErrNoTemplate   = errors.New("no default payslip template configured")
)
