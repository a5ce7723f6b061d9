package payroll

import "errors"

var (
	ErrInvalidMonth    = errors.New("month must be formatted as YYYY-MM")
	ErrNegativeAmount  = errors.New("pay components must not be negative")
	ErrInvalidEmployee = errors.New("invalid employee id")
)
