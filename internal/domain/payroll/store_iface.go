package payroll

import (
	"context"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	ListPayroll(ctx context.Context, creds auth.Credentials, employeeID int64) ([]Record, error)
	CreatePayrollRecord(ctx context.Context, creds auth.Credentials, employeeID int64, rec Record) (Record, error)
	GlobalPayroll(ctx context.Context, creds auth.Credentials, month, department string) ([]SummaryRow, error)
}
