package payroll

import (
	"context"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// ListRecords returns an employee's records newest month first with net pay
// recomputed.
func (s *Service) ListRecords(ctx context.Context, creds auth.Credentials, employeeID int64) ([]Record, error) {
	records, err := s.store.ListPayroll(ctx, creds, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Normalize()
	}
	SortNewestFirst(out)
	return out, nil
}

func (s *Service) CreateRecord(ctx context.Context, creds auth.Credentials, employeeID int64, in RecordInput) (Record, error) {
	rec, err := NewRecord(employeeID, in)
	if err != nil {
		return Record{}, err
	}
	created, err := s.store.CreatePayrollRecord(ctx, creds, employeeID, rec)
	if err != nil {
		return Record{}, err
	}
	return created.Normalize(), nil
}

// GlobalRows loads the summary projection. The department is not sent to the
// backend; Summarize applies it against the roster.
func (s *Service) GlobalRows(ctx context.Context, creds auth.Credentials, month string) ([]SummaryRow, error) {
	return s.store.GlobalPayroll(ctx, creds, month, "")
}

func (s *Service) Summary(ctx context.Context, creds auth.Credentials, roster []core.Employee, filter Filter) (Summary, error) {
	rows, err := s.GlobalRows(ctx, creds, filter.Month)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rows, roster, filter), nil
}
