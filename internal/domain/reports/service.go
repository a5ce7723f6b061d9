package reports

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
)

type EmployeeSource interface {
	ListEmployees(ctx context.Context, creds auth.Credentials) ([]core.Employee, error)
	GetEmployee(ctx context.Context, creds auth.Credentials, id int64) (core.Employee, error)
}

type PayrollSource interface {
	ListRecords(ctx context.Context, creds auth.Credentials, employeeID int64) ([]payroll.Record, error)
	GlobalRows(ctx context.Context, creds auth.Credentials, month string) ([]payroll.SummaryRow, error)
}

type ReviewSource interface {
	ListReviews(ctx context.Context, creds auth.Credentials, employeeID int64) ([]performance.Review, error)
}

type Service struct {
	employees EmployeeSource
	payroll   PayrollSource
	reviews   ReviewSource
}

func NewService(employees EmployeeSource, payroll PayrollSource, reviews ReviewSource) *Service {
	return &Service{employees: employees, payroll: payroll, reviews: reviews}
}

// AdminDashboard loads the roster and the month's payroll concurrently. The
// first failure cancels the other load.
func (s *Service) AdminDashboard(ctx context.Context, creds auth.Credentials, month string) (AdminDashboard, error) {
	var roster []core.Employee
	var rows []payroll.SummaryRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roster, err = s.employees.ListEmployees(gctx, creds)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.payroll.GlobalRows(gctx, creds, month)
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminDashboard{}, err
	}

	summary := payroll.Summarize(rows, roster, payroll.Filter{Month: month})
	return BuildAdminDashboard(month, roster, summary), nil
}

// EmployeeDashboard loads the principal's own profile, payroll and reviews.
// Each section fails independently.
func (s *Service) EmployeeDashboard(ctx context.Context, creds auth.Credentials, p *auth.Principal) (EmployeeDashboard, error) {
	if p == nil {
		return EmployeeDashboard{}, errors.New("no principal")
	}
	var src EmployeeSources

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		emp, err := s.employees.GetEmployee(gctx, creds, p.UserID)
		if err == nil {
			src.Profile = &emp
		}
		src.ProfileErr = err
		return nil
	})
	g.Go(func() error {
		src.Records, src.RecordsErr = s.payroll.ListRecords(gctx, creds, p.UserID)
		return nil
	})
	g.Go(func() error {
		src.Reviews, src.ReviewsErr = s.reviews.ListReviews(gctx, creds, p.UserID)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return EmployeeDashboard{}, err
	}
	return BuildEmployeeDashboard(p, src)
}
