package reports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
)

func TestHeadcountByDepartment(t *testing.T) {
	roster := []core.Employee{
		{ID: 1, Department: "Eng"},
		{ID: 2, Department: ""},
		{ID: 3, Department: "HR"},
		{ID: 4, Department: "Eng"},
	}
	got := HeadcountByDepartment(roster)
	assert.Equal(t, []DepartmentHeadcount{{"Eng", 2}, {"HR", 1}}, got)

	total := 0
	for _, h := range got {
		total += h.Count
	}
	assert.Equal(t, 3, total)
	assert.Empty(t, HeadcountByDepartment(nil))
}

func TestBuildAdminDashboard(t *testing.T) {
	roster := []core.Employee{
		{ID: 1, Department: "Development", Status: core.StatusActive},
		{ID: 2, Department: "Development", Status: core.StatusInactive},
		{ID: 3, Department: "HR", Status: core.StatusActive},
		{ID: 4, Status: ""},
	}
	summary := payroll.Summarize([]payroll.SummaryRow{
		{EmployeeID: 1, Month: "2025-12", NetPay: decimal.NewFromInt(8300)},
		{EmployeeID: 3, Month: "2025-12", NetPay: decimal.NewFromInt(12800)},
	}, roster, payroll.Filter{Month: "2025-12"})

	dash := BuildAdminDashboard("2025-12", roster, summary)
	assert.Equal(t, 4, dash.TotalEmployees)
	assert.Equal(t, 3, dash.ActiveEmployees)
	assert.Equal(t, 1, dash.InactiveEmployees)
	assert.Equal(t, []string{"Development", "HR"}, dash.Departments)
	assert.Equal(t, 2, dash.PayrollCount)
	assert.Equal(t, "21100", dash.PayrollTotal.String())
	assert.Equal(t, "10550", dash.PayrollAverage.String())
}

type apiErr int

func (e apiErr) Error() string   { return "api error" }
func (e apiErr) StatusCode() int { return int(e) }

func TestBuildEmployeeDashboardPartialFailure(t *testing.T) {
	p := &auth.Principal{UserID: 1, Role: auth.RoleManager}
	dash, err := BuildEmployeeDashboard(p, EmployeeSources{
		ProfileErr: apiErr(http.StatusNotFound),
		Records: []payroll.Record{
			{Month: "2025-10", BaseSalary: decimal.NewFromInt(100), NetPay: decimal.NewFromInt(100)},
			{Month: "2025-12", BaseSalary: decimal.NewFromInt(300), Deductions: decimal.NewFromInt(50), NetPay: decimal.NewFromInt(250)},
		},
		ReviewsErr: apiErr(http.StatusForbidden),
	})
	require.NoError(t, err)
	assert.Equal(t, "Manager", dash.Title)
	assert.Equal(t, core.StatusActive, dash.Status)
	assert.Equal(t, "No employee profile found for this user.", dash.ProfileError)
	assert.Contains(t, dash.PerformanceError, "not allowed")
	assert.Equal(t, 2, dash.Payroll.Count)
	require.NotNil(t, dash.Payroll.LatestNetPay)
	assert.Equal(t, "250", dash.Payroll.LatestNetPay.String())
	assert.Equal(t, "2025-12", dash.Payroll.Latest.Month)
}

func TestBuildEmployeeDashboardAllFailed(t *testing.T) {
	boom := errors.New("boom")
	_, err := BuildEmployeeDashboard(nil, EmployeeSources{ProfileErr: boom, RecordsErr: boom, ReviewsErr: boom})
	assert.ErrorIs(t, err, ErrDashboardUnavailable)
}

func TestBuildEmployeeDashboardProfile(t *testing.T) {
	p := &auth.Principal{UserID: 1, Role: auth.RoleEmployee}
	dash, err := BuildEmployeeDashboard(p, EmployeeSources{
		Profile: &core.Employee{ID: 1, Title: "Software Engineer", Department: "Development", Status: core.StatusInactive},
		Reviews: []performance.Review{{ID: 1, Period: "2025-H1", Rating: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", dash.Title)
	assert.Equal(t, "Development", dash.Department)
	assert.Equal(t, core.StatusInactive, dash.Status)
	assert.Equal(t, 1, dash.Performance.Count)
	assert.Nil(t, dash.Payroll.Latest)
	assert.Empty(t, dash.ProfileError)
}

type fakeSources struct {
	roster    []core.Employee
	rows      []payroll.SummaryRow
	rosterErr error
	month     string
}

func (f *fakeSources) ListEmployees(ctx context.Context, _ auth.Credentials) ([]core.Employee, error) {
	return f.roster, f.rosterErr
}

func (f *fakeSources) GetEmployee(_ context.Context, _ auth.Credentials, id int64) (core.Employee, error) {
	for _, e := range f.roster {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Employee{}, apiErr(http.StatusNotFound)
}

func (f *fakeSources) ListRecords(context.Context, auth.Credentials, int64) ([]payroll.Record, error) {
	return nil, nil
}

func (f *fakeSources) GlobalRows(ctx context.Context, _ auth.Credentials, month string) ([]payroll.SummaryRow, error) {
	f.month = month
	return f.rows, nil
}

func (f *fakeSources) ListReviews(context.Context, auth.Credentials, int64) ([]performance.Review, error) {
	return nil, nil
}

func TestServiceAdminDashboard(t *testing.T) {
	src := &fakeSources{
		roster: []core.Employee{{ID: 1, Department: "Eng", Status: core.StatusActive}},
		rows:   []payroll.SummaryRow{{EmployeeID: 1, Month: "2025-11", NetPay: decimal.NewFromInt(100)}, {EmployeeID: 1, Month: "2025-10", NetPay: decimal.NewFromInt(900)}},
	}
	dash, err := NewService(src, src, src).AdminDashboard(context.Background(), auth.Credentials{}, "2025-11")
	require.NoError(t, err)
	assert.Equal(t, "2025-11", src.month)
	assert.Equal(t, 1, dash.PayrollCount)
	assert.Equal(t, "100", dash.PayrollAverage.String())
}

func TestServiceAdminDashboardFailure(t *testing.T) {
	boom := errors.New("roster down")
	src := &fakeSources{rosterErr: boom}
	_, err := NewService(src, src, src).AdminDashboard(context.Background(), auth.Credentials{}, "2025-11")
	assert.ErrorIs(t, err, boom)
}

func TestServiceEmployeeDashboard(t *testing.T) {
	src := &fakeSources{roster: []core.Employee{{ID: 7, Title: "Analyst"}}}
	dash, err := NewService(src, src, src).EmployeeDashboard(context.Background(), auth.Credentials{}, &auth.Principal{UserID: 7, Role: auth.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, "Analyst", dash.Title)
	assert.Equal(t, 0, dash.Payroll.Count)
}

func TestDashboardMoneyMarshalsAsNumbers(t *testing.T) {
	admin, err := json.Marshal(AdminDashboard{Month: "2025-12", PayrollCount: 2, PayrollTotal: decimal.RequireFromString("21100.50"), PayrollAverage: decimal.RequireFromString("10550.25")})
	require.NoError(t, err)
	assert.Contains(t, string(admin), `"payrollTotal":21100.5`)
	assert.Contains(t, string(admin), `"payrollAverage":10550.25`)
	assert.Contains(t, string(admin), `"month":"2025-12"`)

	latest := decimal.NewFromInt(250)
	section, err := json.Marshal(PayrollSection{Count: 1, LatestNetPay: &latest, Records: []payroll.Record{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1,"latestNetPay":250,"records":[]}`, string(section))

	empty, err := json.Marshal(PayrollSection{Records: []payroll.Record{}})
	require.NoError(t, err)
	assert.NotContains(t, string(empty), "latestNetPay")
}
