package reports

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
)

var ErrDashboardUnavailable = errors.New("we could not load any data for this dashboard")

type AdminDashboard struct {
	Month             string                `json:"month"`
	TotalEmployees    int                   `json:"totalEmployees"`
	ActiveEmployees   int                   `json:"activeEmployees"`
	InactiveEmployees int                   `json:"inactiveEmployees"`
	Departments       []string              `json:"departments"`
	Headcounts        []DepartmentHeadcount `json:"headcounts"`
	PayrollCount      int                   `json:"payrollCount"`
	PayrollTotal      decimal.Decimal       `json:"payrollTotal"`
	PayrollAverage    decimal.Decimal       `json:"payrollAverage"`
}

func (d AdminDashboard) MarshalJSON() ([]byte, error) {
	type plain AdminDashboard
	return json.Marshal(struct {
		plain
		PayrollTotal   json.Number `json:"payrollTotal"`
		PayrollAverage json.Number `json:"payrollAverage"`
	}{plain(d), payroll.Number(d.PayrollTotal), payroll.Number(d.PayrollAverage)})
}

func BuildAdminDashboard(month string, roster []core.Employee, summary payroll.Summary) AdminDashboard {
	dash := AdminDashboard{
		Month:          month,
		TotalEmployees: len(roster),
		Headcounts:     HeadcountByDepartment(roster),
		PayrollCount:   summary.Count,
		PayrollTotal:   summary.TotalNetPay,
		PayrollAverage: summary.AverageNetPay,
	}
	for _, e := range roster {
		if e.Status == core.StatusInactive {
			dash.InactiveEmployees++
		} else {
			dash.ActiveEmployees++
		}
	}
	dash.Departments = make([]string, 0, len(dash.Headcounts))
	for _, h := range dash.Headcounts {
		dash.Departments = append(dash.Departments, h.Department)
	}
	return dash
}

type PayrollSection struct {
	Count        int              `json:"count"`
	Latest       *payroll.Record  `json:"latest,omitempty"`
	LatestNetPay *decimal.Decimal `json:"latestNetPay,omitempty"`
	Records      []payroll.Record `json:"records"`
}

func (s PayrollSection) MarshalJSON() ([]byte, error) {
	type plain PayrollSection
	out := struct {
		plain
		LatestNetPay *json.Number `json:"latestNetPay,omitempty"`
	}{plain: plain(s)}
	if s.LatestNetPay != nil {
		n := payroll.Number(*s.LatestNetPay)
		out.LatestNetPay = &n
	}
	return json.Marshal(out)
}

type EmployeeDashboard struct {
	Title            string              `json:"title"`
	Department       string              `json:"department"`
	Status           core.Status         `json:"status"`
	Profile          *core.Employee      `json:"profile,omitempty"`
	ProfileError     string              `json:"profileError,omitempty"`
	Payroll          PayrollSection      `json:"payroll"`
	PayrollError     string              `json:"payrollError,omitempty"`
	Performance      performance.Summary `json:"performance"`
	PerformanceError string              `json:"performanceError,omitempty"`
}

// EmployeeSources are the per-section load results for a personal dashboard.
// A section with a non-nil error is reported but does not fail the others.
// Records are expected as payroll.Service returns them, already normalized.
type EmployeeSources struct {
	Profile    *core.Employee
	ProfileErr error
	Records    []payroll.Record
	RecordsErr error
	Reviews    []performance.Review
	ReviewsErr error
}

func BuildEmployeeDashboard(p *auth.Principal, src EmployeeSources) (EmployeeDashboard, error) {
	if src.ProfileErr != nil && src.RecordsErr != nil && src.ReviewsErr != nil {
		return EmployeeDashboard{}, ErrDashboardUnavailable
	}

	dash := EmployeeDashboard{
		Title:       defaultTitle(p),
		Status:      core.StatusActive,
		Payroll:     PayrollSection{Records: []payroll.Record{}},
		Performance: performance.Summarize(nil),
	}

	if src.ProfileErr != nil {
		dash.ProfileError = sectionMessage(src.ProfileErr,
			"You are not allowed to view this profile.",
			"No employee profile found for this user.",
			"Failed to load employee details.")
	} else if src.Profile != nil {
		profile := *src.Profile
		dash.Profile = &profile
		if profile.Title != "" {
			dash.Title = profile.Title
		}
		dash.Department = profile.Department
		if profile.Status != "" {
			dash.Status = profile.Status
		}
	}

	if src.RecordsErr != nil {
		dash.PayrollError = sectionMessage(src.RecordsErr,
			"You are not allowed to view detailed payroll for this user.",
			"No payroll records found for this user.",
			"Failed to load payroll records.")
	} else {
		records := make([]payroll.Record, len(src.Records))
		copy(records, src.Records)
		payroll.SortNewestFirst(records)
		dash.Payroll.Records = records
		dash.Payroll.Count = len(records)
		if len(records) > 0 {
			latest := records[0]
			net := latest.NetPay
			dash.Payroll.Latest = &latest
			dash.Payroll.LatestNetPay = &net
		}
	}

	if src.ReviewsErr != nil {
		dash.PerformanceError = sectionMessage(src.ReviewsErr,
			"You are not allowed to view performance reviews for this user.",
			"No performance reviews found for this user.",
			"Failed to load performance reviews.")
	} else {
		dash.Performance = performance.Summarize(src.Reviews)
	}

	return dash, nil
}

func defaultTitle(p *auth.Principal) string {
	if p == nil {
		return "Employee"
	}
	switch p.Role {
	case auth.RoleHRAdmin:
		return "HR Admin"
	case auth.RoleManager:
		return "Manager"
	default:
		return "Employee"
	}
}

type statusCoder interface {
	StatusCode() int
}

func sectionMessage(err error, forbidden, notFound, fallback string) string {
	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.StatusCode() {
		case http.StatusForbidden:
			return forbidden
		case http.StatusNotFound:
			return notFound
		}
	}
	return fallback
}
