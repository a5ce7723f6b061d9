package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hrportal/internal/domain/payroll"
)

func payrollPath(employeeID int64) string {
	return fmt.Sprintf("/api/employees/%d/payroll", employeeID)
}

// ListPayroll returns records as the backend reports them. payroll.Service
// owns net pay normalization.
func (c *Client) ListPayroll(ctx context.Context, creds Credentials, employeeID int64) ([]payroll.Record, error) {
	var records []payroll.Record
	if err := c.get(ctx, creds, payrollPath(employeeID), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) CreatePayrollRecord(ctx context.Context, creds Credentials, employeeID int64, rec payroll.Record) (payroll.Record, error) {
	out := rec
	if err := c.send(ctx, creds, http.MethodPost, payrollPath(employeeID), rec, &out); err != nil {
		return payroll.Record{}, err
	}
	return out, nil
}

// GlobalPayroll reads the summary projection. Empty month or department are
// not sent.
func (c *Client) GlobalPayroll(ctx context.Context, creds Credentials, month, department string) ([]payroll.SummaryRow, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	if department != "" {
		query.Set("department", department)
	}
	out := []payroll.SummaryRow{}
	if err := c.get(ctx, creds, "/api/payroll", query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []payroll.SummaryRow{}
	}
	return out, nil
}
