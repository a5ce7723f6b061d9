package payroll

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number renders an amount as a bare JSON number, which is what the backend
// and the portal's clients expect.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// Record is one month of pay for one employee. Records are append-only.
type Record struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employeeId"`
	Month      string          `json:"month"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
	NetPay     decimal.Decimal `json:"netPay"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		BaseSalary json.Number `json:"baseSalary"`
		Bonus      json.Number `json:"bonus"`
		Deductions json.Number `json:"deductions"`
		NetPay     json.Number `json:"netPay"`
	}{plain(r), Number(r.BaseSalary), Number(r.Bonus), Number(r.Deductions), Number(r.NetPay)})
}

type RecordInput struct {
	Month      string          `json:"month" validate:"required,yearmonth"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
}

// SummaryRow is the global payroll projection. It has no pay components, so
// NetPay is taken as reported.
type SummaryRow struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Department   string          `json:"department"`
	Month        string          `json:"month"`
	NetPay       decimal.Decimal `json:"netPay"`
}

func (r SummaryRow) MarshalJSON() ([]byte, error) {
	type plain SummaryRow
	return json.Marshal(struct {
		plain
		NetPay json.Number `json:"netPay"`
	}{plain(r), Number(r.NetPay)})
}

type Filter struct {
	Month      string
	Department string
	// EmployeeIDs, when non-nil, restricts rows to exactly these employees and
	// takes precedence over Department. An empty non-nil set matches nothing.
	EmployeeIDs []int64
}

type Summary struct {
	Rows          []SummaryRow    `json:"rows"`
	Count         int             `json:"count"`
	TotalNetPay   decimal.Decimal `json:"totalNetPay"`
	AverageNetPay decimal.Decimal `json:"averageNetPay"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		TotalNetPay   json.Number `json:"totalNetPay"`
		AverageNetPay json.Number `json:"averageNetPay"`
	}{plain(s), Number(s.TotalNetPay), Number(s.AverageNetPay)})
}
