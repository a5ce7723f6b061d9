package payroll

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hrportal/internal/domain/core"
)

const (
	DepartmentAll = "ALL"
	monthLayout   = "2006-01"
)

func ComputeNetPay(baseSalary, bonus, deductions decimal.Decimal) decimal.Decimal {
	return baseSalary.Add(bonus).Sub(deductions)
}

// Normalize recomputes NetPay from the components, replacing whatever the
// server reported.
func (r Record) Normalize() Record {
	r.NetPay = ComputeNetPay(r.BaseSalary, r.Bonus, r.Deductions)
	return r
}

func ValidMonth(month string) bool {
	if len(month) != len(monthLayout) {
		return false
	}
	_, err := time.Parse(monthLayout, month)
	return err == nil
}

func CurrentMonth(now time.Time) string {
	return now.Format(monthLayout)
}

func (in RecordInput) Validate() error {
	if !ValidMonth(strings.TrimSpace(in.Month)) {
		return ErrInvalidMonth
	}
	if in.BaseSalary.IsNegative() || in.Bonus.IsNegative() || in.Deductions.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

func NewRecord(employeeID int64, in RecordInput) (Record, error) {
	if employeeID <= 0 {
		return Record{}, ErrInvalidEmployee
	}
	if err := in.Validate(); err != nil {
		return Record{}, err
	}
	return Record{
		EmployeeID: employeeID,
		Month:      strings.TrimSpace(in.Month),
		BaseSalary: in.BaseSalary,
		Bonus:      in.Bonus,
		Deductions: in.Deductions,
	}.Normalize(), nil
}

// SortNewestFirst orders records by month descending, ties by id descending.
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Month != records[j].Month {
			return records[i].Month > records[j].Month
		}
		return records[i].ID > records[j].ID
	})
}

// DepartmentFilterActive reports whether department narrows a summary.
// Empty and any casing of "all" mean every department.
func DepartmentFilterActive(department string) bool {
	d := strings.TrimSpace(department)
	return d != "" && !strings.EqualFold(d, DepartmentAll)
}

// Summarize filters rows by month and then by employee set or, through the
// roster, by department, and totals net pay. The average is rounded half away
// from zero to whole units and is zero for an empty selection. Rows whose
// employee is not on the roster are dropped when a department filter applies.
func Summarize(rows []SummaryRow, roster []core.Employee, filter Filter) Summary {
	month := strings.TrimSpace(filter.Month)
	department := strings.TrimSpace(filter.Department)
	byEmployee := filter.EmployeeIDs != nil
	byDepartment := !byEmployee && DepartmentFilterActive(department)

	members := make(map[int64]struct{}, len(filter.EmployeeIDs))
	for _, id := range filter.EmployeeIDs {
		members[id] = struct{}{}
	}

	departments := make(map[int64]string, len(roster))
	if byDepartment {
		for _, e := range roster {
			departments[e.ID] = e.Department
		}
	}

	out := Summary{Rows: make([]SummaryRow, 0, len(rows)), TotalNetPay: decimal.Zero, AverageNetPay: decimal.Zero}
	for _, row := range rows {
		if month != "" && row.Month != month {
			continue
		}
		if byEmployee {
			if _, ok := members[row.EmployeeID]; !ok {
				continue
			}
		}
		if byDepartment {
			d, ok := departments[row.EmployeeID]
			if !ok || !strings.EqualFold(d, department) {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
		out.TotalNetPay = out.TotalNetPay.Add(row.NetPay)
	}
	out.Count = len(out.Rows)
	out.AverageNetPay = Average(out.TotalNetPay, out.Count)
	return out
}

func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(0)
}
