package reports

import "hrportal/internal/domain/core"

type DepartmentHeadcount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// HeadcountByDepartment counts employees per department in order of first
// appearance. Employees without a department are left out.
func HeadcountByDepartment(employees []core.Employee) []DepartmentHeadcount {
	out := []DepartmentHeadcount{}
	index := map[string]int{}
	for _, e := range employees {
		if e.Department == "" {
			continue
		}
		i, ok := index[e.Department]
		if !ok {
			i = len(out)
			index[e.Department] = i
			out = append(out, DepartmentHeadcount{Department: e.Department})
		}
		out[i].Count++
	}
	return out
}
