package auth

import "sort"

type Capability string

const (
	CapViewEmployeesList       Capability = "employees.list"
	CapViewEmployee            Capability = "employees.view"
	CapCreateEmployee          Capability = "employees.create"
	CapUpdateEmployee          Capability = "employees.update"
	CapDeleteEmployee          Capability = "employees.delete"
	CapViewEmployeePayroll     Capability = "payroll.view"
	CapCreatePayrollRecord     Capability = "payroll.create"
	CapViewGlobalPayroll       Capability = "payroll.global"
	CapViewPerformance         Capability = "performance.view"
	CapCreatePerformanceReview Capability = "performance.create"
	CapUpdatePerformanceReview Capability = "performance.update"
	CapViewAudit               Capability = "audit.view"
)

var AllCapabilities = []Capability{
	CapViewEmployeesList,
	CapViewEmployee,
	CapCreateEmployee,
	CapUpdateEmployee,
	CapDeleteEmployee,
	CapViewEmployeePayroll,
	CapCreatePayrollRecord,
	CapViewGlobalPayroll,
	CapViewPerformance,
	CapCreatePerformanceReview,
	CapUpdatePerformanceReview,
	CapViewAudit,
}

// Reach is how far a role's grant for a capability extends.
type Reach int

const (
	ReachNone Reach = iota
	// ReachSelf grants the capability only when the target is the principal's own employee id.
	ReachSelf
	ReachAll
)

func (r Reach) String() string {
	switch r {
	case ReachSelf:
		return "self"
	case ReachAll:
		return "all"
	default:
		return "none"
	}
}

// RolePermissions is the single source of truth for every access decision.
// Capabilities missing from a role's row are denied.
var RolePermissions = map[Role]map[Capability]Reach{
	RoleEmployee: {
		CapViewEmployee:        ReachSelf,
		CapUpdateEmployee:      ReachSelf,
		CapViewEmployeePayroll: ReachSelf,
		CapViewPerformance:     ReachSelf,
	},
	RoleManager: {
		CapViewEmployeesList:       ReachAll,
		CapViewEmployee:            ReachAll,
		CapUpdateEmployee:          ReachAll,
		CapViewEmployeePayroll:     ReachAll,
		CapViewGlobalPayroll:       ReachAll,
		CapViewPerformance:         ReachAll,
		CapCreatePerformanceReview: ReachAll,
		CapUpdatePerformanceReview: ReachAll,
	},
	RoleHRAdmin: {
		CapViewEmployeesList:       ReachAll,
		CapViewEmployee:            ReachAll,
		CapCreateEmployee:          ReachAll,
		CapUpdateEmployee:          ReachAll,
		CapDeleteEmployee:          ReachAll,
		CapViewEmployeePayroll:     ReachAll,
		CapCreatePayrollRecord:     ReachAll,
		CapViewGlobalPayroll:       ReachAll,
		CapViewPerformance:         ReachAll,
		CapCreatePerformanceReview: ReachAll,
		CapUpdatePerformanceReview: ReachAll,
		CapViewAudit:               ReachAll,
	},
}

func ReachFor(role Role, capability Capability) Reach {
	return RolePermissions[role][capability]
}

// Allowed reports whether p may exercise capability on target. target is only
// consulted for self-reach grants and may be any value NormalizeID accepts.
func Allowed(p *Principal, capability Capability, target any) bool {
	if p == nil {
		return false
	}
	switch ReachFor(p.Role, capability) {
	case ReachAll:
		return true
	case ReachSelf:
		id, ok := NormalizeID(target)
		return ok && id == p.UserID
	default:
		return false
	}
}

// Capabilities reports, per capability, whether p holds it for at least its
// own record. Views use it to gate navigation.
func Capabilities(p *Principal) map[Capability]bool {
	out := make(map[Capability]bool, len(AllCapabilities))
	for _, c := range AllCapabilities {
		out[c] = p != nil && ReachFor(p.Role, c) != ReachNone
	}
	return out
}

// Grants lists the capabilities a role holds, sorted by name.
func Grants(role Role) []Capability {
	out := make([]Capability, 0, len(RolePermissions[role]))
	for c, reach := range RolePermissions[role] {
		if reach != ReachNone {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func CanViewEmployeesList(p *Principal) bool {
	return Allowed(p, CapViewEmployeesList, nil)
}

func CanViewEmployee(p *Principal, employeeID any) bool {
	return Allowed(p, CapViewEmployee, employeeID)
}

func CanCreateEmployee(p *Principal) bool {
	return Allowed(p, CapCreateEmployee, nil)
}

func CanUpdateEmployee(p *Principal, employeeID any) bool {
	return Allowed(p, CapUpdateEmployee, employeeID)
}

func CanDeleteEmployee(p *Principal) bool {
	return Allowed(p, CapDeleteEmployee, nil)
}

func CanViewEmployeePayroll(p *Principal, employeeID any) bool {
	return Allowed(p, CapViewEmployeePayroll, employeeID)
}

func CanCreatePayrollRecord(p *Principal) bool {
	return Allowed(p, CapCreatePayrollRecord, nil)
}

func CanViewGlobalPayroll(p *Principal) bool {
	return Allowed(p, CapViewGlobalPayroll, nil)
}

func CanViewPerformance(p *Principal, employeeID any) bool {
	return Allowed(p, CapViewPerformance, employeeID)
}

func CanCreatePerformanceReview(p *Principal) bool {
	return Allowed(p, CapCreatePerformanceReview, nil)
}

func CanUpdatePerformanceReview(p *Principal) bool {
	return Allowed(p, CapUpdatePerformanceReview, nil)
}

func CanViewAudit(p *Principal) bool {
	return Allowed(p, CapViewAudit, nil)
}
