package auth

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermissionsOnlyKnownCapabilities(t *testing.T) {
	known := map[Capability]struct{}{}
	for _, c := range AllCapabilities {
		known[c] = struct{}{}
	}
	for role, grants := range RolePermissions {
		require.NotEmpty(t, grants, "role %s has no grants", role)
		for c := range grants {
			_, ok := known[c]
			assert.True(t, ok, "role %s grants unknown capability %s", role, c)
		}
	}
}

func TestAllCapabilitiesUnique(t *testing.T) {
	seen := map[Capability]struct{}{}
	for _, c := range AllCapabilities {
		_, dup := seen[c]
		require.False(t, dup, "duplicate capability %s", c)
		seen[c] = struct{}{}
	}
}

func TestCanViewEmployeeMatrix(t *testing.T) {
	employee := &Principal{UserID: 5, Role: RoleEmployee}
	manager := &Principal{UserID: 2, Role: RoleManager}
	hr := &Principal{UserID: 1, Role: RoleHRAdmin}

	tests := []struct {
		name   string
		p      *Principal
		target any
		want   bool
	}{
		{"employee own id", employee, int64(5), true},
		{"employee own id as string", employee, "5", true},
		{"employee own id padded", employee, " 5 ", true},
		{"employee own id as float", employee, float64(5), true},
		{"employee own id as json number", employee, json.Number("5"), true},
		{"employee other id", employee, 6, false},
		{"employee fractional id", employee, 5.5, false},
		{"employee empty id", employee, "", false},
		{"employee garbage id", employee, "5abc", false},
		{"employee nil target", employee, nil, false},
		{"manager any id", manager, 99, true},
		{"manager malformed id", manager, "x", true},
		{"hr any id", hr, 42, true},
		{"nil principal", nil, 5, false},
		{"unknown role", &Principal{UserID: 5, Role: "CONTRACTOR"}, 5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanViewEmployee(tc.p, tc.target))
		})
	}
}

func TestHRAdminHoldsEveryCapability(t *testing.T) {
	hr := &Principal{UserID: 1, Role: RoleHRAdmin}
	for _, target := range []any{1, 2, "999", nil, "garbage"} {
		for _, c := range AllCapabilities {
			assert.True(t, Allowed(hr, c, target), "capability %s target %v", c, target)
		}
	}
}

func TestEmployeeDeniedOtherTargets(t *testing.T) {
	employee := &Principal{UserID: 7, Role: RoleEmployee}
	for _, target := range []any{1, int64(8), "70", 0, -7} {
		assert.False(t, CanViewEmployee(employee, target))
		assert.False(t, CanUpdateEmployee(employee, target))
		assert.False(t, CanViewEmployeePayroll(employee, target))
		assert.False(t, CanViewPerformance(employee, target))
	}
	assert.True(t, CanViewEmployeePayroll(employee, "7"))
	assert.True(t, CanViewPerformance(employee, 7))
	assert.True(t, CanUpdateEmployee(employee, uint32(7)))
}

func TestRoleOnlyPredicates(t *testing.T) {
	tests := []struct {
		role                                                    Role
		list, create, del, payrollCreate, global, review, audit bool
	}{
		{RoleEmployee, false, false, false, false, false, false, false},
		{RoleManager, true, false, false, false, true, true, false},
		{RoleHRAdmin, true, true, true, true, true, true, true},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			p := &Principal{UserID: 3, Role: tc.role}
			assert.Equal(t, tc.list, CanViewEmployeesList(p))
			assert.Equal(t, tc.create, CanCreateEmployee(p))
			assert.Equal(t, tc.del, CanDeleteEmployee(p))
			assert.Equal(t, tc.payrollCreate, CanCreatePayrollRecord(p))
			assert.Equal(t, tc.global, CanViewGlobalPayroll(p))
			assert.Equal(t, tc.review, CanCreatePerformanceReview(p))
			assert.Equal(t, tc.review, CanUpdatePerformanceReview(p))
			assert.Equal(t, tc.audit, CanViewAudit(p))
		})
	}
}

func TestNilPrincipalDeniedEverything(t *testing.T) {
	var p *Principal
	require.NotPanics(t, func() {
		for _, c := range AllCapabilities {
			assert.False(t, Allowed(p, c, 1))
		}
		assert.False(t, CanViewEmployeesList(p))
		assert.False(t, CanViewEmployee(p, 1))
		assert.False(t, CanCreateEmployee(p))
		assert.False(t, CanUpdateEmployee(p, 1))
		assert.False(t, CanDeleteEmployee(p))
		assert.False(t, CanViewEmployeePayroll(p, 1))
		assert.False(t, CanCreatePayrollRecord(p))
		assert.False(t, CanViewGlobalPayroll(p))
		assert.False(t, CanViewPerformance(p, 1))
		assert.False(t, CanCreatePerformanceReview(p))
		assert.False(t, CanUpdatePerformanceReview(p))
		assert.False(t, CanViewAudit(p))
		for _, allowed := range Capabilities(p) {
			assert.False(t, allowed)
		}
	})
}

func TestCapabilitiesMap(t *testing.T) {
	caps := Capabilities(&Principal{UserID: 4, Role: RoleEmployee})
	require.Len(t, caps, len(AllCapabilities))
	assert.True(t, caps[CapViewEmployee])
	assert.True(t, caps[CapViewEmployeePayroll])
	assert.False(t, caps[CapViewEmployeesList])
	assert.False(t, caps[CapViewGlobalPayroll])
}

func TestGrantsSorted(t *testing.T) {
	grants := Grants(RoleManager)
	require.Len(t, grants, 8)
	for i := 1; i < len(grants); i++ {
		assert.Less(t, string(grants[i-1]), string(grants[i]))
	}
	assert.Empty(t, Grants("NOBODY"))
}

func TestHasRole(t *testing.T) {
	p := &Principal{UserID: 2, Role: RoleManager}
	assert.True(t, p.HasRole(RoleManager))
	assert.True(t, p.HasRole(RoleEmployee, RoleManager))
	assert.False(t, p.HasRole(RoleHRAdmin))
	assert.False(t, p.HasRole())

	var nobody *Principal
	assert.False(t, nobody.HasRole(RoleEmployee, RoleManager, RoleHRAdmin))
}

func TestNormalizeID(t *testing.T) {
	valid := []any{1, int8(1), int16(1), int32(1), int64(1), uint(1), uint8(1), uint16(1), uint32(1), uint64(1), float32(1), 1.0, "1", " 1\n", json.Number("1")}
	for _, v := range valid {
		id, ok := NormalizeID(v)
		assert.True(t, ok, "%T %v", v, v)
		assert.Equal(t, int64(1), id)
	}
	invalid := []any{0, -1, "0", "-3", 1.5, "1.0", "", "  ", "abc", nil, true, struct{}{}, uint64(1 << 63)}
	for _, v := range invalid {
		_, ok := NormalizeID(v)
		assert.False(t, ok, "%T %v", v, v)
	}
}

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"EMPLOYEE":  RoleEmployee,
		" manager ": RoleManager,
		"hr_admin":  RoleHRAdmin,
	} {
		got, ok := ParseRole(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}
	for _, raw := range []string{"", "admin", "HR ADMIN"} {
		_, ok := ParseRole(raw)
		assert.False(t, ok, fmt.Sprintf("%q", raw))
	}
	assert.False(t, Role("manager").Valid())
	assert.True(t, RoleManager.Valid())
}
