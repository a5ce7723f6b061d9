package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
)

func sampleEmployee() Employee {
	return Employee{ID: 5, Name: "Erin", Email: "erin@company.com", Department: "Development", Title: "Engineer", Status: StatusActive}
}

func TestApplyUpdateEmployeeSelfService(t *testing.T) {
	p := &auth.Principal{UserID: 5, Role: auth.RoleEmployee}
	in := EmployeeInput{Name: " Erin E. ", Email: "other@company.com", Department: "QA", Title: "Senior Engineer", Status: "INACTIVE"}

	got, err := ApplyUpdate(p, sampleEmployee(), in)
	require.NoError(t, err)
	assert.Equal(t, "Erin E.", got.Name)
	assert.Equal(t, "QA", got.Department)
	assert.Equal(t, "Senior Engineer", got.Title)
	assert.Equal(t, "erin@company.com", got.Email)
	assert.Equal(t, StatusActive, got.Status)
}

func TestApplyUpdateManagerPreservesStatus(t *testing.T) {
	p := &auth.Principal{UserID: 2, Role: auth.RoleManager}
	in := EmployeeInput{Name: "Erin", Email: "erin.new@company.com", Status: "INACTIVE"}

	got, err := ApplyUpdate(p, sampleEmployee(), in)
	require.NoError(t, err)
	assert.Equal(t, "erin.new@company.com", got.Email)
	assert.Equal(t, "", got.Department)
	assert.Equal(t, StatusActive, got.Status)
}

func TestApplyUpdateHRAdminChangesStatus(t *testing.T) {
	p := &auth.Principal{UserID: 1, Role: auth.RoleHRAdmin}

	got, err := ApplyUpdate(p, sampleEmployee(), EmployeeInput{Name: "Erin", Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, "erin@company.com", got.Email)

	kept, err := ApplyUpdate(p, sampleEmployee(), EmployeeInput{Name: "Erin"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, kept.Status)

	_, err = ApplyUpdate(p, sampleEmployee(), EmployeeInput{Name: "Erin", Status: "RETIRED"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestApplyUpdateRequiresName(t *testing.T) {
	p := &auth.Principal{UserID: 5, Role: auth.RoleEmployee}
	existing := sampleEmployee()

	got, err := ApplyUpdate(p, existing, EmployeeInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, existing, got)
}

func TestApplyUpdateNilPrincipalChangesNothing(t *testing.T) {
	existing := sampleEmployee()
	got, err := ApplyUpdate(nil, existing, EmployeeInput{Name: "Mallory"})
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestApplyUpdateFieldGatesByRole(t *testing.T) {
	in := EmployeeInput{Name: "Erin", Email: "erin.new@company.com", Department: "QA", Title: "Lead", Status: "INACTIVE"}
	tests := []struct {
		role   auth.Role
		email  string
		status Status
	}{
		{auth.RoleEmployee, "erin@company.com", StatusActive},
		{auth.RoleManager, "erin.new@company.com", StatusActive},
		{auth.RoleHRAdmin, "erin.new@company.com", StatusInactive},
	}
	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			got, err := ApplyUpdate(&auth.Principal{UserID: 5, Role: tc.role}, sampleEmployee(), in)
			require.NoError(t, err)
			assert.Equal(t, "QA", got.Department)
			assert.Equal(t, "Lead", got.Title)
			assert.Equal(t, tc.email, got.Email)
			assert.Equal(t, tc.status, got.Status)
		})
	}
}

func TestApplyUpdateUnknownRoleChangesNothing(t *testing.T) {
	existing := sampleEmployee()
	got, err := ApplyUpdate(&auth.Principal{UserID: 5, Role: "ROOT"}, existing, EmployeeInput{Name: "Mallory", Status: "INACTIVE"})
	require.NoError(t, err)
	assert.Equal(t, existing, got)
}

func TestNewEmployeeDefaults(t *testing.T) {
	emp, err := NewEmployee(EmployeeInput{Name: "New Hire", Email: "new@company.com"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, emp.Status)
	assert.Zero(t, emp.ID)

	_, err = NewEmployee(EmployeeInput{Name: "New Hire"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = NewEmployee(EmployeeInput{Email: "x@company.com"})
	assert.ErrorIs(t, err, ErrNameRequired)

	inactive, err := NewEmployee(EmployeeInput{Name: "Old", Email: "old@company.com", Status: "INACTIVE"})
	require.NoError(t, err)
	assert.False(t, inactive.Active())
}
