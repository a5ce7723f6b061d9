package core

import "hrportal/internal/domain/auth"

// ApplyUpdate merges in into existing, keeping only the fields p's role may
// change. Every known role edits the display fields; managers and HR admins
// may also change email; only HR admins move the status. existing is not
// modified.
func ApplyUpdate(p *auth.Principal, existing Employee, in EmployeeInput) (Employee, error) {
	in = in.normalized()
	out := existing
	if !p.HasRole(auth.RoleEmployee, auth.RoleManager, auth.RoleHRAdmin) {
		return out, nil
	}
	if in.Name == "" {
		return out, ErrNameRequired
	}

	out.Name = in.Name
	out.Title = in.Title
	out.Department = in.Department
	if in.Email != "" && p.HasRole(auth.RoleManager, auth.RoleHRAdmin) {
		out.Email = in.Email
	}
	if in.Status != "" && p.HasRole(auth.RoleHRAdmin) {
		status, ok := ParseStatus(in.Status)
		if !ok {
			return existing, ErrInvalidStatus
		}
		out.Status = status
	}
	return out, nil
}

// NewEmployee builds a record for creation; status defaults to ACTIVE.
func NewEmployee(in EmployeeInput) (Employee, error) {
	in = in.normalized()
	if in.Name == "" {
		return Employee{}, ErrNameRequired
	}
	if in.Email == "" {
		return Employee{}, ErrEmailRequired
	}
	status := StatusActive
	if in.Status != "" {
		parsed, ok := ParseStatus(in.Status)
		if !ok {
			return Employee{}, ErrInvalidStatus
		}
		status = parsed
	}
	return Employee{
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
		Title:      in.Title,
		Status:     status,
	}, nil
}
