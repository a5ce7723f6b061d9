package auth

import "strings"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleHRAdmin  Role = "HR_ADMIN"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleHRAdmin}

// ParseRole accepts any casing and surrounding whitespace.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleEmployee:
		return RoleEmployee, true
	case RoleManager:
		return RoleManager, true
	case RoleHRAdmin:
		return RoleHRAdmin, true
	}
	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHRAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
