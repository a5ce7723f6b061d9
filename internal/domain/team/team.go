package team

import (
	"errors"
	"fmt"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
)

const LabelAllDepartments = "All departments"

// ErrManagerRecordNotFound means a manager's own employee record is missing
// from the roster. The team view cannot be scoped without it.
var ErrManagerRecordNotFound = errors.New("could not find employee record for manager")

type Scope struct {
	VisibleEmployees []core.Employee `json:"visibleEmployees"`
	ScopeLabel       string          `json:"scopeLabel"`
}

// Resolve narrows roster to what p may see on team views. HR admins see the
// whole roster; managers see their department minus themselves; everyone else
// sees nothing. Roster order is kept and roster itself is never modified.
func Resolve(p *auth.Principal, roster []core.Employee) (Scope, error) {
	if p == nil {
		return Scope{VisibleEmployees: []core.Employee{}}, nil
	}

	switch p.Role {
	case auth.RoleHRAdmin:
		visible := make([]core.Employee, len(roster))
		copy(visible, roster)
		return Scope{VisibleEmployees: visible, ScopeLabel: LabelAllDepartments}, nil
	case auth.RoleManager:
		me, ok := find(roster, p.UserID)
		if !ok {
			return Scope{}, fmt.Errorf("%w: userId=%d", ErrManagerRecordNotFound, p.UserID)
		}
		visible := make([]core.Employee, 0, len(roster))
		for _, e := range roster {
			if e.Department == me.Department && e.ID != me.ID {
				visible = append(visible, e)
			}
		}
		return Scope{VisibleEmployees: visible, ScopeLabel: me.Department}, nil
	default:
		return Scope{VisibleEmployees: []core.Employee{}}, nil
	}
}

func find(roster []core.Employee, id int64) (core.Employee, bool) {
	for _, e := range roster {
		if e.ID == id {
			return e, true
		}
	}
	return core.Employee{}, false
}
