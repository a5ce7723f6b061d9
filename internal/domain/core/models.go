package core

import "strings"

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	}
	return "", false
}

// Employee mirrors the backend record. A null department decodes to "".
type Employee struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Status     Status `json:"status"`
}

func (e Employee) Active() bool {
	return e.Status != StatusInactive
}

type EmployeeInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Department string `json:"department" validate:"max=120"`
	Title      string `json:"title" validate:"max=120"`
	Status     string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
}

func (in EmployeeInput) normalized() EmployeeInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.TrimSpace(in.Status)
	return in
}
