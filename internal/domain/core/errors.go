package core

import "errors"

var (
	ErrNameRequired  = errors.New("employee name is required")
	ErrEmailRequired = errors.New("employee email is required")
	ErrInvalidStatus = errors.New("employee status must be ACTIVE or INACTIVE")
)
