package core

import (
	"context"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	ListEmployees(ctx context.Context, creds auth.Credentials) ([]Employee, error)
	GetEmployee(ctx context.Context, creds auth.Credentials, id int64) (Employee, error)
	CreateEmployee(ctx context.Context, creds auth.Credentials, emp Employee) (Employee, error)
	UpdateEmployee(ctx context.Context, creds auth.Credentials, id int64, emp Employee) (Employee, error)
	DeactivateEmployee(ctx context.Context, creds auth.Credentials, id int64) error
}
