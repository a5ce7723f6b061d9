package core

import (
	"context"
	"fmt"

	"hrportal/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListEmployees(ctx context.Context, creds auth.Credentials) ([]Employee, error) {
	return s.store.ListEmployees(ctx, creds)
}

func (s *Service) GetEmployee(ctx context.Context, creds auth.Credentials, id int64) (Employee, error) {
	return s.store.GetEmployee(ctx, creds, id)
}

func (s *Service) CreateEmployee(ctx context.Context, creds auth.Credentials, in EmployeeInput) (Employee, error) {
	emp, err := NewEmployee(in)
	if err != nil {
		return Employee{}, err
	}
	return s.store.CreateEmployee(ctx, creds, emp)
}

// UpdateEmployee loads the current record so fields outside p's reach are
// written back unchanged.
func (s *Service) UpdateEmployee(ctx context.Context, creds auth.Credentials, p *auth.Principal, id int64, in EmployeeInput) (Employee, error) {
	existing, err := s.store.GetEmployee(ctx, creds, id)
	if err != nil {
		return Employee{}, fmt.Errorf("load employee %d: %w", id, err)
	}
	updated, err := ApplyUpdate(p, existing, in)
	if err != nil {
		return Employee{}, err
	}
	updated.ID = id
	return s.store.UpdateEmployee(ctx, creds, id, updated)
}

func (s *Service) DeactivateEmployee(ctx context.Context, creds auth.Credentials, id int64) error {
	return s.store.DeactivateEmployee(ctx, creds, id)
}
