package gateway

import (
	"context"
	"fmt"
	"net/http"

	"hrportal/internal/domain/core"
)

func employeePath(id int64) string {
	return fmt.Sprintf("/api/employees/%d", id)
}

func (c *Client) ListEmployees(ctx context.Context, creds Credentials) ([]core.Employee, error) {
	out := []core.Employee{}
	if err := c.get(ctx, creds, "/api/employees", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []core.Employee{}
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, creds Credentials, id int64) (core.Employee, error) {
	var out core.Employee
	err := c.get(ctx, creds, employeePath(id), nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, creds Credentials, emp core.Employee) (core.Employee, error) {
	var out core.Employee
	err := c.send(ctx, creds, http.MethodPost, "/api/employees", withoutID(emp), &out)
	return out, err
}

func (c *Client) UpdateEmployee(ctx context.Context, creds Credentials, id int64, emp core.Employee) (core.Employee, error) {
	out := emp
	err := c.send(ctx, creds, http.MethodPut, employeePath(id), emp, &out)
	return out, err
}

// DeactivateEmployee asks the backend to soft-delete; the record stays with
// status INACTIVE.
func (c *Client) DeactivateEmployee(ctx context.Context, creds Credentials, id int64) error {
	return c.send(ctx, creds, http.MethodDelete, employeePath(id), nil, nil)
}

type employeeBody struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Department string      `json:"department"`
	Title      string      `json:"title"`
	Status     core.Status `json:"status"`
}

func withoutID(emp core.Employee) employeeBody {
	return employeeBody{Name: emp.Name, Email: emp.Email, Department: emp.Department, Title: emp.Title, Status: emp.Status}
}
