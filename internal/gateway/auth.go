package gateway

import (
	"context"
	"fmt"
	"net/http"

	"hrportal/internal/domain/auth"
)

type LoginResult struct {
	Principal auth.Principal
	Token     string
}

type loginResponse struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, Credentials{}, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return LoginResult{}, err
	}
	role, ok := auth.ParseRole(resp.Role)
	if !ok {
		return LoginResult{}, fmt.Errorf("%w: %q", ErrUnknownRole, resp.Role)
	}
	return LoginResult{
		Principal: auth.Principal{UserID: resp.UserID, Role: role, Name: resp.Name, Email: resp.Email},
		Token:     resp.Token,
	}, nil
}
