package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/gateway"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (gateway.LoginResult, error)
}

// Sealer protects the backend token inside the portal token.
type Sealer interface {
	SealString(value string) (string, error)
}

type Handler struct {
	Gateway Authenticator
	Secret  string
	TTL     time.Duration
	Sealer  Sealer
}

func NewHandler(gw Authenticator, secret string, ttl time.Duration, sealer Sealer) *Handler {
	return &Handler{Gateway: gw, Secret: secret, TTL: ttl, Sealer: sealer}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=1024"`
}

type sessionResponse struct {
	Token        string                   `json:"token,omitempty"`
	ExpiresAt    *time.Time               `json:"expiresAt,omitempty"`
	User         *auth.Principal          `json:"user"`
	Capabilities map[auth.Capability]bool `json:"capabilities"`
}

// RegisterRoutes mounts the public login routes. loginLimit guards the login
// endpoint only.
func (h *Handler) RegisterRoutes(r chi.Router, loginLimit func(http.Handler) http.Handler) {
	r.With(loginLimit).Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.With(middleware.RequireAuth).Get("/me", h.HandleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)

	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Gateway.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch status := gateway.StatusOf(err); {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			slog.InfoContext(r.Context(), "login rejected", "status", status)
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		case errors.Is(err, gateway.ErrUnknownRole):
			slog.WarnContext(r.Context(), "login with unsupported role", "err", err)
			api.Fail(w, http.StatusForbidden, "unsupported_role", "your account role is not supported", requestID)
		default:
			shared.RenderError(w, r, err)
		}
		return
	}

	sealed, err := h.Sealer.SealString(result.Token)
	if err != nil {
		slog.ErrorContext(r.Context(), "seal backend token failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "could not issue session", requestID)
		return
	}

	principal := result.Principal
	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:       principal.UserID,
		Role:         principal.Role,
		Name:         principal.Name,
		Email:        principal.Email,
		BackendToken: sealed,
	}, h.TTL)
	if err != nil {
		slog.ErrorContext(r.Context(), "sign portal token failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "could not issue session", requestID)
		return
	}

	expiresAt := time.Now().Add(h.TTL).UTC()
	api.Success(w, sessionResponse{
		Token:        token,
		ExpiresAt:    &expiresAt,
		User:         &principal,
		Capabilities: auth.Capabilities(&principal),
	}, requestID)
}

// HandleLogout is a no-op on the server; portal tokens are stateless and the
// client discards its copy.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]bool{"loggedOut": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r.Context())
	api.Success(w, sessionResponse{User: p, Capabilities: auth.Capabilities(p)}, middleware.GetRequestID(r.Context()))
}
