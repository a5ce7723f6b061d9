package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/performance"
	"hrportal/internal/domain/reports"
	"hrportal/internal/domain/team"
	"hrportal/internal/gateway"
	"hrportal/internal/platform/supersede"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

// Session returns the caller and its backend credentials, rendering 401 when
// the request is unauthenticated.
func Session(w http.ResponseWriter, r *http.Request) (*auth.Principal, auth.Credentials, bool) {
	p := middleware.GetPrincipal(r.Context())
	creds, ok := middleware.GetCredentials(r.Context())
	if p == nil || !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return nil, auth.Credentials{}, false
	}
	return p, creds, true
}

// Authorize evaluates capability for p against target and renders 403 with
// message on denial.
func Authorize(w http.ResponseWriter, r *http.Request, observer middleware.AccessObserver, p *auth.Principal, capability auth.Capability, target any, message string) bool {
	allowed := auth.Allowed(p, capability, target)
	if observer != nil {
		observer.AccessDecision(string(capability), allowed)
	}
	if !allowed {
		api.Fail(w, http.StatusForbidden, "forbidden", message, middleware.GetRequestID(r.Context()))
	}
	return allowed
}

var validationErrors = map[error]string{
	core.ErrNameRequired:            "name",
	core.ErrEmailRequired:           "email",
	core.ErrInvalidStatus:           "status",
	payroll.ErrInvalidMonth:         "month",
	payroll.ErrNegativeAmount:       "amount",
	payroll.ErrInvalidEmployee:      "employeeId",
	performance.ErrRatingOutOfRange: "rating",
	performance.ErrPeriodRequired:   "period",
	performance.ErrInvalidEmployee:  "employeeId",
}

// RenderError maps a domain, gateway or load error onto the envelope.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	for sentinel, field := range validationErrors {
		if errors.Is(err, sentinel) {
			FailValidation(w, requestID, []ValidationIssue{{Field: field, Reason: sentinel.Error()}})
			return
		}
	}

	var apiErr *gateway.APIError
	switch {
	case errors.Is(err, team.ErrManagerRecordNotFound):
		slog.ErrorContext(r.Context(), "manager record missing", "err", err)
		api.Fail(w, http.StatusInternalServerError, "manager_record_not_found", err.Error(), requestID)
	case errors.Is(err, supersede.ErrSuperseded):
		api.Fail(w, http.StatusConflict, "superseded", "a newer request replaced this one", requestID)
	case errors.Is(err, reports.ErrDashboardUnavailable):
		api.Fail(w, http.StatusBadGateway, "dashboard_unavailable", err.Error(), requestID)
	case errors.Is(err, audit.ErrStoreUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "audit_unavailable", "audit log storage is not configured", requestID)
	case errors.As(err, &apiErr):
		api.FailWithDetails(w, apiErr.Status, "backend_error", apiErr.Message, apiErr.Payload, requestID)
	case errors.Is(err, context.Canceled):
		slog.DebugContext(r.Context(), "request canceled", "err", err)
	case errors.Is(err, context.DeadlineExceeded):
		api.Fail(w, http.StatusGatewayTimeout, "backend_timeout", "backend did not answer in time", requestID)
	case gateway.Unavailable(err):
		slog.WarnContext(r.Context(), "backend unavailable", "err", err)
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "backend is unavailable", requestID)
	default:
		slog.ErrorContext(r.Context(), "request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
