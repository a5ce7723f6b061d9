package reportshandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/reports"
	"hrportal/internal/platform/supersede"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const viewAdminDashboard = "admin_dashboard"

type DashboardService interface {
	AdminDashboard(ctx context.Context, creds auth.Credentials, month string) (reports.AdminDashboard, error)
	EmployeeDashboard(ctx context.Context, creds auth.Credentials, p *auth.Principal) (reports.EmployeeDashboard, error)
}

type Loader interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type SupersedeObserver interface {
	Superseded(view string)
}

type Handler struct {
	Service    DashboardService
	Loads      Loader
	Access     middleware.AccessObserver
	Superseded SupersedeObserver
	Now        func() time.Time
}

func NewHandler(service DashboardService, loads Loader, access middleware.AccessObserver, superseded SupersedeObserver) *Handler {
	return &Handler{Service: service, Loads: loads, Access: access, Superseded: superseded, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.CapViewGlobalPayroll, h.Access)).Get("/admin", h.handleAdminDashboard)
		r.With(middleware.RequireAuth).Get("/me", h.handleEmployeeDashboard)
	})
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = payroll.CurrentMonth(h.Now())
	}
	if !payroll.ValidMonth(month) {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "month", Reason: "must be formatted as YYYY-MM"}})
		return
	}

	var dash reports.AdminDashboard
	key := strconv.FormatInt(p.UserID, 10) + ":" + viewAdminDashboard
	err := h.Loads.Do(r.Context(), key, func(ctx context.Context) error {
		var err error
		dash, err = h.Service.AdminDashboard(ctx, creds, month)
		return err
	})
	if err != nil {
		if errors.Is(err, supersede.ErrSuperseded) && h.Superseded != nil {
			h.Superseded.Superseded(viewAdminDashboard)
		}
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, dash, requestID)
}

func (h *Handler) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapViewEmployee, p.UserID, "you are not authorized to view this dashboard") {
		return
	}

	dash, err := h.Service.EmployeeDashboard(r.Context(), creds, p)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, dash, middleware.GetRequestID(r.Context()))
}
