package teamhandler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/domain/team"
	"hrportal/internal/platform/supersede"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const viewTeamPayroll = "team_payroll"

type RosterSource interface {
	ListEmployees(ctx context.Context, creds auth.Credentials) ([]core.Employee, error)
}

type PayrollSummarizer interface {
	Summary(ctx context.Context, creds auth.Credentials, roster []core.Employee, filter payroll.Filter) (payroll.Summary, error)
}

// Loader runs a view load that a newer load for the same key may supersede.
type Loader interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type SupersedeObserver interface {
	Superseded(view string)
}

type Handler struct {
	Roster     RosterSource
	Payroll    PayrollSummarizer
	Loads      Loader
	Access     middleware.AccessObserver
	Superseded SupersedeObserver
	Now        func() time.Time
}

func NewHandler(roster RosterSource, pay PayrollSummarizer, loads Loader, access middleware.AccessObserver, superseded SupersedeObserver) *Handler {
	return &Handler{Roster: roster, Payroll: pay, Loads: loads, Access: access, Superseded: superseded, Now: time.Now}
}

type teamPayrollResponse struct {
	Month      string          `json:"month"`
	Department string          `json:"department"`
	ScopeLabel string          `json:"scopeLabel"`
	Summary    payroll.Summary `json:"summary"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/team", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapViewEmployeesList, h.Access))
		r.Get("/", h.handleTeam)
		r.With(middleware.RequireCapability(auth.CapViewGlobalPayroll, h.Access)).Get("/payroll", h.handleTeamPayroll)
	})
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	roster, err := h.Roster.ListEmployees(r.Context(), creds)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	scope, err := team.Resolve(p, roster)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, scope, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeamPayroll(w http.ResponseWriter, r *http.Request) {
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
	requested := strings.TrimSpace(r.URL.Query().Get("department"))

	var resp teamPayrollResponse
	key := strconv.FormatInt(p.UserID, 10) + ":" + viewTeamPayroll
	err := h.Loads.Do(r.Context(), key, func(ctx context.Context) error {
		roster, err := h.Roster.ListEmployees(ctx, creds)
		if err != nil {
			return err
		}
		scope, err := team.Resolve(p, roster)
		if err != nil {
			return err
		}

		filter := payroll.Filter{Month: month, Department: requested}
		if p.HasRole(auth.RoleManager) {
			filter.Department = scope.ScopeLabel
			filter.EmployeeIDs = managerPayrollScope(p, scope)
		}
		summary, err := h.Payroll.Summary(ctx, creds, roster, filter)
		if err != nil {
			return err
		}
		resp = teamPayrollResponse{Month: month, Department: filter.Department, ScopeLabel: scope.ScopeLabel, Summary: summary}
		return nil
	})
	if err != nil {
		if errors.Is(err, supersede.ErrSuperseded) && h.Superseded != nil {
			h.Superseded.Superseded(viewTeamPayroll)
		}
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, resp, requestID)
}

// managerPayrollScope is the manager plus the team Resolve produced. The
// department label is never used as a filter for managers, so an empty or
// "All" department cannot widen the summary.
func managerPayrollScope(p *auth.Principal, scope team.Scope) []int64 {
	ids := make([]int64, 0, len(scope.VisibleEmployees)+1)
	ids = append(ids, p.UserID)
	for _, e := range scope.VisibleEmployees {
		ids = append(ids, e.ID)
	}
	return ids
}
