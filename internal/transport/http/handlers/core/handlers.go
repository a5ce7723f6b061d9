package corehandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type EmployeeService interface {
	ListEmployees(ctx context.Context, creds auth.Credentials) ([]core.Employee, error)
	GetEmployee(ctx context.Context, creds auth.Credentials, id int64) (core.Employee, error)
	CreateEmployee(ctx context.Context, creds auth.Credentials, in core.EmployeeInput) (core.Employee, error)
	UpdateEmployee(ctx context.Context, creds auth.Credentials, p *auth.Principal, id int64, in core.EmployeeInput) (core.Employee, error)
	DeactivateEmployee(ctx context.Context, creds auth.Credentials, id int64) error
}

type Handler struct {
	Service EmployeeService
	Audit   audit.Recorder
	Access  middleware.AccessObserver
}

func NewHandler(service EmployeeService, recorder audit.Recorder, access middleware.AccessObserver) *Handler {
	return &Handler{Service: service, Audit: recorder, Access: access}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.CapViewEmployeesList, h.Access)).Get("/employees", h.handleListEmployees)
	r.With(middleware.RequireCapability(auth.CapCreateEmployee, h.Access)).Post("/employees", h.handleCreateEmployee)
	r.Get("/employees/{id}", h.handleGetEmployee)
	r.Put("/employees/{id}", h.handleUpdateEmployee)
	r.With(middleware.RequireCapability(auth.CapDeleteEmployee, h.Access)).Delete("/employees/{id}", h.handleDeactivateEmployee)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	_, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	employees, err := h.Service.ListEmployees(r.Context(), creds)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapViewEmployee, id, "you are not authorized to view this employee") {
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), creds, id)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	var payload core.EmployeeInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.Email == "" {
		v.Add("email", "is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), creds, payload)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionEmployeeCreate, audit.EntityEmployee, strconv.FormatInt(emp.ID, 10), nil, emp)
	api.Created(w, emp, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapUpdateEmployee, id, "you are not authorized to edit this employee") {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	var payload core.EmployeeInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), creds, p, id, payload)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionEmployeeUpdate, audit.EntityEmployee, strconv.FormatInt(id, 10), payload, emp)
	api.Success(w, emp, requestID)
}

func (h *Handler) handleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeactivateEmployee(r.Context(), creds, id); err != nil {
		shared.RenderError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionEmployeeDeactivate, audit.EntityEmployee, strconv.FormatInt(id, 10), nil, map[string]core.Status{"status": core.StatusInactive})
	api.Success(w, map[string]any{"id": id, "status": core.StatusInactive}, middleware.GetRequestID(r.Context()))
}

func employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
	}
	return id, ok
}
