package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/payroll"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const idempotencyEndpoint = "payroll.create"

type PayrollService interface {
	ListRecords(ctx context.Context, creds auth.Credentials, employeeID int64) ([]payroll.Record, error)
	CreateRecord(ctx context.Context, creds auth.Credentials, employeeID int64, in payroll.RecordInput) (payroll.Record, error)
}

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, creds auth.Credentials, id int64) (core.Employee, error)
}

type Handler struct {
	Service     PayrollService
	Employees   EmployeeLookup
	Idempotency *middleware.IdempotencyStore
	Audit       audit.Recorder
	Access      middleware.AccessObserver
}

func NewHandler(service PayrollService, employees EmployeeLookup, idem *middleware.IdempotencyStore, recorder audit.Recorder, access middleware.AccessObserver) *Handler {
	return &Handler{Service: service, Employees: employees, Idempotency: idem, Audit: recorder, Access: access}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{id}/payroll", h.handleListRecords)
	r.With(middleware.RequireCapability(auth.CapCreatePayrollRecord, h.Access)).Post("/employees/{id}/payroll", h.handleCreateRecord)
	r.Get("/employees/{id}/payroll/statement.pdf", h.handleStatement)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapViewEmployeePayroll, id, "you are not authorized to view payroll for this employee") {
		return
	}

	records, err := h.Service.ListRecords(r.Context(), creds, id)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(r.Context())

	body, ok := shared.ReadBody(w, r, requestID)
	if !ok {
		return
	}
	var payload payroll.RecordInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	payload.Month = strings.TrimSpace(payload.Month)
	v := shared.NewValidator()
	v.Struct(payload)
	for field, negative := range map[string]bool{
		"baseSalary": payload.BaseSalary.IsNegative(),
		"bonus":      payload.Bonus.IsNegative(),
		"deductions": payload.Deductions.IsNegative(),
	} {
		if negative {
			v.Add(field, "must not be negative")
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	key := middleware.IdempotencyKey{
		UserID:   p.UserID,
		Endpoint: idempotencyEndpoint,
		Key:      strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		Hash:     middleware.RequestHash(append([]byte(fmt.Sprintf("%d:", id)), body...)),
	}
	claimed := false
	if key.Key != "" {
		stored, err := h.Idempotency.Claim(r.Context(), key)
		switch {
		case errors.Is(err, middleware.ErrIdempotencyConflict):
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", requestID)
			return
		case errors.Is(err, middleware.ErrIdempotencyInProgress):
			api.Fail(w, http.StatusConflict, "idempotency_in_progress", "a request with this idempotency key is still being processed", requestID)
			return
		case err != nil:
			slog.WarnContext(r.Context(), "idempotency claim failed", "err", err)
		case stored != nil:
			api.Created(w, stored, requestID)
			return
		default:
			claimed = h.Idempotency.Enabled()
		}
	}

	// The claim must be settled even if the client goes away mid-request.
	settle := context.WithoutCancel(r.Context())
	record, err := h.Service.CreateRecord(r.Context(), creds, id, payload)
	if err != nil {
		if claimed {
			if err := h.Idempotency.Release(settle, key); err != nil {
				slog.WarnContext(r.Context(), "idempotency release failed", "err", err)
			}
		}
		shared.RenderError(w, r, err)
		return
	}

	if claimed {
		encoded, err := json.Marshal(record)
		if err != nil {
			slog.WarnContext(r.Context(), "idempotency response marshal failed", "err", err)
			err = h.Idempotency.Release(settle, key)
		} else {
			err = h.Idempotency.Complete(settle, key, encoded)
		}
		if err != nil {
			slog.WarnContext(r.Context(), "idempotency complete failed", "err", err)
		}
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionPayrollCreate, audit.EntityPayroll, strconv.FormatInt(record.ID, 10), nil, record)
	api.Created(w, record, requestID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := employeeID(w, r)
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapViewEmployeePayroll, id, "you are not authorized to view payroll for this employee") {
		return
	}

	emp, err := h.Employees.GetEmployee(r.Context(), creds, id)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	records, err := h.Service.ListRecords(r.Context(), creds, id)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := payroll.WriteStatement(&buf, emp, records); err != nil {
		slog.ErrorContext(r.Context(), "payroll statement render failed", "employeeId", id, "err", err)
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "failed to render payroll statement", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-%d.pdf", id))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "payroll statement write failed", "err", err)
	}
}

func employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := shared.PathID(r, "id")
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
	}
	return id, ok
}
