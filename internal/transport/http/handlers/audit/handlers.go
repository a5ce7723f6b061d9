package audithandler

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const exportLimit = 5000

type EventReader interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

// Handler serves the audit log. A nil Events means no database is configured.
type Handler struct {
	Events EventReader
	Access middleware.AccessObserver
}

func NewHandler(events EventReader, access middleware.AccessObserver) *Handler {
	return &Handler{Events: events, Access: access}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.CapViewAudit, h.Access))
		r.Get("/", h.handleListEvents)
		r.Get("/export.csv", h.handleExportEvents)
	})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Events == nil {
		shared.RenderError(w, r, audit.ErrStoreUnavailable)
		return
	}
	v := shared.NewValidator()
	filter := parseFilter(v, r)
	page := v.Page(r, 100, 500)
	if v.Reject(w, requestID) {
		return
	}

	includeDetails := r.URL.Query().Get("includeDetails") == "true"
	total, err := h.Events.Count(r.Context(), filter)
	if err != nil {
		slog.WarnContext(r.Context(), "audit count failed", "err", err)
	}

	events, err := h.Events.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "audit list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", requestID)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, events, requestID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		shared.RenderError(w, r, audit.ErrStoreUnavailable)
		return
	}
	v := shared.NewValidator()
	filter := parseFilter(v, r)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	events, err := h.Events.List(r.Context(), filter, false, exportLimit, 0)
	if err != nil {
		slog.ErrorContext(r.Context(), "audit export failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export audit events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_user_id", "actor_role", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{
			strconv.FormatInt(evt.ID, 10),
			strconv.FormatInt(evt.ActorID, 10),
			evt.ActorRole,
			evt.Action,
			evt.EntityType,
			evt.EntityID,
			evt.RequestID,
			evt.IP,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}

// parseFilter reads the shared audit query. A date-only until includes that
// whole day.
func parseFilter(v *shared.Validator, r *http.Request) audit.Filter {
	q := r.URL.Query()
	filter := audit.Filter{
		Action:     strings.TrimSpace(q.Get("action")),
		EntityType: strings.TrimSpace(q.Get("entityType")),
	}

	actor, ok := shared.QueryID(r, "actor")
	if !ok {
		v.Add("actor", "must be a positive integer")
	}
	filter.ActorID = actor

	if raw := strings.TrimSpace(q.Get("since")); raw != "" {
		filter.Since, _, _ = v.Date("since", raw)
	}
	if raw := strings.TrimSpace(q.Get("until")); raw != "" {
		until, dateOnly, ok := v.Date("until", raw)
		if ok && dateOnly {
			until = until.AddDate(0, 0, 1)
		}
		filter.Until = until
	}
	v.DateOrder("since", filter.Since, "until", filter.Until)
	return filter
}
