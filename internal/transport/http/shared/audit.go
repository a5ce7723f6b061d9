package shared

import (
	"log/slog"
	"net/http"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/requestctx"
	"hrportal/internal/transport/http/middleware"
)

// RecordAudit hands a mutation to the audit recorder. Failures are logged
// and never fail the request.
func RecordAudit(r *http.Request, recorder audit.Recorder, p *auth.Principal, action, entityType, entityID string, before, after any) {
	if recorder == nil || p == nil {
		return
	}
	evt := audit.Event{
		ActorID:    p.UserID,
		ActorRole:  string(p.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         requestctx.GetClientIP(r.Context()),
	}
	var err error
	if evt.Before, err = audit.Snapshot(before); err != nil {
		slog.WarnContext(r.Context(), "audit snapshot failed", "action", action, "err", err)
	}
	if evt.After, err = audit.Snapshot(after); err != nil {
		slog.WarnContext(r.Context(), "audit snapshot failed", "action", action, "err", err)
	}
	if err := recorder.Record(r.Context(), evt); err != nil {
		slog.WarnContext(r.Context(), "audit record failed", "action", action, "err", err)
	}
}
