package middleware

import (
	"net/http"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
)

// AccessObserver is told about every access decision.
type AccessObserver interface {
	AccessDecision(capability string, allowed bool)
}

// RequireCapability gates a route on a capability that does not depend on
// the target record. Self-scoped checks happen in the handler, where the
// target id is known.
func RequireCapability(capability auth.Capability, observer AccessObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			allowed := auth.Allowed(p, capability, nil)
			if observer != nil {
				observer.AccessDecision(string(capability), allowed)
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
