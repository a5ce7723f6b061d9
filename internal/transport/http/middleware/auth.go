package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
)

type ctxKey string

const ctxKeySession ctxKey = "session"

// TokenOpener recovers the backend token sealed into the portal token.
type TokenOpener interface {
	OpenString(value string) (string, error)
}

type session struct {
	principal *auth.Principal
	creds     auth.Credentials
}

// Auth resolves the bearer portal token into a principal and backend
// credentials. Requests without a valid token continue unauthenticated.
func Auth(secret string, opener TokenOpener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			backendToken, err := opener.OpenString(claims.BackendToken)
			if err != nil {
				slog.WarnContext(r.Context(), "backend token rejected", "err", err, "userId", claims.UserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSession(r.Context(), claims.Principal(), auth.Credentials{Token: backendToken, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithSession stores the principal and its backend credentials on ctx.
func WithSession(ctx context.Context, p *auth.Principal, creds auth.Credentials) context.Context {
	return context.WithValue(ctx, ctxKeySession, session{principal: p, creds: creds})
}

// GetPrincipal returns nil for unauthenticated requests.
func GetPrincipal(ctx context.Context) *auth.Principal {
	s, ok := ctx.Value(ctxKeySession).(session)
	if !ok {
		return nil
	}
	return s.principal
}

func GetCredentials(ctx context.Context) (auth.Credentials, bool) {
	s, ok := ctx.Value(ctxKeySession).(session)
	if !ok {
		return auth.Credentials{}, false
	}
	return s.creds, true
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r.Context()) == nil {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
