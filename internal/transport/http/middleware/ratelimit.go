package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"hrportal/internal/transport/http/api"
)

// RateLimit caps requests per authenticated user, or per client IP before login.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return limiter(limit, window, actorOrIPKey)
}

// LoginRateLimit applies a tighter budget to login attempts, counted both per
// client IP and per submitted email.
func LoginRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	byIP := limiter(authLimit, window, clientIPKey)
	byEmail := limiter(authLimit, window, AuthEmailOrIPKey("email"))
	return func(next http.Handler) http.Handler {
		return byIP(byEmail(next))
	}
}

// MutationRateLimit halves the budget for writes. Reads pass through.
func MutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	writes := limiter(max(baseLimit/2, 1), window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		limited := writes(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				limited.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func limiter(limit int, window time.Duration, keyFn httprate.KeyFunc) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(keyFn),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			slog.Warn("rate limit exceeded",
				"path", r.URL.Path,
				"method", r.Method,
				"limit", limit,
				"windowSec", int(window.Seconds()),
			)
			if w.Header().Get("Retry-After") == "" {
				w.Header().Set("Retry-After", strconv.Itoa(max(int(window.Seconds()), 1)))
			}
			api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		}),
	)
}

func AuthEmailOrIPKey(field string) httprate.KeyFunc {
	normalizedField := strings.TrimSpace(field)
	if normalizedField == "" {
		normalizedField = "email"
	}
	return func(r *http.Request) (string, error) {
		email := extractJSONField(r, normalizedField)
		if email == "" {
			return clientIPKey(r)
		}
		return "email:" + strings.ToLower(email), nil
	}
}

func actorOrIPKey(r *http.Request) (string, error) {
	if p := GetPrincipal(r.Context()); p != nil {
		return "user:" + strconv.FormatInt(p.UserID, 10), nil
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) (string, error) {
	return "ip:" + ClientIP(r), nil
}

func extractJSONField(r *http.Request, field string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if !strings.Contains(contentType, "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) == 0 {
		return ""
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
