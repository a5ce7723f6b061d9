package auth

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Principal is the authenticated user a request acts on behalf of.
// A nil *Principal is the unauthenticated principal.
type Principal struct {
	UserID int64  `json:"userId"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}

// NormalizeID coerces an employee id from a route param, JSON value or typed
// integer. Zero, negative, fractional, empty and non-numeric values are malformed.
func NormalizeID(v any) (int64, bool) {
	var id int64
	switch t := v.(type) {
	case int:
		id = int64(t)
	case int8:
		id = int64(t)
	case int16:
		id = int64(t)
	case int32:
		id = int64(t)
	case int64:
		id = t
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		id = int64(t)
	case uint8:
		id = int64(t)
	case uint16:
		id = int64(t)
	case uint32:
		id = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		id = int64(t)
	case float32:
		return normalizeFloat(float64(t))
	case float64:
		return normalizeFloat(t)
	case json.Number:
		return NormalizeID(string(t))
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}
	if id <= 0 {
		return 0, false
	}
	return id, true
}

func normalizeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Credentials authenticate a principal against the backend. They travel
// explicitly with every call and are never stored globally.
type Credentials struct {
	Token string
	Role  Role
}
