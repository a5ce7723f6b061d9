package audit

import (
	"context"
	"encoding/json"
	"time"
)

const (
	ActionEmployeeCreate     = "employee.create"
	ActionEmployeeUpdate     = "employee.update"
	ActionEmployeeDeactivate = "employee.deactivate"
	ActionPayrollCreate      = "payroll.create"
	ActionReviewCreate       = "performance.create"
	ActionReviewUpdate       = "performance.update"

	EntityEmployee = "employee"
	EntityPayroll  = "payroll_record"
	EntityReview   = "performance_review"
)

type Event struct {
	ID         int64           `json:"id"`
	ActorID    int64           `json:"actorId"`
	ActorRole  string          `json:"actorRole"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorID    int64
	// Since and Until bound created_at; zero means unbounded. Until is exclusive.
	Since time.Time
	Until time.Time
}

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, evt Event) error
}

// Snapshot encodes v for the Before/After columns. Nil stays nil.
func Snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
