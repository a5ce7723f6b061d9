package audit

import (
	"context"
	"log/slog"
	"time"
)

// LogRecorder writes events to the structured log when no database is configured.
type LogRecorder struct {
	Logger *slog.Logger
}

func (r LogRecorder) Record(ctx context.Context, evt Event) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "audit",
		"action", evt.Action,
		"actorId", evt.ActorID,
		"actorRole", evt.ActorRole,
		"entityType", evt.EntityType,
		"entityId", evt.EntityID,
		"requestId", evt.RequestID,
		"ip", evt.IP,
	)
	return nil
}

// Queue is satisfied by the background job service.
type Queue interface {
	Enqueue(jobType string, run func(context.Context) error) bool
}

// AsyncRecorder hands events to a background queue so request handlers never
// wait on the audit sink. Events are timestamped at enqueue time.
type AsyncRecorder struct {
	Sink  Recorder
	Queue Queue
	Now   func() time.Time
}

func NewAsyncRecorder(sink Recorder, queue Queue) *AsyncRecorder {
	return &AsyncRecorder{Sink: sink, Queue: queue, Now: time.Now}
}

func (r *AsyncRecorder) Record(_ context.Context, evt Event) error {
	if evt.CreatedAt.IsZero() && r.Now != nil {
		evt.CreatedAt = r.Now().UTC()
	}
	r.Queue.Enqueue("audit:"+evt.Action, func(ctx context.Context) error {
		return r.Sink.Record(ctx, evt)
	})
	return nil
}
