package audit

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrportal/internal/platform/db"
)

func TestListQueryFilters(t *testing.T) {
	query, args, err := listQuery(Filter{Action: ActionEmployeeUpdate, ActorID: 3}, false, 50, 10)
	require.NoError(t, err)
	assert.Contains(t, query, "FROM audit_events WHERE action = $1 AND actor_user_id = $2")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, query, "LIMIT 50")
	assert.Contains(t, query, "OFFSET 10")
	assert.NotContains(t, query, "before_json")
	assert.Equal(t, []any{ActionEmployeeUpdate, int64(3)}, args)
}

func TestListQueryWithDetails(t *testing.T) {
	query, args, err := listQuery(Filter{}, true, 100, 0)
	require.NoError(t, err)
	assert.Contains(t, query, "before_json, after_json")
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}

func TestListQueryTimeWindow(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 1, 0)
	query, args, err := listQuery(Filter{Since: since, Until: until}, false, 10, 0)
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE created_at >= $1 AND created_at < $2")
	assert.Equal(t, []any{since, until}, args)
}

func TestInsertQuery(t *testing.T) {
	after, err := Snapshot(map[string]any{"name": "Erin"})
	require.NoError(t, err)
	query, args, err := insertQuery(Event{ActorID: 1, ActorRole: "HR_ADMIN", Action: ActionEmployeeCreate, EntityType: EntityEmployee, EntityID: "9", After: after})
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO audit_events")
	assert.Contains(t, query, "$10")
	require.Len(t, args, 10)
	assert.Nil(t, args[7])
	assert.NotNil(t, args[8])
}

type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Record(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

type inlineQueue struct{}

func (inlineQueue) Enqueue(_ string, run func(context.Context) error) bool {
	return run(context.Background()) == nil
}

func TestAsyncRecorderStampsAndForwards(t *testing.T) {
	sink := &captureSink{}
	fixed := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	rec := NewAsyncRecorder(sink, inlineQueue{})
	rec.Now = func() time.Time { return fixed }

	require.NoError(t, rec.Record(context.Background(), Event{Action: ActionPayrollCreate}))
	require.Len(t, sink.events, 1)
	assert.Equal(t, fixed, sink.events[0].CreatedAt)
}

func TestLogRecorder(t *testing.T) {
	assert.NoError(t, LogRecorder{}.Record(context.Background(), Event{Action: ActionReviewCreate}))
}

func TestStoreAgainstDatabase(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	_, err = db.Migrate(ctx, pool, db.Migrations())
	require.NoError(t, err)

	store := NewStore(pool)
	actor := time.Now().UnixNano() % 1_000_000_000
	require.NoError(t, store.Record(ctx, Event{ActorID: actor, ActorRole: "HR_ADMIN", Action: ActionEmployeeDeactivate, EntityType: EntityEmployee, EntityID: "4"}))

	total, err := store.Count(ctx, Filter{ActorID: actor})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	events, err := store.List(ctx, Filter{ActorID: actor}, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionEmployeeDeactivate, events[0].Action)
}
