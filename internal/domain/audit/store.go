package audit

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrStoreUnavailable = errors.New("audit store not configured")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Record(ctx context.Context, evt Event) error {
	query, args, err := insertQuery(evt)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, query, args...)
	return err
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	query, args, err := applyFilter(psql.Select("COUNT(1)").From("audit_events"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	query, args, err := listQuery(filter, includeDetails, limit, offset)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.ActorID, &evt.ActorRole, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func insertQuery(evt Event) (string, []any, error) {
	createdAt := evt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return psql.Insert("audit_events").
		Columns("actor_user_id", "actor_role", "action", "entity_type", "entity_id", "request_id", "ip", "before_json", "after_json", "created_at").
		Values(evt.ActorID, evt.ActorRole, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, nullJSON(evt.Before), nullJSON(evt.After), createdAt).
		ToSql()
}

func listQuery(filter Filter, includeDetails bool, limit, offset int) (string, []any, error) {
	cols := []string{"id", "actor_user_id", "actor_role", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}
	if includeDetails {
		cols = append(cols, "before_json", "after_json")
	}
	builder := applyFilter(psql.Select(cols...).From("audit_events"), filter).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return builder.ToSql()
}

func applyFilter(builder sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if filter.Action != "" {
		builder = builder.Where(sq.Eq{"action": filter.Action})
	}
	if filter.EntityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.ActorID > 0 {
		builder = builder.Where(sq.Eq{"actor_user_id": filter.ActorID})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		builder = builder.Where(sq.Lt{"created_at": filter.Until})
	}
	return builder
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
