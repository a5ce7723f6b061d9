package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IdempotencyKeyTTL is how long a claimed key is honored.
const IdempotencyKeyTTL = 24 * time.Hour

var (
	ErrIdempotencyConflict   = errors.New("idempotency key conflicts with existing request")
	ErrIdempotencyInProgress = errors.New("idempotency key is held by a request still in progress")
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// IdempotencyStore remembers responses to keyed mutations so a retried
// request replays the first response instead of writing twice. A request
// claims its key before doing any work; a nil store or pool disables it.
type IdempotencyStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewIdempotencyStore(db *pgxpool.Pool) *IdempotencyStore {
	return &IdempotencyStore{db: db, now: time.Now}
}

func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) Enabled() bool {
	return s != nil && s.db != nil
}

// IdempotencyKey identifies one keyed request of one user on one endpoint.
type IdempotencyKey struct {
	UserID   int64
	Endpoint string
	Key      string
	Hash     string
}

// Claim takes the key for this request. It returns (nil, nil) when the caller
// now owns the key and must Complete or Release it, or the stored response when
// an earlier request with the same payload finished. A live key held for
// another payload is ErrIdempotencyConflict; one whose first request has not
// finished is ErrIdempotencyInProgress. An expired key is taken over.
func (s *IdempotencyStore) Claim(ctx context.Context, k IdempotencyKey) (json.RawMessage, error) {
	if !s.Enabled() {
		return nil, nil
	}
	liveSince := s.now().Add(-IdempotencyKeyTTL)

	query, args, err := claimQuery(k, liveSince)
	if err != nil {
		return nil, err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 1 {
		return nil, nil
	}

	query, args, err = lookupQuery(k, liveSince)
	if err != nil {
		return nil, err
	}
	var storedHash string
	var stored []byte
	err = s.db.QueryRow(ctx, query, args...).Scan(&storedHash, &stored)
	if errors.Is(err, pgx.ErrNoRows) {
		// The holder released or the row expired between the two statements.
		return nil, ErrIdempotencyInProgress
	}
	if err != nil {
		return nil, err
	}
	return resolveClaim(storedHash, stored, k.Hash)
}

// Complete stores the response for a key the caller claimed.
func (s *IdempotencyStore) Complete(ctx context.Context, k IdempotencyKey, response json.RawMessage) error {
	if !s.Enabled() {
		return nil
	}
	query, args, err := completeQuery(k, response)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, query, args...)
	return err
}

// Release drops a pending claim so the client may retry after a failure.
func (s *IdempotencyStore) Release(ctx context.Context, k IdempotencyKey) error {
	if !s.Enabled() {
		return nil
	}
	query, args, err := releaseQuery(k)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, query, args...)
	return err
}

func resolveClaim(storedHash string, stored []byte, hash string) (json.RawMessage, error) {
	if storedHash != hash {
		return nil, ErrIdempotencyConflict
	}
	if stored == nil {
		return nil, ErrIdempotencyInProgress
	}
	return json.RawMessage(stored), nil
}

func keyEq(k IdempotencyKey) sq.Eq {
	return sq.Eq{"user_id": k.UserID, "key": k.Key, "endpoint": k.Endpoint}
}

func claimQuery(k IdempotencyKey, liveSince time.Time) (string, []any, error) {
	return psql.Insert("idempotency_keys").
		Columns("user_id", "key", "endpoint", "request_hash").
		Values(k.UserID, k.Key, k.Endpoint, k.Hash).
		Suffix(`ON CONFLICT (user_id, key, endpoint) DO UPDATE
SET request_hash = EXCLUDED.request_hash, response_json = NULL, created_at = now()
WHERE idempotency_keys.created_at < ?`, liveSince).
		ToSql()
}

func lookupQuery(k IdempotencyKey, liveSince time.Time) (string, []any, error) {
	return psql.Select("request_hash", "response_json").
		From("idempotency_keys").
		Where(keyEq(k)).
		Where(sq.GtOrEq{"created_at": liveSince}).
		ToSql()
}

func completeQuery(k IdempotencyKey, response json.RawMessage) (string, []any, error) {
	return psql.Update("idempotency_keys").
		Set("response_json", response).
		Where(keyEq(k)).
		Where(sq.Eq{"request_hash": k.Hash, "response_json": nil}).
		ToSql()
}

func releaseQuery(k IdempotencyKey) (string, []any, error) {
	return psql.Delete("idempotency_keys").
		Where(keyEq(k)).
		Where(sq.Eq{"request_hash": k.Hash, "response_json": nil}).
		ToSql()
}
