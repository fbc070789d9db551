package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

type MatchRecord struct {
	PairKey   string
	UserAID   string
	UserBID   string
	CreatedAt time.Time
}

// CreateIfAbsent inserts the match row keyed by the deterministic sorted-pair
// key. The unique constraint makes both sides of a simultaneous reciprocal
// like converge on a single row; created reports whether this call inserted
// it.
func (r *MatchRepo) CreateIfAbsent(ctx context.Context, tx pgx.Tx, pairKey, userAID, userBID string) (bool, error) {
	if pairKey == "" || userAID == "" || userBID == "" {
		return false, fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var inserted string
	err := tx.QueryRow(ctx, `
INSERT INTO matches (
	pair_key,
	user_a_id,
	user_b_id,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (pair_key) DO NOTHING
RETURNING pair_key
`, pairKey, userAID, userBID).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create match: %w", err)
	}

	return true, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID string, limit int) ([]MatchRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if r.pool == nil {
		return []MatchRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	pair_key,
	user_a_id,
	user_b_id,
	created_at
FROM matches
WHERE user_a_id = $1 OR user_b_id = $1
ORDER BY created_at DESC, pair_key
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchRecord, 0, limit)
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.PairKey, &rec.UserAID, &rec.UserBID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}

	return items, nil
}

// GetByPairKey checks membership before chat access.
func (r *MatchRepo) GetByPairKey(ctx context.Context, pairKey string) (MatchRecord, error) {
	if pairKey == "" {
		return MatchRecord{}, fmt.Errorf("invalid pair key")
	}
	if r.pool == nil {
		return MatchRecord{}, pgx.ErrNoRows
	}

	var rec MatchRecord
	err := r.pool.QueryRow(ctx, `
SELECT pair_key, user_a_id, user_b_id, created_at
FROM matches
WHERE pair_key = $1
`, pairKey).Scan(&rec.PairKey, &rec.UserAID, &rec.UserBID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, pgx.ErrNoRows
		}
		return MatchRecord{}, fmt.Errorf("get match: %w", err)
	}

	return rec, nil
}
