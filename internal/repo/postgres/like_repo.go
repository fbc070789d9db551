package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Upsert records a directed like edge. Calling it twice for the same pair is
// a no-op, which keeps client retries after dropped responses safe.
func (r *LikeRepo) Upsert(ctx context.Context, tx pgx.Tx, fromUserID, toUserID string) error {
	if fromUserID == "" || toUserID == "" {
		return fmt.Errorf("invalid like payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO likes (
	from_user_id,
	to_user_id,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (from_user_id, to_user_id) DO NOTHING
`, fromUserID, toUserID); err != nil {
		return fmt.Errorf("upsert like: %w", err)
	}

	return nil
}

// ListLikedIDs returns the set of ids the user has liked. Always a fresh
// read; the reciprocity check depends on it.
func (r *LikeRepo) ListLikedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return map[string]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT to_user_id
FROM likes
WHERE from_user_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list liked ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked id: %w", err)
		}
		out[id] = struct{}{}
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate liked ids: %w", rows.Err())
	}

	return out, nil
}

// ExistsTx reports whether a like edge exists, inside the swipe transaction.
func (r *LikeRepo) ExistsTx(ctx context.Context, tx pgx.Tx, fromUserID, toUserID string) (bool, error) {
	if fromUserID == "" || toUserID == "" {
		return false, fmt.Errorf("invalid like lookup payload")
	}
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}

	var one int
	err := tx.QueryRow(ctx, `
SELECT 1
FROM likes
WHERE from_user_id = $1 AND to_user_id = $2
LIMIT 1
`, fromUserID, toUserID).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("lookup like: %w", err)
	}

	return true, nil
}
