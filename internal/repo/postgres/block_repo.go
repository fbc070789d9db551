package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlockRepo struct {
	pool *pgxpool.Pool
}

func NewBlockRepo(pool *pgxpool.Pool) *BlockRepo {
	return &BlockRepo{pool: pool}
}

// Upsert adds targetID to actorID's blocked list. Re-blocking updates the
// stored reason and nothing else.
func (r *BlockRepo) Upsert(ctx context.Context, tx pgx.Tx, actorID, targetID, reason string) error {
	if actorID == "" || targetID == "" || actorID == targetID {
		return fmt.Errorf("invalid block payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO blocks (
	actor_id,
	target_id,
	reason,
	created_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (actor_id, target_id) DO UPDATE SET
	reason = EXCLUDED.reason
`, actorID, targetID, reason); err != nil {
		return fmt.Errorf("upsert block: %w", err)
	}

	return nil
}

// ListBlockedIDs returns the set of users actorID has blocked, for candidate
// pool exclusion.
func (r *BlockRepo) ListBlockedIDs(ctx context.Context, actorID string) (map[string]struct{}, error) {
	if actorID == "" {
		return nil, fmt.Errorf("invalid actor id")
	}
	if r.pool == nil {
		return map[string]struct{}{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT target_id FROM blocks WHERE actor_id = $1
`, actorID)
	if err != nil {
		return nil, fmt.Errorf("list blocked ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blocked id: %w", err)
		}
		out[id] = struct{}{}
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate blocked ids: %w", rows.Err())
	}

	return out, nil
}
