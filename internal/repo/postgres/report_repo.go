package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Create files a report against a chat partner. Reports start out pending
// until a moderator picks them up.
func (r *ReportRepo) Create(ctx context.Context, tx pgx.Tx, reporterID, targetID, pairKey, reason string) error {
	if reporterID == "" || targetID == "" || reporterID == targetID {
		return fmt.Errorf("invalid report payload")
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("report reason is required")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO reports (
	reporter_id,
	target_id,
	pair_key,
	reason,
	status,
	created_at
) VALUES ($1, $2, $3, $4, 'pending', NOW())
`, reporterID, targetID, pairKey, strings.ToLower(strings.TrimSpace(reason))); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

// ExistsForReporter reports whether this user already reported this chat.
func (r *ReportRepo) ExistsForReporter(ctx context.Context, pairKey, reporterID string) (bool, error) {
	if pairKey == "" || reporterID == "" {
		return false, fmt.Errorf("invalid report lookup")
	}
	if r.pool == nil {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM reports
	WHERE pair_key = $1 AND reporter_id = $2
)
`, pairKey, reporterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check existing report: %w", err)
	}

	return exists, nil
}
