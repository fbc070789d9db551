package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

type UserStatsRecord struct {
	LikesGiven    int
	LikesReceived int
	Matches       int
}

type SportCountRecord struct {
	Sport string
	Users int
}

func (r *StatsRepo) UserStats(ctx context.Context, userID string) (UserStatsRecord, error) {
	if userID == "" {
		return UserStatsRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserStatsRecord{}, nil
	}

	var rec UserStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM likes WHERE from_user_id = $1),
	(SELECT COUNT(*) FROM likes WHERE to_user_id = $1),
	(SELECT COUNT(*) FROM matches WHERE user_a_id = $1 OR user_b_id = $1)
`, userID).Scan(&rec.LikesGiven, &rec.LikesReceived, &rec.Matches)
	if err != nil {
		return UserStatsRecord{}, fmt.Errorf("user stats: %w", err)
	}

	return rec, nil
}

// SportCounts returns, for each sport present in any profile, how many
// distinct users list it. Powers the community stats screen.
func (r *StatsRepo) SportCounts(ctx context.Context) ([]SportCountRecord, error) {
	if r.pool == nil {
		return []SportCountRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT sport, COUNT(DISTINCT user_id) AS users
FROM profiles, unnest(sports) AS sport
GROUP BY sport
ORDER BY users DESC, sport
`)
	if err != nil {
		return nil, fmt.Errorf("sport counts: %w", err)
	}
	defer rows.Close()

	items := make([]SportCountRecord, 0, 16)
	for rows.Next() {
		var rec SportCountRecord
		if err := rows.Scan(&rec.Sport, &rec.Users); err != nil {
			return nil, fmt.Errorf("scan sport count: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sport counts: %w", rows.Err())
	}

	return items, nil
}
