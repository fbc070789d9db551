package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

type ProfileRecord struct {
	UserID      string
	DisplayName string
	Age         int
	Gender      string
	City        string
	Sports      []string
	Bio         string
	PhotoKey    string
	CreatedAt   time.Time
}

func (r *ProfileRepo) Get(ctx context.Context, userID string) (ProfileRecord, error) {
	if userID == "" {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	var rec ProfileRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	user_id,
	COALESCE(display_name, ''),
	COALESCE(age, 0),
	COALESCE(gender, ''),
	COALESCE(city, ''),
	COALESCE(sports, '{}'),
	COALESCE(bio, ''),
	COALESCE(photo_key, ''),
	created_at
FROM profiles
WHERE user_id = $1
`, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.Age,
		&rec.Gender,
		&rec.City,
		&rec.Sports,
		&rec.Bio,
		&rec.PhotoKey,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("get profile: %w", err)
	}

	return rec, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, rec ProfileRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	age,
	gender,
	city,
	sports,
	bio,
	photo_key,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	age = EXCLUDED.age,
	gender = EXCLUDED.gender,
	city = EXCLUDED.city,
	sports = EXCLUDED.sports,
	bio = EXCLUDED.bio,
	photo_key = EXCLUDED.photo_key
`, rec.UserID, rec.DisplayName, rec.Age, rec.Gender, rec.City, rec.Sports, rec.Bio, rec.PhotoKey); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

// ListCandidates returns the candidate universe for a viewer: everyone except
// the viewer, profiles they already liked, and rows with no sports list.
// The deck engine applies the same exclusions again client-side.
func (r *ProfileRepo) ListCandidates(ctx context.Context, viewerID string) ([]ProfileRecord, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if r.pool == nil {
		return []ProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	COALESCE(p.display_name, ''),
	COALESCE(p.age, 0),
	COALESCE(p.gender, ''),
	COALESCE(p.city, ''),
	p.sports,
	COALESCE(p.bio, ''),
	COALESCE(p.photo_key, ''),
	p.created_at
FROM profiles p
WHERE
	p.user_id <> $1
	AND p.sports IS NOT NULL
	AND NOT EXISTS (
		SELECT 1
		FROM likes l
		WHERE l.from_user_id = $1
			AND l.to_user_id = p.user_id
	)
ORDER BY p.created_at, p.user_id
`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRecord, 0, 64)
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.Age,
			&rec.Gender,
			&rec.City,
			&rec.Sports,
			&rec.Bio,
			&rec.PhotoKey,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate candidates: %w", rows.Err())
	}

	return items, nil
}

// GetMany returns the profiles for the given ids, keyed by user id. Missing
// ids are simply absent from the result.
func (r *ProfileRepo) GetMany(ctx context.Context, userIDs []string) (map[string]ProfileRecord, error) {
	if len(userIDs) == 0 {
		return map[string]ProfileRecord{}, nil
	}
	if r.pool == nil {
		return map[string]ProfileRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	user_id,
	COALESCE(display_name, ''),
	COALESCE(age, 0),
	COALESCE(gender, ''),
	COALESCE(city, ''),
	COALESCE(sports, '{}'),
	COALESCE(bio, ''),
	COALESCE(photo_key, ''),
	created_at
FROM profiles
WHERE user_id = ANY($1)
`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list profiles by id: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ProfileRecord, len(userIDs))
	for rows.Next() {
		var rec ProfileRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.DisplayName,
			&rec.Age,
			&rec.Gender,
			&rec.City,
			&rec.Sports,
			&rec.Bio,
			&rec.PhotoKey,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out[rec.UserID] = rec
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}

	return out, nil
}
