package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type StatsStore interface {
	UserStats(ctx context.Context, userID string) (pgrepo.UserStatsRecord, error)
	SportCounts(ctx context.Context) ([]pgrepo.SportCountRecord, error)
}

type UserStats struct {
	LikesGiven    int
	LikesReceived int
	Matches       int
}

type SportCount struct {
	Sport string
	Users int
}

type Service struct {
	store StatsStore
}

func NewService(store StatsStore) *Service {
	return &Service{store: store}
}

func (s *Service) ForUser(ctx context.Context, userID string) (UserStats, error) {
	if strings.TrimSpace(userID) == "" {
		return UserStats{}, ErrValidation
	}
	if s.store == nil {
		return UserStats{}, fmt.Errorf("stats store is nil")
	}

	rec, err := s.store.UserStats(ctx, userID)
	if err != nil {
		return UserStats{}, fmt.Errorf("load user stats: %w", err)
	}

	return UserStats{
		LikesGiven:    rec.LikesGiven,
		LikesReceived: rec.LikesReceived,
		Matches:       rec.Matches,
	}, nil
}

func (s *Service) Community(ctx context.Context) ([]SportCount, error) {
	if s.store == nil {
		return nil, fmt.Errorf("stats store is nil")
	}

	records, err := s.store.SportCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sport counts: %w", err)
	}

	out := make([]SportCount, 0, len(records))
	for _, rec := range records {
		out = append(out, SportCount{Sport: rec.Sport, Users: rec.Users})
	}
	return out, nil
}
