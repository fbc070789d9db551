package feed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/application-project-group16/sportbuddies/backend/internal/deck"
	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

type LikeWriter interface {
	Upsert(ctx context.Context, tx pgx.Tx, fromUserID, toUserID string) error
	ListLikedIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

type MatchWriter interface {
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, pairKey, userAID, userBID string) (bool, error)
}

// EngineBackend binds a deck engine to the real stores, so an embedded client
// can run the full swipe loop against postgres.
type EngineBackend struct {
	pool    *pgxpool.Pool
	likes   LikeWriter
	matches MatchWriter
	feed    *Service
	runTx   func(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error
}

var (
	_ deck.CandidateSource = (*EngineBackend)(nil)
	_ deck.LikeStore       = (*EngineBackend)(nil)
	_ deck.MatchStore      = (*EngineBackend)(nil)
)

func NewEngineBackend(pool *pgxpool.Pool, likes LikeWriter, matches MatchWriter, feed *Service) *EngineBackend {
	return &EngineBackend{
		pool:    pool,
		likes:   likes,
		matches: matches,
		feed:    feed,
		runTx:   pgrepo.WithTx,
	}
}

func (b *EngineBackend) LoadCandidates(ctx context.Context, currentUserID string) ([]deck.Profile, error) {
	if b.feed == nil {
		return nil, fmt.Errorf("feed service is nil")
	}
	return b.feed.Candidates(ctx, currentUserID, deck.FilterState{})
}

func (b *EngineBackend) RecordLike(ctx context.Context, likerID, likedID string) error {
	if b.likes == nil {
		return fmt.Errorf("like repo is nil")
	}
	return b.runTx(ctx, b.pool, func(txCtx context.Context, tx pgx.Tx) error {
		return b.likes.Upsert(txCtx, tx, likerID, likedID)
	})
}

func (b *EngineBackend) FetchLikeSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	if b.likes == nil {
		return nil, fmt.Errorf("like repo is nil")
	}
	return b.likes.ListLikedIDs(ctx, userID)
}

func (b *EngineBackend) CreateIfAbsent(ctx context.Context, pairKey, userA, userB string) (bool, error) {
	if b.matches == nil {
		return false, fmt.Errorf("match repo is nil")
	}

	var created bool
	err := b.runTx(ctx, b.pool, func(txCtx context.Context, tx pgx.Tx) error {
		var txErr error
		created, txErr = b.matches.CreateIfAbsent(txCtx, tx, pairKey, userA, userB)
		return txErr
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
