package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/application-project-group16/sportbuddies/backend/internal/domain/match"
	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

const (
	directionLeft  = "LEFT"
	directionRight = "RIGHT"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrUnsupportedGesture = errors.New("unsupported gesture direction")
	ErrSelfSwipe          = errors.New("cannot swipe on yourself")
)

type LikeStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, fromUserID, toUserID string) error
	ExistsTx(ctx context.Context, tx pgx.Tx, fromUserID, toUserID string) (bool, error)
	ListLikedIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

type MatchStore interface {
	CreateIfAbsent(ctx context.Context, tx pgx.Tx, pairKey, userAID, userBID string) (bool, error)
}

type SwipeResult struct {
	Liked        bool
	MatchCreated bool
	PairKey      string
}

type Service struct {
	pool       *pgxpool.Pool
	likeStore  LikeStore
	matchStore MatchStore
	log        *zap.Logger
	runTx      func(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool       *pgxpool.Pool
	LikeStore  LikeStore
	MatchStore MatchStore
	Logger     *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		pool:       deps.Pool,
		likeStore:  deps.LikeStore,
		matchStore: deps.MatchStore,
		log:        log,
		runTx:      pgrepo.WithTx,
	}
}

// Swipe applies one gesture. A left swipe is acknowledged but never
// persisted, so the same profile may resurface in a later session. A right
// swipe records the like and, when the target already liked back, creates
// the match inside the same transaction.
func (s *Service) Swipe(ctx context.Context, userID, targetID, direction string) (SwipeResult, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(targetID) == "" {
		return SwipeResult{}, ErrValidation
	}
	if userID == targetID {
		return SwipeResult{}, ErrSelfSwipe
	}

	normalized, err := normalizeDirection(direction)
	if err != nil {
		return SwipeResult{}, err
	}

	if normalized == directionLeft {
		return SwipeResult{}, nil
	}

	if s.likeStore == nil || s.matchStore == nil {
		return SwipeResult{}, fmt.Errorf("swipe dependencies are not configured")
	}

	pairKey := match.PairKey(userID, targetID)
	result := SwipeResult{Liked: true, PairKey: pairKey}

	if err := s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.likeStore.Upsert(txCtx, tx, userID, targetID); err != nil {
			return err
		}

		reciprocal, err := s.likeStore.ExistsTx(txCtx, tx, targetID, userID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		userA, userB := match.SortPair(userID, targetID)
		created, err := s.matchStore.CreateIfAbsent(txCtx, tx, pairKey, userA, userB)
		if err != nil {
			return err
		}
		result.MatchCreated = created
		return nil
	}); err != nil {
		return SwipeResult{}, fmt.Errorf("apply swipe: %w", err)
	}

	if result.MatchCreated {
		s.log.Info("match created",
			zap.String("pair_key", result.PairKey),
		)
	}

	return result, nil
}

// LikedSet exposes the caller's like edges for deck rebuilds.
func (s *Service) LikedSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	if s.likeStore == nil {
		return nil, fmt.Errorf("like store is nil")
	}
	return s.likeStore.ListLikedIDs(ctx, userID)
}

func normalizeDirection(input string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case directionLeft, "PASS":
		return directionLeft, nil
	case directionRight, "LIKE":
		return directionRight, nil
	default:
		return "", ErrUnsupportedGesture
	}
}
