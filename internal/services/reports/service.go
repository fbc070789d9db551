package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrMatchNotFound   = errors.New("match not found")
	ErrNotMember       = errors.New("not a member of this chat")
	ErrUnknownReason   = errors.New("unknown report reason")
	ErrAlreadyReported = errors.New("chat already reported")
	ErrNoMessagesYet   = errors.New("chat partner has not sent a message yet")
)

// Reasons a user can pick when reporting a chat partner.
var allowedReasons = map[string]struct{}{
	"spam":    {},
	"fake":    {},
	"abusive": {},
	"other":   {},
}

type ReportStore interface {
	Create(ctx context.Context, tx pgx.Tx, reporterID, targetID, pairKey, reason string) error
	ExistsForReporter(ctx context.Context, pairKey, reporterID string) (bool, error)
}

type BlockStore interface {
	Upsert(ctx context.Context, tx pgx.Tx, actorID, targetID, reason string) error
}

type ChatStore interface {
	Close(ctx context.Context, tx pgx.Tx, pairKey, closedByID string) error
	HasMessageFrom(ctx context.Context, pairKey, senderID string) (bool, error)
}

type MatchStore interface {
	GetByPairKey(ctx context.Context, pairKey string) (pgrepo.MatchRecord, error)
}

type Service struct {
	pool    *pgxpool.Pool
	reports ReportStore
	blocks  BlockStore
	chats   ChatStore
	matches MatchStore
	log     *zap.Logger
	runTx   func(ctx context.Context, pool *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool    *pgxpool.Pool
	Reports ReportStore
	Blocks  BlockStore
	Chats   ChatStore
	Matches MatchStore
	Logger  *zap.Logger
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		pool:    deps.Pool,
		reports: deps.Reports,
		blocks:  deps.Blocks,
		chats:   deps.Chats,
		matches: deps.Matches,
		log:     log,
		runTx:   pgrepo.WithTx,
	}
}

// Report files a report against the chat counterpart, blocks them for the
// reporter, and closes the chat, all in one transaction. A chat can only be
// reported once per reporter and only after the counterpart has written at
// least one message.
func (s *Service) Report(ctx context.Context, pairKey, reporterID, reason string) error {
	if strings.TrimSpace(pairKey) == "" || strings.TrimSpace(reporterID) == "" {
		return ErrValidation
	}
	normalized := strings.ToLower(strings.TrimSpace(reason))
	if _, ok := allowedReasons[normalized]; !ok {
		return ErrUnknownReason
	}
	if s.reports == nil || s.blocks == nil || s.chats == nil || s.matches == nil {
		return fmt.Errorf("report dependencies are not configured")
	}

	m, err := s.matches.GetByPairKey(ctx, pairKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("load match: %w", err)
	}
	if m.UserAID != reporterID && m.UserBID != reporterID {
		return ErrNotMember
	}
	targetID := m.UserBID
	if m.UserBID == reporterID {
		targetID = m.UserAID
	}

	hasWritten, err := s.chats.HasMessageFrom(ctx, pairKey, targetID)
	if err != nil {
		return fmt.Errorf("check counterpart messages: %w", err)
	}
	if !hasWritten {
		return ErrNoMessagesYet
	}

	reported, err := s.reports.ExistsForReporter(ctx, pairKey, reporterID)
	if err != nil {
		return fmt.Errorf("check existing report: %w", err)
	}
	if reported {
		return ErrAlreadyReported
	}

	if err := s.runTx(ctx, s.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.reports.Create(txCtx, tx, reporterID, targetID, pairKey, normalized); err != nil {
			return err
		}
		if err := s.blocks.Upsert(txCtx, tx, reporterID, targetID, normalized); err != nil {
			return err
		}
		return s.chats.Close(txCtx, tx, pairKey, reporterID)
	}); err != nil {
		return fmt.Errorf("apply report: %w", err)
	}

	s.log.Info("user reported and chat closed",
		zap.String("pair_key", pairKey),
		zap.String("reason", normalized),
	)

	return nil
}

// Reasons returns the accepted report reasons, sorted for stable output.
func Reasons() []string {
	return []string{"abusive", "fake", "other", "spam"}
}
