package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrMatchNotFound = errors.New("match not found")
	ErrNotMember     = errors.New("not a member of this chat")
	ErrBodyTooLong   = errors.New("message body too long")
	ErrChatClosed    = errors.New("chat is closed")
)

const (
	maxBodyLen      = 2000
	defaultPageSize = 200
)

type ChatStore interface {
	InsertMessage(ctx context.Context, pairKey, senderID, body string) (pgrepo.MessageRecord, error)
	ListMessages(ctx context.Context, pairKey string, limit int) ([]pgrepo.MessageRecord, error)
	MarkRead(ctx context.Context, pairKey, userID string) error
	IsClosed(ctx context.Context, pairKey string) (bool, error)
}

type MatchStore interface {
	GetByPairKey(ctx context.Context, pairKey string) (pgrepo.MatchRecord, error)
}

type Message struct {
	ID        uuid.UUID
	PairKey   string
	SenderID  string
	Body      string
	CreatedAt time.Time
}

type Service struct {
	chats   ChatStore
	matches MatchStore
}

type Dependencies struct {
	Chats   ChatStore
	Matches MatchStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		chats:   deps.Chats,
		matches: deps.Matches,
	}
}

// Send appends a message to a match's chat. Only the two matched users may
// write; chat existence is the match row itself.
func (s *Service) Send(ctx context.Context, pairKey, senderID, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if strings.TrimSpace(pairKey) == "" || strings.TrimSpace(senderID) == "" || body == "" {
		return Message{}, ErrValidation
	}
	if len(body) > maxBodyLen {
		return Message{}, ErrBodyTooLong
	}
	if err := s.requireMember(ctx, pairKey, senderID); err != nil {
		return Message{}, err
	}

	// A reported chat is closed for both members, not just the reporter.
	closed, err := s.chats.IsClosed(ctx, pairKey)
	if err != nil {
		return Message{}, fmt.Errorf("check chat closed: %w", err)
	}
	if closed {
		return Message{}, ErrChatClosed
	}

	rec, err := s.chats.InsertMessage(ctx, pairKey, senderID, body)
	if err != nil {
		return Message{}, fmt.Errorf("send message: %w", err)
	}

	return toMessage(rec), nil
}

func (s *Service) History(ctx context.Context, pairKey, userID string, limit int) ([]Message, error) {
	if strings.TrimSpace(pairKey) == "" || strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	if limit <= 0 || limit > defaultPageSize {
		limit = defaultPageSize
	}
	if err := s.requireMember(ctx, pairKey, userID); err != nil {
		return nil, err
	}

	records, err := s.chats.ListMessages(ctx, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	out := make([]Message, 0, len(records))
	for _, rec := range records {
		out = append(out, toMessage(rec))
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, pairKey, userID string) error {
	if strings.TrimSpace(pairKey) == "" || strings.TrimSpace(userID) == "" {
		return ErrValidation
	}
	if err := s.requireMember(ctx, pairKey, userID); err != nil {
		return err
	}

	if err := s.chats.MarkRead(ctx, pairKey, userID); err != nil {
		return fmt.Errorf("mark chat read: %w", err)
	}
	return nil
}

func (s *Service) requireMember(ctx context.Context, pairKey, userID string) error {
	if s.chats == nil || s.matches == nil {
		return fmt.Errorf("chat dependencies are not configured")
	}

	m, err := s.matches.GetByPairKey(ctx, pairKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("load match: %w", err)
	}
	if m.UserAID != userID && m.UserBID != userID {
		return ErrNotMember
	}
	return nil
}

func toMessage(rec pgrepo.MessageRecord) Message {
	return Message{
		ID:        rec.ID,
		PairKey:   rec.PairKey,
		SenderID:  rec.SenderID,
		Body:      rec.Body,
		CreatedAt: rec.CreatedAt,
	}
}
