package chats

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

type chatStoreStub struct {
	messages []pgrepo.MessageRecord
	reads    map[string]string
	closed   map[string]bool
}

func newChatStoreStub() *chatStoreStub {
	return &chatStoreStub{reads: map[string]string{}, closed: map[string]bool{}}
}

func (s *chatStoreStub) InsertMessage(_ context.Context, pairKey, senderID, body string) (pgrepo.MessageRecord, error) {
	rec := pgrepo.MessageRecord{
		ID:        uuid.New(),
		PairKey:   pairKey,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, rec)
	return rec, nil
}

func (s *chatStoreStub) ListMessages(_ context.Context, pairKey string, _ int) ([]pgrepo.MessageRecord, error) {
	out := []pgrepo.MessageRecord{}
	for _, m := range s.messages {
		if m.PairKey == pairKey {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *chatStoreStub) MarkRead(_ context.Context, pairKey, userID string) error {
	s.reads[pairKey] = userID
	return nil
}

func (s *chatStoreStub) IsClosed(_ context.Context, pairKey string) (bool, error) {
	return s.closed[pairKey], nil
}

type matchStoreStub struct {
	matches map[string]pgrepo.MatchRecord
}

func (s *matchStoreStub) GetByPairKey(_ context.Context, pairKey string) (pgrepo.MatchRecord, error) {
	m, ok := s.matches[pairKey]
	if !ok {
		return pgrepo.MatchRecord{}, pgx.ErrNoRows
	}
	return m, nil
}

func newTestService() (*Service, *chatStoreStub) {
	chats := newChatStoreStub()
	matches := &matchStoreStub{matches: map[string]pgrepo.MatchRecord{
		"anna_ben": {PairKey: "anna_ben", UserAID: "anna", UserBID: "ben"},
	}}
	return NewService(Dependencies{Chats: chats, Matches: matches}), chats
}

func TestSendAndHistory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	sent, err := svc.Send(ctx, "anna_ben", "anna", "hello!")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Body != "hello!" || sent.SenderID != "anna" {
		t.Fatalf("unexpected message: %+v", sent)
	}

	history, err := svc.History(ctx, "anna_ben", "ben", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != sent.ID {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestSendRejectsNonMember(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Send(context.Background(), "anna_ben", "mallory", "hi"); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}

func TestSendToUnknownMatch(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Send(context.Background(), "no_such", "anna", "hi"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestSendValidatesBody(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, "anna_ben", "anna", "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank body, got %v", err)
	}
	if _, err := svc.Send(ctx, "anna_ben", "anna", strings.Repeat("x", maxBodyLen+1)); !errors.Is(err, ErrBodyTooLong) {
		t.Fatalf("expected ErrBodyTooLong, got %v", err)
	}
}

func TestSendToClosedChatIsRejectedForBothMembers(t *testing.T) {
	svc, chats := newTestService()
	ctx := context.Background()
	chats.closed["anna_ben"] = true

	if _, err := svc.Send(ctx, "anna_ben", "anna", "hi"); !errors.Is(err, ErrChatClosed) {
		t.Fatalf("expected ErrChatClosed for anna, got %v", err)
	}
	if _, err := svc.Send(ctx, "anna_ben", "ben", "hi"); !errors.Is(err, ErrChatClosed) {
		t.Fatalf("expected ErrChatClosed for ben, got %v", err)
	}

	// History stays readable after the chat is closed.
	if _, err := svc.History(ctx, "anna_ben", "anna", 0); err != nil {
		t.Fatalf("history of a closed chat: %v", err)
	}
}

func TestMarkReadRequiresMembership(t *testing.T) {
	svc, chats := newTestService()
	ctx := context.Background()

	if err := svc.MarkRead(ctx, "anna_ben", "ben"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if chats.reads["anna_ben"] != "ben" {
		t.Fatalf("expected read watermark for ben")
	}

	if err := svc.MarkRead(ctx, "anna_ben", "mallory"); !errors.Is(err, ErrNotMember) {
		t.Fatalf("expected ErrNotMember, got %v", err)
	}
}
