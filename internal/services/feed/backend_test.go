package feed

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/application-project-group16/sportbuddies/backend/internal/deck"
	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

type sessionStub struct {
	userID string
}

func (s sessionStub) CurrentUserID() string { return s.userID }

type likeWriterStub struct {
	upserts  [][2]string
	likeSets map[string]map[string]struct{}
}

func (s *likeWriterStub) Upsert(_ context.Context, _ pgx.Tx, fromUserID, toUserID string) error {
	s.upserts = append(s.upserts, [2]string{fromUserID, toUserID})
	return nil
}

func (s *likeWriterStub) ListLikedIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	set, ok := s.likeSets[userID]
	if !ok {
		return map[string]struct{}{}, nil
	}
	return set, nil
}

type matchWriterStub struct {
	created []string
}

func (s *matchWriterStub) CreateIfAbsent(_ context.Context, _ pgx.Tx, pairKey, _, _ string) (bool, error) {
	s.created = append(s.created, pairKey)
	return true, nil
}

func newTestBackend(store *candidateStoreStub, likes *likeWriterStub, matches *matchWriterStub) *EngineBackend {
	b := NewEngineBackend(nil, likes, matches, NewService(Dependencies{Candidates: store}))
	b.runTx = func(ctx context.Context, _ *pgxpool.Pool, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}
	return b
}

// The backend serves all three engine collaborator roles, so one instance is
// enough to run a full embedded swipe session.
func TestEngineRunsFullSwipeLoopOverBackend(t *testing.T) {
	store := &candidateStoreStub{records: []pgrepo.ProfileRecord{
		{UserID: "zoe", DisplayName: "Zoe", Age: 28, Sports: []string{"Climbing"}},
	}}
	likes := &likeWriterStub{likeSets: map[string]map[string]struct{}{
		"zoe": {"adam": {}},
	}}
	matches := &matchWriterStub{}
	backend := newTestBackend(store, likes, matches)

	e := deck.New(deck.Dependencies{
		Session: sessionStub{userID: "adam"},
		Source:  backend,
		Likes:   backend,
		Matches: backend,
	}, deck.Config{ViewportWidth: 400})

	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload over backend: %v", err)
	}
	if got := e.Deck(); len(got) != 1 || got[0].ID != "zoe" {
		t.Fatalf("unexpected deck: %+v", got)
	}

	e.Swipe(context.Background(), deck.DirectionRight)
	e.Tick(250 * time.Millisecond)
	e.Wait()

	if len(likes.upserts) != 1 || likes.upserts[0] != [2]string{"adam", "zoe"} {
		t.Fatalf("expected like upsert (adam, zoe), got %+v", likes.upserts)
	}
	if len(matches.created) != 1 || matches.created[0] != "adam_zoe" {
		t.Fatalf("expected match adam_zoe, got %+v", matches.created)
	}
	if e.Cursor() != 1 {
		t.Fatalf("expected cursor advanced to 1, got %d", e.Cursor())
	}
}

func TestBackendExcludesAlreadyLikedOnReload(t *testing.T) {
	store := &candidateStoreStub{records: []pgrepo.ProfileRecord{
		{UserID: "zoe", DisplayName: "Zoe", Age: 28, Sports: []string{"Climbing"}},
		{UserID: "ben", DisplayName: "Ben", Age: 30, Sports: []string{"Tennis"}},
	}}
	likes := &likeWriterStub{likeSets: map[string]map[string]struct{}{
		"adam": {"ben": {}},
	}}
	backend := newTestBackend(store, likes, &matchWriterStub{})

	e := deck.New(deck.Dependencies{
		Session: sessionStub{userID: "adam"},
		Source:  backend,
		Likes:   backend,
		Matches: backend,
	}, deck.Config{})

	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload over backend: %v", err)
	}
	if got := e.Deck(); len(got) != 1 || got[0].ID != "zoe" {
		t.Fatalf("already-liked ben must be excluded: %+v", got)
	}
}
