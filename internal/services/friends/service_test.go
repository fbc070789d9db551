package friends

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

type matchStoreStub struct {
	matches []pgrepo.MatchRecord
	err     error
}

func (s *matchStoreStub) ListForUser(_ context.Context, _ string, _ int) ([]pgrepo.MatchRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

type profileStoreStub struct {
	profiles map[string]pgrepo.ProfileRecord
}

func (s *profileStoreStub) GetMany(_ context.Context, _ []string) (map[string]pgrepo.ProfileRecord, error) {
	return s.profiles, nil
}

type chatStoreStub struct {
	summaries map[string]pgrepo.ChatSummaryRecord
}

func (s *chatStoreStub) ListSummaries(_ context.Context, _ string, _ []string) (map[string]pgrepo.ChatSummaryRecord, error) {
	return s.summaries, nil
}

func TestListOrdersByMostRecentActivity(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	matches := &matchStoreStub{matches: []pgrepo.MatchRecord{
		{PairKey: "me_u1", UserAID: "me", UserBID: "u1", CreatedAt: base},
		{PairKey: "me_u2", UserAID: "me", UserBID: "u2", CreatedAt: base.Add(time.Hour)},
	}}
	profiles := &profileStoreStub{profiles: map[string]pgrepo.ProfileRecord{
		"u1": {UserID: "u1", DisplayName: "Anna"},
		"u2": {UserID: "u2", DisplayName: "Ben"},
	}}
	chats := &chatStoreStub{summaries: map[string]pgrepo.ChatSummaryRecord{
		"me_u1": {PairKey: "me_u1", LastMessage: "see you at the court", LastMessageAt: base.Add(2 * time.Hour), UnreadCount: 3},
	}}

	svc := NewService(Dependencies{Matches: matches, Profiles: profiles, Chats: chats})

	got, err := svc.List(context.Background(), "me")
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(got))
	}
	// u1's chat activity is newer than u2's match, so u1 sorts first.
	if got[0].UserID != "u1" || got[1].UserID != "u2" {
		t.Fatalf("unexpected order: %s, %s", got[0].UserID, got[1].UserID)
	}
	if got[0].UnreadCount != 3 || got[0].LastMessage == "" {
		t.Fatalf("expected chat summary on first row: %+v", got[0])
	}
}

func TestListDropsDeletedProfiles(t *testing.T) {
	matches := &matchStoreStub{matches: []pgrepo.MatchRecord{
		{PairKey: "ghost_me", UserAID: "ghost", UserBID: "me"},
		{PairKey: "me_u2", UserAID: "me", UserBID: "u2"},
	}}
	profiles := &profileStoreStub{profiles: map[string]pgrepo.ProfileRecord{
		"u2": {UserID: "u2", DisplayName: "Ben"},
	}}

	svc := NewService(Dependencies{Matches: matches, Profiles: profiles})

	got, err := svc.List(context.Background(), "me")
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u2" {
		t.Fatalf("expected only u2, got %+v", got)
	}
}

func TestListResolvesCounterpartOnEitherSide(t *testing.T) {
	matches := &matchStoreStub{matches: []pgrepo.MatchRecord{
		{PairKey: "abel_me", UserAID: "abel", UserBID: "me"},
	}}
	profiles := &profileStoreStub{profiles: map[string]pgrepo.ProfileRecord{
		"abel": {UserID: "abel", DisplayName: "Abel"},
	}}

	svc := NewService(Dependencies{Matches: matches, Profiles: profiles})

	got, err := svc.List(context.Background(), "me")
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "abel" {
		t.Fatalf("expected abel as counterpart, got %+v", got)
	}
}

func TestListWithNoMatches(t *testing.T) {
	svc := NewService(Dependencies{Matches: &matchStoreStub{}, Profiles: &profileStoreStub{}})

	got, err := svc.List(context.Background(), "me")
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestMatchesReturnsRawRecordsWithBuddy(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	matches := &matchStoreStub{matches: []pgrepo.MatchRecord{
		{PairKey: "abel_me", UserAID: "abel", UserBID: "me", CreatedAt: base},
		{PairKey: "me_zoe", UserAID: "me", UserBID: "zoe", CreatedAt: base.Add(time.Hour)},
	}}

	svc := NewService(Dependencies{Matches: matches, Profiles: &profileStoreStub{}})

	got, err := svc.Matches(context.Background(), "me")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].BuddyID != "abel" || got[1].BuddyID != "zoe" {
		t.Fatalf("unexpected buddies: %s, %s", got[0].BuddyID, got[1].BuddyID)
	}
	if got[1].PairKey != "me_zoe" || !got[1].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected record: %+v", got[1])
	}
}

func TestMatchesRequiresUser(t *testing.T) {
	svc := NewService(Dependencies{Matches: &matchStoreStub{}})

	if _, err := svc.Matches(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListRequiresUser(t *testing.T) {
	svc := NewService(Dependencies{Matches: &matchStoreStub{}, Profiles: &profileStoreStub{}})

	if _, err := svc.List(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
