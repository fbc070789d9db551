package deck

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type sessionStub struct {
	userID string
}

func (s sessionStub) CurrentUserID() string { return s.userID }

type sourceStub struct {
	mu       sync.Mutex
	profiles []Profile
	err      error
	calls    int
	// onLoad runs inside LoadCandidates, before returning. Used to change
	// filters while a load is "in flight".
	onLoad func()
}

func (s *sourceStub) LoadCandidates(_ context.Context, _ string) ([]Profile, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.onLoad != nil {
		s.onLoad()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles, nil
}

type likeStoreStub struct {
	mu        sync.Mutex
	recorded  [][2]string
	recordErr error
	likeSets  map[string]map[string]struct{}
	fetchErr  error
	fetches   []string
}

func (s *likeStoreStub) RecordLike(_ context.Context, likerID, likedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, [2]string{likerID, likedID})
	return nil
}

func (s *likeStoreStub) FetchLikeSet(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, userID)
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	set, ok := s.likeSets[userID]
	if !ok {
		return map[string]struct{}{}, nil
	}
	out := make(map[string]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out, nil
}

type matchStoreStub struct {
	mu        sync.Mutex
	created   []string
	existing  map[string]bool
	createErr error
}

func (s *matchStoreStub) CreateIfAbsent(_ context.Context, pairKey, _, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return false, s.createErr
	}
	if s.existing[pairKey] {
		return false, nil
	}
	if s.existing == nil {
		s.existing = make(map[string]bool)
	}
	s.existing[pairKey] = true
	s.created = append(s.created, pairKey)
	return true, nil
}

type eventsStub struct {
	mu      sync.Mutex
	matches [][2]string
}

func (s *eventsStub) NewMatch(userA, userB string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, [2]string{userA, userB})
}

func intPtr(v int) *int { return &v }

func newTestEngine(t *testing.T, source *sourceStub, likes *likeStoreStub, matches *matchStoreStub, events *eventsStub) *Engine {
	t.Helper()
	if likes == nil {
		likes = &likeStoreStub{}
	}
	if matches == nil {
		matches = &matchStoreStub{}
	}
	e := New(Dependencies{
		Session: sessionStub{userID: "self"},
		Source:  source,
		Likes:   likes,
		Matches: matches,
		Events:  events,
	}, Config{ViewportWidth: 400})
	e.dispatch = func(fn func()) { fn() }
	return e
}

func TestReloadExcludesSelfLikedAndMalformed(t *testing.T) {
	source := &sourceStub{profiles: []Profile{
		{ID: "self", Age: 30, Sports: []string{"Tennis"}},
		{ID: "u1", Age: 25, Sports: []string{"Tennis"}},
		{ID: "u1", Age: 25, Sports: []string{"Tennis"}}, // duplicate id
		{ID: "u2", Age: 40, Sports: nil},                // malformed: no sports list
		{ID: "u3", Age: 33, Sports: []string{"Yoga"}},
		{ID: "u4", Age: 21, Sports: []string{}},
	}}
	likes := &likeStoreStub{likeSets: map[string]map[string]struct{}{
		"self": {"u3": {}},
	}}

	e := newTestEngine(t, source, likes, nil, nil)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	deck := e.Deck()
	if len(deck) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(deck), deck)
	}
	if deck[0].ID != "u1" || deck[1].ID != "u4" {
		t.Fatalf("unexpected deck order: %s, %s", deck[0].ID, deck[1].ID)
	}
	if e.Cursor() != 0 {
		t.Fatalf("cursor must reset to 0 after reload, got %d", e.Cursor())
	}
	if e.State() != StateReady {
		t.Fatalf("expected ready state, got %v", e.State())
	}
}

func TestReloadWithoutUserIsNoOp(t *testing.T) {
	source := &sourceStub{profiles: []Profile{{ID: "u1", Sports: []string{"Gym"}}}}
	e := New(Dependencies{
		Session: sessionStub{userID: ""},
		Source:  source,
	}, Config{})

	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("unauthenticated reload must not error: %v", err)
	}
	if source.calls != 0 {
		t.Fatalf("source must not be called without a user, got %d calls", source.calls)
	}
	if len(e.Deck()) != 0 {
		t.Fatalf("deck must stay empty")
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle state, got %v", e.State())
	}
}

func TestReloadFailureLeavesEmptyDeckAndIsRetryable(t *testing.T) {
	source := &sourceStub{err: errors.New("backend down")}
	e := newTestEngine(t, source, nil, nil, nil)

	err := e.Reload(context.Background())
	if !errors.Is(err, ErrTransientLoad) {
		t.Fatalf("expected transient load error, got %v", err)
	}
	if e.Loading() {
		t.Fatalf("loading flag must be cleared after a failed load")
	}
	if len(e.Deck()) != 0 {
		t.Fatalf("deck must be empty after a failed load")
	}
	if !errors.Is(e.LastError(), ErrTransientLoad) {
		t.Fatalf("last error not recorded: %v", e.LastError())
	}

	source.err = nil
	source.profiles = []Profile{{ID: "u1", Age: 20, Sports: []string{"Gym"}}}
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("retry reload: %v", err)
	}
	if len(e.Deck()) != 1 {
		t.Fatalf("expected deck of 1 after retry, got %d", len(e.Deck()))
	}
	if e.LastError() != nil {
		t.Fatalf("last error must clear on successful reload, got %v", e.LastError())
	}
}

func TestFilterConjunction(t *testing.T) {
	source := &sourceStub{profiles: []Profile{
		{ID: "u1", Age: 25, Gender: "female", City: "Helsinki", Sports: []string{"Tennis", "Gym"}},
		{ID: "u2", Age: 40, Gender: "male", City: "Helsinki", Sports: []string{"Yoga"}},
		{ID: "u3", Age: 35, Gender: "female", City: "Tampere", Sports: []string{"Tennis"}},
		{ID: "u4", Age: 35, Gender: "female", City: "Helsinki", Sports: []string{"Tennis"}},
	}}
	e := newTestEngine(t, source, nil, nil, nil)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	e.SetFilter(FilterState{
		Sports: []string{"Tennis", "Running"},
		Gender: "female",
		City:   "Helsinki",
		MinAge: intPtr(30),
		MaxAge: intPtr(50),
	})

	deck := e.Deck()
	if len(deck) != 1 || deck[0].ID != "u4" {
		t.Fatalf("expected only u4 to pass all predicates, got %+v", deck)
	}
	if e.Cursor() != 0 {
		t.Fatalf("filter change must reset cursor to 0, got %d", e.Cursor())
	}

	// Dropping predicates widens the deck again.
	e.SetFilter(FilterState{})
	if len(e.Deck()) != 4 {
		t.Fatalf("expected full pool with empty filter, got %d", len(e.Deck()))
	}
}

func TestFilterRecomputeExcludesSwiped(t *testing.T) {
	source := &sourceStub{profiles: []Profile{
		{ID: "u1", Age: 25, Sports: []string{"Tennis"}},
		{ID: "u2", Age: 30, Sports: []string{"Tennis"}},
	}}
	e := newTestEngine(t, source, nil, nil, nil)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	e.Swipe(context.Background(), DirectionLeft)
	e.Tick(exitDuration(e))
	if e.Cursor() != 1 {
		t.Fatalf("expected cursor 1 after swipe, got %d", e.Cursor())
	}

	// u1 was swiped this session: it must not resurface on recompute even
	// though it passes the (empty) filter.
	e.SetFilter(FilterState{})
	deck := e.Deck()
	if len(deck) != 1 || deck[0].ID != "u2" {
		t.Fatalf("swiped card resurfaced: %+v", deck)
	}
	if e.Cursor() != 0 {
		t.Fatalf("recompute must reset cursor, got %d", e.Cursor())
	}
}

func TestGenerationDiscardsStaleLoad(t *testing.T) {
	source := &sourceStub{profiles: []Profile{
		{ID: "u1", Age: 25, Sports: []string{"Tennis"}},
	}}
	e := newTestEngine(t, source, nil, nil, nil)

	// The filter changes while the load is in flight: applying the stale
	// response must be a no-op against the now-current state.
	source.onLoad = func() {
		e.SetFilter(FilterState{MinAge: intPtr(30)})
	}
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if len(e.Deck()) != 0 {
		t.Fatalf("stale load result must be discarded, got deck %+v", e.Deck())
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle state after discarded load, got %v", e.State())
	}

	// A fresh reload against the same filter applies normally.
	source.onLoad = nil
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if len(e.Deck()) != 0 {
		t.Fatalf("u1 is 25 and must not pass minAge=30, got %+v", e.Deck())
	}
	if e.State() != StateExhausted {
		t.Fatalf("expected exhausted state, got %v", e.State())
	}
}

func TestReloadClearsSwipedSet(t *testing.T) {
	source := &sourceStub{profiles: []Profile{
		{ID: "u1", Age: 25, Sports: []string{"Tennis"}},
	}}
	e := newTestEngine(t, source, nil, nil, nil)
	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	e.Swipe(context.Background(), DirectionLeft)
	e.Tick(exitDuration(e))
	if e.State() != StateExhausted {
		t.Fatalf("expected exhausted deck, got %v", e.State())
	}

	if err := e.Reload(context.Background()); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if len(e.Deck()) != 1 {
		t.Fatalf("full reload must clear the session swiped-set, got %d cards", len(e.Deck()))
	}
}

func exitDuration(e *Engine) time.Duration {
	return time.Duration(e.cfg.SwipeOutMS) * time.Millisecond
}
