package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	// ErrTransientLoad marks a failed candidate fetch. Recoverable by Reload.
	ErrTransientLoad = errors.New("transient load error")
	// ErrWrite marks a failed like or match write. Non-fatal to deck progression.
	ErrWrite = errors.New("write error")
	// ErrRead marks a failed reciprocity read. Treated as "no match detected".
	ErrRead = errors.New("read error")
)

// CandidateSource loads the candidate universe for a user. Implementations
// may or may not exclude the caller and already-liked ids server-side; the
// engine always re-applies the exclusion client-side as a fallback.
type CandidateSource interface {
	LoadCandidates(ctx context.Context, currentUserID string) ([]Profile, error)
}

// LikeStore persists directed like edges. RecordLike must be idempotent for
// the same (liker, liked) pair. FetchLikeSet must return a fresh read, never
// a session-cached one.
type LikeStore interface {
	RecordLike(ctx context.Context, likerID, likedID string) error
	FetchLikeSet(ctx context.Context, userID string) (map[string]struct{}, error)
}

// MatchStore creates match records. CreateIfAbsent must be safe under
// concurrent invocation from both sides of the pair; created reports whether
// this call inserted the record.
type MatchStore interface {
	CreateIfAbsent(ctx context.Context, pairKey, userA, userB string) (created bool, err error)
}

// Events receives engine notifications. NewMatch fires exactly once per
// created match record.
type Events interface {
	NewMatch(userA, userB string)
}

// SessionProvider tells the engine who the current user is. An empty id
// models "not authenticated": loads become no-ops and the deck stays empty.
type SessionProvider interface {
	CurrentUserID() string
}

type Config struct {
	// ViewportWidth scales the swipe threshold and the off-screen target.
	ViewportWidth float64
	// ThresholdFrac is the horizontal release threshold as a fraction of
	// the viewport width.
	ThresholdFrac float64
	// SwipeOutFrac is the off-screen target as a fraction of the viewport
	// width, signed by direction.
	SwipeOutFrac float64
	// SwipeOutMS is the forced-swipe exit animation duration.
	SwipeOutMS int
	// SpringBackMS is the return animation duration for an uncommitted drag.
	SpringBackMS int
}

type Dependencies struct {
	Session SessionProvider
	Source  CandidateSource
	Likes   LikeStore
	Matches MatchStore
	Events  Events
	Logger  *zap.Logger
}

// Engine is the swipe-deck state machine: candidate pool, filtered deck,
// cursor, per-card offsets and the match resolver. All exported methods are
// safe for use from a single logical UI thread; backend effects of a swipe
// run asynchronously and never block gesture handling.
type Engine struct {
	mu sync.Mutex

	session SessionProvider
	source  CandidateSource
	likes   LikeStore
	matches MatchStore
	events  Events
	log     *zap.Logger
	cfg     Config

	pool    []Profile
	deck    []Profile
	offsets []Offset
	cursor  int
	swiped  map[string]struct{}
	filter  FilterState

	loading    bool
	loadingGen uint64
	loaded     bool
	generation uint64
	lastErr    error
	failed     []FailedOp

	anim *animation
	// pendingCtx is the context the in-flight forced swipe was started
	// with; resolver effects inherit it.
	pendingCtx context.Context

	// dispatch runs the asynchronous backend effects of a completed swipe.
	// Replaced with a synchronous runner in tests.
	dispatch func(func())
	// effectWG tracks in-flight resolver effects so embedders can drain
	// them on teardown.
	effectWG sync.WaitGroup
}

func New(deps Dependencies, cfg Config) *Engine {
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 390
	}
	if cfg.ThresholdFrac <= 0 {
		cfg.ThresholdFrac = 0.25
	}
	if cfg.SwipeOutFrac <= 0 {
		cfg.SwipeOutFrac = 1.5
	}
	if cfg.SwipeOutMS <= 0 {
		cfg.SwipeOutMS = 250
	}
	if cfg.SpringBackMS <= 0 {
		cfg.SpringBackMS = 250
	}

	return &Engine{
		session:  deps.Session,
		source:   deps.Source,
		likes:    deps.Likes,
		matches:  deps.Matches,
		events:   deps.Events,
		log:      deps.Logger,
		cfg:      cfg,
		swiped:   make(map[string]struct{}),
		dispatch: func(fn func()) { go fn() },
	}
}

// Reload fetches the candidate pool and rebuilds the deck. It clears the
// session swiped-set. Overlapping reloads are resolved by generation: a
// response that arrives after a newer Reload (or filter-triggered reload)
// started is discarded without touching state.
func (e *Engine) Reload(ctx context.Context) error {
	if e.session == nil || e.source == nil {
		return fmt.Errorf("deck engine dependencies are not configured")
	}

	userID := e.session.CurrentUserID()
	if userID == "" {
		// Not authenticated. Not an error, the deck just stays empty.
		e.mu.Lock()
		e.generation++
		e.resetLocked(nil)
		e.mu.Unlock()
		return nil
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.loading = true
	e.loadingGen = gen
	e.lastErr = nil
	e.mu.Unlock()

	candidates, err := e.source.LoadCandidates(ctx, userID)
	var likedSet map[string]struct{}
	if err == nil && e.likes != nil {
		likedSet, err = e.likes.FetchLikeSet(ctx, userID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Clear the loading flag unless a newer load has since taken it over.
	if e.loadingGen == gen {
		e.loading = false
	}
	if gen != e.generation {
		// A newer load or filter change superseded this response.
		return nil
	}

	if err != nil {
		loadErr := fmt.Errorf("%w: %v", ErrTransientLoad, err)
		e.lastErr = loadErr
		e.resetLocked(nil)
		if e.log != nil {
			e.log.Warn("candidate pool load failed", zap.Error(err))
		}
		return loadErr
	}

	e.resetLocked(buildPool(candidates, userID, likedSet))
	return nil
}

// resetLocked replaces the pool, clears the session swiped-set and rebuilds
// the active deck. Callers must hold e.mu.
func (e *Engine) resetLocked(pool []Profile) {
	e.pool = pool
	e.swiped = make(map[string]struct{})
	e.loaded = pool != nil
	e.anim = nil
	e.rebuildLocked()
}

// rebuildLocked recomputes the active deck from the pool, resets the cursor
// to zero and reallocates the offset arena wholesale.
func (e *Engine) rebuildLocked() {
	e.deck = applyFilter(e.pool, e.filter, e.swiped)
	e.offsets = make([]Offset, len(e.deck))
	e.cursor = 0
	e.anim = nil
}

// buildPool applies the load-time exclusions: the current user, ids already
// liked in prior sessions, duplicates, and profiles with no well-formed
// sports list (malformed data, skipped silently).
func buildPool(candidates []Profile, currentUserID string, liked map[string]struct{}) []Profile {
	pool := make([]Profile, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, p := range candidates {
		if p.ID == "" || p.ID == currentUserID {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		if _, already := liked[p.ID]; already {
			continue
		}
		if p.Sports == nil {
			continue
		}
		seen[p.ID] = struct{}{}
		pool = append(pool, p)
	}
	return pool
}

// SetFilter replaces the whole filter state and synchronously recomputes the
// active deck.
func (e *Engine) SetFilter(filter FilterState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++ // any in-flight load is now stale against this filter
	e.filter = filter
	e.rebuildLocked()
}

func (e *Engine) SetSports(sports []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.filter.Sports = append([]string(nil), sports...)
	e.rebuildLocked()
}

func (e *Engine) SetGender(gender string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.filter.Gender = gender
	e.rebuildLocked()
}

func (e *Engine) SetCity(city string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.filter.City = city
	e.rebuildLocked()
}

func (e *Engine) SetAgeRange(minAge, maxAge *int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.filter.MinAge = copyAge(minAge)
	e.filter.MaxAge = copyAge(maxAge)
	e.rebuildLocked()
}

func copyAge(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (e *Engine) Filter() FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	f := e.filter
	f.Sports = append([]string(nil), e.filter.Sports...)
	f.MinAge = copyAge(e.filter.MinAge)
	f.MaxAge = copyAge(e.filter.MaxAge)
	return f
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() State {
	if !e.loaded {
		return StateIdle
	}
	if e.cursor < len(e.deck) {
		return StateReady
	}
	return StateExhausted
}

func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Deck returns a copy of the active deck.
func (e *Engine) Deck() []Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Profile(nil), e.deck...)
}

// Top returns the profile at the cursor, if any.
func (e *Engine) Top() (Profile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.deck) {
		return Profile{}, false
	}
	return e.deck[e.cursor], true
}

// CardOffset returns the animated offset of the card at deck index i.
func (e *Engine) CardOffset(i int) Offset {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.offsets) {
		return Offset{}
	}
	return e.offsets[i]
}

// TopOffset is the live offset of the interactive card. The like/pass visual
// affordance is a projection of this against Threshold.
func (e *Engine) TopOffset() Offset {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cursor >= len(e.offsets) {
		return Offset{}
	}
	return e.offsets[e.cursor]
}

// Threshold is the horizontal distance a drag must exceed at release to
// commit a swipe.
func (e *Engine) Threshold() float64 {
	return e.cfg.ViewportWidth * e.cfg.ThresholdFrac
}

func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// LastError reports the most recent load failure, or nil.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Wait blocks until all in-flight backend effects have finished. Intended
// for teardown and tests; gesture handling never calls it.
func (e *Engine) Wait() {
	e.effectWG.Wait()
}
