package deck

import (
	"context"
	"time"
)

type animKind int

const (
	animExit animKind = iota
	animSpring
)

// animation is the single in-flight card animation. At most one exists at a
// time: a card below the cursor is never gesture-interactive again, and a new
// drag cannot begin while an exit is pending.
type animation struct {
	kind     animKind
	dir      Direction
	index    int
	from     Offset
	target   Offset
	duration time.Duration
	elapsed  time.Duration
}

// DragMove tracks the pointer delta 1:1 on the top card. Ignored while no
// card is interactive or an animation is in flight.
func (e *Engine) DragMove(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.anim != nil || e.stateLocked() != StateReady {
		return
	}
	e.offsets[e.cursor] = Offset{X: dx, Y: dy}
}

// DragRelease ends the current drag. Past the horizontal threshold it commits
// a forced swipe in that direction; otherwise the card springs back to origin
// with no cursor change and no resolver invocation.
func (e *Engine) DragRelease(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.anim != nil || e.stateLocked() != StateReady {
		return
	}

	off := e.offsets[e.cursor]
	threshold := e.cfg.ViewportWidth * e.cfg.ThresholdFrac

	if off.X >= threshold {
		e.startExitLocked(ctx, DirectionRight)
		return
	}
	if off.X <= -threshold {
		e.startExitLocked(ctx, DirectionLeft)
		return
	}

	e.anim = &animation{
		kind:     animSpring,
		index:    e.cursor,
		from:     off,
		target:   Offset{},
		duration: time.Duration(e.cfg.SpringBackMS) * time.Millisecond,
	}
}

// Swipe commits a forced swipe without a drag, e.g. from the like/pass
// buttons. Ignored while another swipe is in flight or the deck is exhausted.
func (e *Engine) Swipe(ctx context.Context, dir Direction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.anim != nil || e.stateLocked() != StateReady {
		return
	}
	e.startExitLocked(ctx, dir)
}

func (e *Engine) startExitLocked(ctx context.Context, dir Direction) {
	targetX := e.cfg.ViewportWidth * e.cfg.SwipeOutFrac
	if dir == DirectionLeft {
		targetX = -targetX
	}

	e.anim = &animation{
		kind:     animExit,
		dir:      dir,
		index:    e.cursor,
		from:     e.offsets[e.cursor],
		target:   Offset{X: targetX},
		duration: time.Duration(e.cfg.SwipeOutMS) * time.Millisecond,
	}
	// Effects of the swipe are resolved against this context even if the
	// caller's gesture has long finished.
	e.pendingCtx = ctx
}

// Tick advances the in-flight animation by elapsed wall time. The embedder
// drives it from its frame loop; tests drive it directly. When an exit
// animation completes the swipe is committed: the cursor advances by exactly
// one, the swiped card id joins the session swiped-set, and the resolver
// effects are dispatched without blocking.
func (e *Engine) Tick(elapsed time.Duration) {
	e.mu.Lock()

	if e.anim == nil {
		e.mu.Unlock()
		return
	}

	a := e.anim
	a.elapsed += elapsed
	t := 1.0
	if a.elapsed < a.duration {
		t = float64(a.elapsed) / float64(a.duration)
	}
	if a.index < len(e.offsets) {
		e.offsets[a.index] = Offset{
			X: a.from.X + (a.target.X-a.from.X)*t,
			Y: a.from.Y + (a.target.Y-a.from.Y)*t,
		}
	}

	if t < 1.0 {
		e.mu.Unlock()
		return
	}

	e.anim = nil
	if a.kind == animSpring {
		e.mu.Unlock()
		return
	}

	effect := e.completeSwipeLocked(a.dir)
	e.mu.Unlock()
	if effect != nil {
		e.dispatch(effect)
	}
}

// completeSwipeLocked commits a finished exit animation. Local state advances
// optimistically: the returned effect closure carries the backend writes and
// runs after the lock is released, so their failure never rolls the cursor
// back and gesture handling is never blocked on them.
func (e *Engine) completeSwipeLocked(dir Direction) func() {
	if e.cursor >= len(e.deck) {
		return nil
	}

	card := e.deck[e.cursor]
	e.cursor++
	e.swiped[card.ID] = struct{}{}
	if e.cursor < len(e.offsets) {
		e.offsets[e.cursor] = Offset{}
	}

	ctx := e.pendingCtx
	if ctx == nil {
		ctx = context.Background()
	}
	e.pendingCtx = nil

	userID := ""
	if e.session != nil {
		userID = e.session.CurrentUserID()
	}

	e.effectWG.Add(1)
	return func() {
		defer e.effectWG.Done()
		e.resolve(ctx, dir, userID, card)
	}
}
