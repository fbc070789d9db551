package deck

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	matchdomain "github.com/application-project-group16/sportbuddies/backend/internal/domain/match"
)

// FailedOp is a backend effect that did not go through. The deck has already
// advanced past the card, so the embedder decides whether to retry; the
// engine only keeps the evidence.
type FailedOp struct {
	Op       string // "record_like", "fetch_like_set", "create_match"
	UserID   string
	TargetID string
	Err      error
}

// resolve runs the backend effects of one completed swipe. A pass is purely
// local. A like records the edge, re-reads the target's like set fresh, and
// on reciprocity creates the pair-keyed match record. Every failure here is
// non-fatal: the cursor stays where it is and the failure lands on the
// failed-ops list. Consecutive swipes may resolve out of order; each operates
// on an independent card and the match record is idempotent under the pair
// key, so reordering is safe.
func (e *Engine) resolve(ctx context.Context, dir Direction, userID string, card Profile) {
	if dir != DirectionRight || userID == "" {
		return
	}
	if e.likes == nil || e.matches == nil {
		return
	}

	if err := e.likes.RecordLike(ctx, userID, card.ID); err != nil {
		e.recordFailure(FailedOp{
			Op:       "record_like",
			UserID:   userID,
			TargetID: card.ID,
			Err:      fmt.Errorf("%w: %v", ErrWrite, err),
		})
		return
	}

	// Fresh read: the target may have liked us after our pool snapshot.
	likeSet, err := e.likes.FetchLikeSet(ctx, card.ID)
	if err != nil {
		// Conservative: no match detected for this swipe. The other
		// side's swipe can still surface it later.
		e.recordFailure(FailedOp{
			Op:       "fetch_like_set",
			UserID:   userID,
			TargetID: card.ID,
			Err:      fmt.Errorf("%w: %v", ErrRead, err),
		})
		return
	}
	if _, reciprocal := likeSet[userID]; !reciprocal {
		return
	}

	userA, userB := matchdomain.SortPair(userID, card.ID)
	created, err := e.matches.CreateIfAbsent(ctx, matchdomain.PairKey(userID, card.ID), userA, userB)
	if err != nil {
		e.recordFailure(FailedOp{
			Op:       "create_match",
			UserID:   userID,
			TargetID: card.ID,
			Err:      fmt.Errorf("%w: %v", ErrWrite, err),
		})
		return
	}
	if created && e.events != nil {
		e.events.NewMatch(userA, userB)
	}
}

func (e *Engine) recordFailure(op FailedOp) {
	e.mu.Lock()
	e.failed = append(e.failed, op)
	e.mu.Unlock()

	if e.log != nil {
		e.log.Warn("swipe backend effect failed",
			zap.String("op", op.Op),
			zap.String("target_id", op.TargetID),
			zap.Error(op.Err),
		)
	}
}

// FailedOps returns a copy of the retryable failure list accumulated this
// session.
func (e *Engine) FailedOps() []FailedOp {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]FailedOp(nil), e.failed...)
}

// DrainFailedOps returns the failure list and clears it, for embedders that
// implement their own retry.
func (e *Engine) DrainFailedOps() []FailedOp {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.failed
	e.failed = nil
	return out
}
