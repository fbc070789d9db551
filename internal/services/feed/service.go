package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/application-project-group16/sportbuddies/backend/internal/deck"
	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type CandidateStore interface {
	ListCandidates(ctx context.Context, viewerID string) ([]pgrepo.ProfileRecord, error)
}

type PhotoURLResolver interface {
	ResolvePhotoURL(ctx context.Context, photoKey string) string
}

type BlockStore interface {
	ListBlockedIDs(ctx context.Context, actorID string) (map[string]struct{}, error)
}

// Service serves the candidate pool the swipe deck is built from. Filtering
// matches what the deck applies locally, so a filtered fetch and a local
// recompute agree on the same set.
type Service struct {
	candidates CandidateStore
	photos     PhotoURLResolver
	blocks     BlockStore
}

type Dependencies struct {
	Candidates CandidateStore
	Photos     PhotoURLResolver
	Blocks     BlockStore
}

func NewService(deps Dependencies) *Service {
	return &Service{
		candidates: deps.Candidates,
		photos:     deps.Photos,
		blocks:     deps.Blocks,
	}
}

func (s *Service) Candidates(ctx context.Context, viewerID string, filter deck.FilterState) ([]deck.Profile, error) {
	if strings.TrimSpace(viewerID) == "" {
		return nil, ErrValidation
	}
	if s.candidates == nil {
		return nil, fmt.Errorf("candidate store is nil")
	}

	records, err := s.candidates.ListCandidates(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	blocked := map[string]struct{}{}
	if s.blocks != nil {
		blocked, err = s.blocks.ListBlockedIDs(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("load blocked ids: %w", err)
		}
	}

	out := make([]deck.Profile, 0, len(records))
	for _, rec := range records {
		if rec.UserID == "" || rec.UserID == viewerID || rec.Sports == nil {
			continue
		}
		if _, isBlocked := blocked[rec.UserID]; isBlocked {
			continue
		}

		p := deck.Profile{
			ID:     rec.UserID,
			Name:   rec.DisplayName,
			Age:    rec.Age,
			Gender: rec.Gender,
			City:   rec.City,
			Sports: rec.Sports,
		}
		if rec.PhotoKey != "" && s.photos != nil {
			p.ImageURL = s.photos.ResolvePhotoURL(ctx, rec.PhotoKey)
		}
		if !filter.Matches(p) {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}
