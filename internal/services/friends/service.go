package friends

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

const defaultListLimit = 100

type MatchStore interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]pgrepo.MatchRecord, error)
}

type ProfileStore interface {
	GetMany(ctx context.Context, userIDs []string) (map[string]pgrepo.ProfileRecord, error)
}

type ChatStore interface {
	ListSummaries(ctx context.Context, userID string, pairKeys []string) (map[string]pgrepo.ChatSummaryRecord, error)
}

type PhotoURLResolver interface {
	ResolvePhotoURL(ctx context.Context, photoKey string) string
}

// Friend is one row of the friends screen: the matched buddy plus chat
// activity for ordering and the unread badge.
type Friend struct {
	PairKey       string
	UserID        string
	DisplayName   string
	City          string
	Sports        []string
	PhotoURL      string
	MatchedAt     time.Time
	LastMessage   string
	LastMessageAt time.Time
	UnreadCount   int
}

type Service struct {
	matches  MatchStore
	profiles ProfileStore
	chats    ChatStore
	photos   PhotoURLResolver
}

type Dependencies struct {
	Matches  MatchStore
	Profiles ProfileStore
	Chats    ChatStore
	Photos   PhotoURLResolver
}

func NewService(deps Dependencies) *Service {
	return &Service{
		matches:  deps.Matches,
		profiles: deps.Profiles,
		chats:    deps.Chats,
		photos:   deps.Photos,
	}
}

// List aggregates matches, buddy profiles and chat summaries into the
// friends screen payload, ordered by most recent activity. A match whose
// counterpart profile has been deleted is dropped rather than rendered
// half-empty.
func (s *Service) List(ctx context.Context, userID string) ([]Friend, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	if s.matches == nil || s.profiles == nil {
		return nil, fmt.Errorf("friends dependencies are not configured")
	}

	matches, err := s.matches.ListForUser(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		return []Friend{}, nil
	}

	buddyIDs := make([]string, 0, len(matches))
	pairKeys := make([]string, 0, len(matches))
	for _, m := range matches {
		pairKeys = append(pairKeys, m.PairKey)
		buddyIDs = append(buddyIDs, counterpart(m, userID))
	}

	profiles, err := s.profiles.GetMany(ctx, buddyIDs)
	if err != nil {
		return nil, fmt.Errorf("load buddy profiles: %w", err)
	}

	summaries := map[string]pgrepo.ChatSummaryRecord{}
	if s.chats != nil {
		summaries, err = s.chats.ListSummaries(ctx, userID, pairKeys)
		if err != nil {
			return nil, fmt.Errorf("load chat summaries: %w", err)
		}
	}

	out := make([]Friend, 0, len(matches))
	for _, m := range matches {
		buddyID := counterpart(m, userID)
		profile, ok := profiles[buddyID]
		if !ok {
			continue
		}

		f := Friend{
			PairKey:     m.PairKey,
			UserID:      buddyID,
			DisplayName: profile.DisplayName,
			City:        profile.City,
			Sports:      profile.Sports,
			MatchedAt:   m.CreatedAt,
		}
		if profile.PhotoKey != "" && s.photos != nil {
			f.PhotoURL = s.photos.ResolvePhotoURL(ctx, profile.PhotoKey)
		}
		if summary, ok := summaries[m.PairKey]; ok {
			f.LastMessage = summary.LastMessage
			f.LastMessageAt = summary.LastMessageAt
			f.UnreadCount = summary.UnreadCount
		}
		out = append(out, f)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lastActivity(out[i]).After(lastActivity(out[j]))
	})

	return out, nil
}

// Match is one raw match record from the viewer's perspective.
type Match struct {
	PairKey   string
	BuddyID   string
	CreatedAt time.Time
}

// Matches returns the viewer's raw match records, newest first, without the
// profile and chat enrichment List performs.
func (s *Service) Matches(ctx context.Context, userID string) ([]Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation
	}
	if s.matches == nil {
		return nil, fmt.Errorf("friends dependencies are not configured")
	}

	records, err := s.matches.ListForUser(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]Match, 0, len(records))
	for _, m := range records {
		out = append(out, Match{
			PairKey:   m.PairKey,
			BuddyID:   counterpart(m, userID),
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func lastActivity(f Friend) time.Time {
	if f.LastMessageAt.After(f.MatchedAt) {
		return f.LastMessageAt
	}
	return f.MatchedAt
}

func counterpart(m pgrepo.MatchRecord, userID string) string {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
