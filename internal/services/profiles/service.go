package profiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUnknownSport    = errors.New("unknown sport")
	ErrUnknownCity     = errors.New("unknown city")
)

const (
	minAge = 18
	maxAge = 120

	signedPhotoTTL = 15 * time.Minute
)

type ProfileStore interface {
	Get(ctx context.Context, userID string) (pgrepo.ProfileRecord, error)
	Upsert(ctx context.Context, rec pgrepo.ProfileRecord) error
}

type PhotoStorage interface {
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service struct {
	store   ProfileStore
	photos  PhotoStorage
	sports  map[string]struct{}
	cities  map[string]struct{}
	now     func() time.Time
}

type Dependencies struct {
	Store  ProfileStore
	Photos PhotoStorage
}

type Config struct {
	Sports []string
	Cities []string
}

type Input struct {
	DisplayName string
	Age         int
	Gender      string
	City        string
	Sports      []string
	Bio         string
}

type Profile struct {
	UserID      string
	DisplayName string
	Age         int
	Gender      string
	City        string
	Sports      []string
	Bio         string
	PhotoURL    string
	CreatedAt   time.Time
}

func NewService(deps Dependencies, cfg Config) *Service {
	sports := make(map[string]struct{}, len(cfg.Sports))
	for _, s := range cfg.Sports {
		sports[s] = struct{}{}
	}
	cities := make(map[string]struct{}, len(cfg.Cities))
	for _, c := range cfg.Cities {
		cities[c] = struct{}{}
	}

	return &Service{
		store:  deps.Store,
		photos: deps.Photos,
		sports: sports,
		cities: cities,
		now:    time.Now,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return Profile{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}

	return s.toProfile(ctx, rec), nil
}

func (s *Service) Update(ctx context.Context, userID string, in Input) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, fmt.Errorf("invalid user id: %w", ErrValidation)
	}
	if s.store == nil {
		return Profile{}, fmt.Errorf("profile store is nil")
	}

	normalized, err := s.normalize(in)
	if err != nil {
		return Profile{}, err
	}

	existing, err := s.store.Get(ctx, userID)
	if err != nil && !errors.Is(err, pgrepo.ErrProfileNotFound) {
		return Profile{}, fmt.Errorf("load profile before update: %w", err)
	}

	rec := pgrepo.ProfileRecord{
		UserID:      userID,
		DisplayName: normalized.DisplayName,
		Age:         normalized.Age,
		Gender:      normalized.Gender,
		City:        normalized.City,
		Sports:      normalized.Sports,
		Bio:         normalized.Bio,
		PhotoKey:    existing.PhotoKey,
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}

	return s.toProfile(ctx, rec), nil
}

// UploadPhoto stores the image and binds its key to the profile. The key is
// deterministic per user so re-uploads replace the previous photo.
func (s *Service) UploadPhoto(ctx context.Context, userID string, body io.Reader, size int64, contentType string) (string, error) {
	if strings.TrimSpace(userID) == "" || body == nil || size <= 0 {
		return "", ErrValidation
	}
	if s.store == nil || s.photos == nil {
		return "", fmt.Errorf("photo dependencies are not configured")
	}

	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return "", ErrProfileNotFound
		}
		return "", fmt.Errorf("load profile for photo: %w", err)
	}

	key := "photos/" + userID
	if err := s.photos.PutPhoto(ctx, key, body, size, contentType); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}

	rec.PhotoKey = key
	if err := s.store.Upsert(ctx, rec); err != nil {
		return "", fmt.Errorf("bind photo to profile: %w", err)
	}

	url, err := s.photos.PresignGet(ctx, key, signedPhotoTTL)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}

	return url, nil
}

func (s *Service) normalize(in Input) (Input, error) {
	out := Input{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Age:         in.Age,
		Gender:      strings.ToLower(strings.TrimSpace(in.Gender)),
		City:        strings.TrimSpace(in.City),
		Bio:         strings.TrimSpace(in.Bio),
	}

	if out.DisplayName == "" {
		return Input{}, fmt.Errorf("display name is required: %w", ErrValidation)
	}
	if out.Age < minAge || out.Age > maxAge {
		return Input{}, fmt.Errorf("age out of range: %w", ErrValidation)
	}
	if out.Gender != "male" && out.Gender != "female" && out.Gender != "other" {
		return Input{}, fmt.Errorf("unsupported gender: %w", ErrValidation)
	}
	if out.City != "" {
		if _, ok := s.cities[out.City]; !ok {
			return Input{}, ErrUnknownCity
		}
	}
	if len(in.Sports) == 0 {
		return Input{}, fmt.Errorf("at least one sport is required: %w", ErrValidation)
	}

	seen := make(map[string]struct{}, len(in.Sports))
	for _, sport := range in.Sports {
		sport = strings.TrimSpace(sport)
		if sport == "" {
			continue
		}
		if _, ok := s.sports[sport]; !ok {
			return Input{}, fmt.Errorf("%w: %s", ErrUnknownSport, sport)
		}
		if _, dup := seen[sport]; dup {
			continue
		}
		seen[sport] = struct{}{}
		out.Sports = append(out.Sports, sport)
	}
	if len(out.Sports) == 0 {
		return Input{}, fmt.Errorf("at least one sport is required: %w", ErrValidation)
	}

	return out, nil
}

func (s *Service) toProfile(ctx context.Context, rec pgrepo.ProfileRecord) Profile {
	p := Profile{
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		Age:         rec.Age,
		Gender:      rec.Gender,
		City:        rec.City,
		Sports:      rec.Sports,
		Bio:         rec.Bio,
		CreatedAt:   rec.CreatedAt,
	}

	if rec.PhotoKey != "" && s.photos != nil {
		if url, err := s.photos.PresignGet(ctx, rec.PhotoKey, signedPhotoTTL); err == nil {
			p.PhotoURL = url
		}
	}

	return p
}
