package venues

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/application-project-group16/sportbuddies/backend/internal/domain/geo"
	"github.com/application-project-group16/sportbuddies/backend/internal/infra/overpass"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrUnknownKind = errors.New("unknown venue kind")
)

// kindSelectors maps a venue kind to the OpenStreetMap node selectors its
// union query is built from.
var kindSelectors = map[string][]string{
	"gyms": {
		`node["leisure"="fitness_centre"]`,
		`node["amenity"="gym"]`,
	},
	"swimming_pools": {
		`node["leisure"="swimming_pool"]`,
		`node["sport"="swimming"]`,
	},
	"climbing_gyms": {
		`node["leisure"="sports_centre"]`,
		`node["sport"="climbing"]`,
	},
}

type Venue struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	DistanceM float64 `json:"distance_m"`
}

type NodeSource interface {
	NodesAround(ctx context.Context, selectors []string, lat, lon float64, radiusM int) ([]overpass.Node, error)
}

type Cache interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Config struct {
	SearchRadiusM int
	CacheTTL      time.Duration
}

type Service struct {
	source NodeSource
	cache  Cache
	cfg    Config
	log    *zap.Logger
}

type Dependencies struct {
	Source NodeSource
	Cache  Cache
	Logger *zap.Logger
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.SearchRadiusM <= 0 {
		cfg.SearchRadiusM = 5000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		source: deps.Source,
		cache:  deps.Cache,
		cfg:    cfg,
		log:    log,
	}
}

func Kinds() []string {
	return []string{"gyms", "swimming_pools", "climbing_gyms"}
}

// Nearby returns venues of one kind around the point, nearest first.
// Results are cached per kind and rounded location; a cache failure only
// logs, the upstream query is the source of truth.
func (s *Service) Nearby(ctx context.Context, kind string, lat, lon float64) ([]Venue, error) {
	kind = strings.TrimSpace(kind)
	selectors, ok := kindSelectors[kind]
	if !ok {
		return nil, ErrUnknownKind
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, ErrValidation
	}
	if s.source == nil {
		return nil, fmt.Errorf("venue source is nil")
	}

	key := cacheKey(kind, lat, lon)
	if s.cache != nil {
		var cached []Venue
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("venue cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	nodes, err := s.source.NodesAround(ctx, selectors, lat, lon, s.cfg.SearchRadiusM)
	if err != nil {
		return nil, fmt.Errorf("query venues: %w", err)
	}

	out := make([]Venue, 0, len(nodes))
	for _, node := range nodes {
		name := node.Tags["name"]
		if name == "" {
			name = "Unnamed venue"
		}
		out = append(out, Venue{
			ID:        node.ID,
			Name:      name,
			Lat:       node.Lat,
			Lon:       node.Lon,
			DistanceM: geo.DistanceM(lat, lon, node.Lat, node.Lon),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceM < out[j].DistanceM })

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cfg.CacheTTL); err != nil {
			s.log.Warn("venue cache write failed", zap.Error(err))
		}
	}

	return out, nil
}

// cacheKey rounds coordinates to ~1km cells so nearby lookups share entries.
func cacheKey(kind string, lat, lon float64) string {
	return fmt.Sprintf("%s:%.2f:%.2f", kind, lat, lon)
}
