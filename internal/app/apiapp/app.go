package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/application-project-group16/sportbuddies/backend/internal/config"
	"github.com/application-project-group16/sportbuddies/backend/internal/infra/overpass"
	s3infra "github.com/application-project-group16/sportbuddies/backend/internal/infra/s3"
	pgrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/postgres"
	redrepo "github.com/application-project-group16/sportbuddies/backend/internal/repo/redis"
	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	chatsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/chats"
	feedsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/feed"
	friendsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/friends"
	mediasvc "github.com/application-project-group16/sportbuddies/backend/internal/services/media"
	profilesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/profiles"
	reportsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/reports"
	statsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/stats"
	swipesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/swipes"
	venuesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/venues"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

// New wires the whole API. Missing infrastructure degrades instead of
// aborting startup: endpoints backed by the missing piece fail per-request
// while the rest of the API keeps serving.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if c, err := redrepo.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis init failed, venue caching disabled", zap.Error(err))
	} else {
		redisClient = c
	}

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, photo storage disabled", zap.Error(err))
	} else {
		s3Client = c
	}

	profileRepo := pgrepo.NewProfileRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	chatRepo := pgrepo.NewChatRepo(pool)
	reportRepo := pgrepo.NewReportRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	statsRepo := pgrepo.NewStatsRepo(pool)
	venueCache := redrepo.NewVenueCacheRepo(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	mediaStorage := mediasvc.NewStorage(s3Client, cfg.S3.Bucket)

	profileService := profilesvc.NewService(profilesvc.Dependencies{
		Store:  profileRepo,
		Photos: mediaStorage,
	}, profilesvc.Config{
		Sports: cfg.Catalog.Sports,
		Cities: cfg.Catalog.Cities,
	})
	photoResolver := newPhotoResolver(mediaStorage)
	feedService := feedsvc.NewService(feedsvc.Dependencies{
		Candidates: profileRepo,
		Photos:     photoResolver,
		Blocks:     blockRepo,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:       pool,
		LikeStore:  likeRepo,
		MatchStore: matchRepo,
		Logger:     log,
	})
	friendsService := friendsvc.NewService(friendsvc.Dependencies{
		Matches:  matchRepo,
		Profiles: profileRepo,
		Chats:    chatRepo,
		Photos:   photoResolver,
	})
	chatService := chatsvc.NewService(chatsvc.Dependencies{
		Chats:   chatRepo,
		Matches: matchRepo,
	})
	reportService := reportsvc.NewService(reportsvc.Dependencies{
		Pool:    pool,
		Reports: reportRepo,
		Blocks:  blockRepo,
		Chats:   chatRepo,
		Matches: matchRepo,
		Logger:  log,
	})
	venueService := venuesvc.NewService(venuesvc.Dependencies{
		Source: overpass.NewClient(cfg.Venues.OverpassEndpoint, cfg.Venues.QueryTimeout),
		Cache:  venueCache,
		Logger: log,
	}, venuesvc.Config{
		SearchRadiusM: cfg.Venues.SearchRadiusM,
		CacheTTL:      cfg.Venues.CacheTTL,
	})
	statsService := statsvc.NewService(statsRepo)

	RegisterRoutes(r, Dependencies{
		JWTManager:     jwtManager,
		ProfileService: profileService,
		FeedService:    feedService,
		SwipeService:   swipeService,
		FriendsService: friendsService,
		ChatService:    chatService,
		ReportService:  reportService,
		VenueService:   venueService,
		StatsService:   statsService,
		Logger:         log,
		Config:         cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

// photoResolver adapts the media storage presign call to the read-only
// resolver shape the feed and friends services consume.
type photoResolver struct {
	storage *mediasvc.Storage
}

func newPhotoResolver(storage *mediasvc.Storage) photoResolver {
	return photoResolver{storage: storage}
}

func (p photoResolver) ResolvePhotoURL(ctx context.Context, photoKey string) string {
	url, err := p.storage.PresignGet(ctx, photoKey, 0)
	if err != nil {
		return ""
	}
	return url
}
