package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/application-project-group16/sportbuddies/backend/internal/config"
	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	chatsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/chats"
	feedsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/feed"
	friendsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/friends"
	profilesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/profiles"
	reportsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/reports"
	statsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/stats"
	swipesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/swipes"
	venuesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/venues"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager     *authsvc.JWTManager
	ProfileService *profilesvc.Service
	FeedService    *feedsvc.Service
	SwipeService   *swipesvc.Service
	FriendsService *friendsvc.Service
	ChatService    *chatsvc.Service
	ReportService  *reportsvc.Service
	VenueService   *venuesvc.Service
	StatsService   *statsvc.Service
	Logger         *zap.Logger
	Config         config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	configHandler := handlers.NewConfigHandler(deps.Config.Catalog)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	candidateHandler := handlers.NewCandidateHandler(deps.FeedService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	friendsHandler := handlers.NewFriendsHandler(deps.FriendsService)
	chatHandler := handlers.NewChatHandler(deps.ChatService)
	reportHandler := handlers.NewReportHandler(deps.ReportService)
	venuesHandler := handlers.NewVenuesHandler(deps.VenueService)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)
	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Handle)
		r.Get("/stats/community", statsHandler.Community)

		r.With(authMW).Get("/profile", profileHandler.Get)
		r.With(authMW).Put("/profile", profileHandler.Update)
		r.With(authMW).Post("/profile/photo", profileHandler.PhotoUpload)
		r.With(authMW).Get("/candidates", candidateHandler.List)
		r.With(authMW).Post("/swipes", swipeHandler.Handle)
		r.With(authMW).Get("/friends", friendsHandler.List)
		r.With(authMW).Get("/matches", friendsHandler.Matches)
		r.With(authMW).Get("/stats/me", statsHandler.Me)
		r.With(authMW).Get("/venues/{kind}", venuesHandler.Nearby)

		r.Route("/chats/{pair_key}", func(r chi.Router) {
			r.Use(authMW)
			r.Get("/messages", chatHandler.History)
			r.Post("/messages", chatHandler.Send)
			r.Post("/read", chatHandler.MarkRead)
			r.Post("/report", reportHandler.Report)
		})
	})
}
