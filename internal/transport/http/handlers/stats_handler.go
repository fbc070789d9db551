package handlers

import (
	"net/http"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	statsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/stats"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type StatsHandler struct {
	service *statsvc.Service
}

func NewStatsHandler(service *statsvc.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.service.ForUser(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UserStatsResponse{
		LikesGiven:    stats.LikesGiven,
		LikesReceived: stats.LikesReceived,
		Matches:       stats.Matches,
	})
}

func (h *StatsHandler) Community(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	counts, err := h.service.Community(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load community stats")
		return
	}

	resp := dto.CommunityStatsResponse{Sports: make([]dto.SportCountResponse, 0, len(counts))}
	for _, c := range counts {
		resp.Sports = append(resp.Sports, dto.SportCountResponse{Sport: c.Sport, Users: c.Users})
	}

	httperrors.Write(w, http.StatusOK, resp)
}
