package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/application-project-group16/sportbuddies/backend/internal/deck"
	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	feedsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/feed"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type CandidateHandler struct {
	service *feedsvc.Service
}

func NewCandidateHandler(service *feedsvc.Service) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// List serves the filtered candidate pool. Filter predicates arrive as query
// parameters; absent parameters leave the predicate off.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid filter parameters")
		return
	}

	candidates, err := h.service.Candidates(r.Context(), identity.UserID, filter)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load candidates")
		return
	}

	resp := dto.CandidatesResponse{Candidates: make([]dto.CandidateResponse, 0, len(candidates))}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateResponse{
			ID:       c.ID,
			Name:     c.Name,
			Age:      c.Age,
			Gender:   c.Gender,
			City:     c.City,
			Sports:   c.Sports,
			ImageURL: c.ImageURL,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func filterFromQuery(r *http.Request) (deck.FilterState, error) {
	q := r.URL.Query()
	filter := deck.FilterState{
		Gender: strings.TrimSpace(q.Get("gender")),
		City:   strings.TrimSpace(q.Get("city")),
	}

	if raw := strings.TrimSpace(q.Get("sports")); raw != "" {
		for _, sport := range strings.Split(raw, ",") {
			if sport = strings.TrimSpace(sport); sport != "" {
				filter.Sports = append(filter.Sports, sport)
			}
		}
	}

	if raw := strings.TrimSpace(q.Get("min_age")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return deck.FilterState{}, err
		}
		filter.MinAge = &n
	}
	if raw := strings.TrimSpace(q.Get("max_age")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return deck.FilterState{}, err
		}
		filter.MaxAge = &n
	}

	return filter, nil
}
