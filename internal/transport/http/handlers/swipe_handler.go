package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	swipesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/swipes"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.TargetID) == "" || strings.TrimSpace(req.Direction) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and direction are required")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Direction)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrSelfSwipe):
			writeBadRequest(w, "VALIDATION_ERROR", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrUnsupportedGesture):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported swipe direction")
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:           true,
		Liked:        result.Liked,
		MatchCreated: result.MatchCreated,
		PairKey:      result.PairKey,
	})
}
