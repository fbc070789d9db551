package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	venuesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/venues"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type VenuesHandler struct {
	service *venuesvc.Service
}

func NewVenuesHandler(service *venuesvc.Service) *VenuesHandler {
	return &VenuesHandler{service: service}
}

func (h *VenuesHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VENUES_SERVICE_UNAVAILABLE", "venues service is unavailable")
		return
	}

	kind := strings.TrimSpace(chi.URLParam(r, "kind"))
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "lat and lon are required")
		return
	}

	venues, err := h.service.Nearby(r.Context(), kind, lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, venuesvc.ErrUnknownKind):
			writeNotFound(w, "UNKNOWN_VENUE_KIND", "unsupported venue kind")
		case errors.Is(err, venuesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid coordinates")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load venues")
		}
		return
	}

	resp := dto.VenuesResponse{Kind: kind, Venues: make([]dto.VenueResponse, 0, len(venues))}
	for _, v := range venues {
		resp.Venues = append(resp.Venues, dto.VenueResponse{
			ID:        v.ID,
			Name:      v.Name,
			Lat:       v.Lat,
			Lon:       v.Lon,
			DistanceM: v.DistanceM,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}
