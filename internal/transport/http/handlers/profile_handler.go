package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	profilesvc "github.com/application-project-group16/sportbuddies/backend/internal/services/profiles"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

const maxPhotoUploadBytes = 10 << 20

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrProfileNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile does not exist yet")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, profilesvc.Input{
		DisplayName: req.DisplayName,
		Age:         req.Age,
		Gender:      req.Gender,
		City:        req.City,
		Sports:      req.Sports,
		Bio:         req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrUnknownSport):
			writeBadRequest(w, "UNKNOWN_SPORT", "sport is not in the catalog")
		case errors.Is(err, profilesvc.ErrUnknownCity):
			writeBadRequest(w, "UNKNOWN_CITY", "city is not in the catalog")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxPhotoUploadBytes)
	defer func() { _ = body.Close() }()

	url, err := h.service.UploadPhoto(r.Context(), identity.UserID, body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "create a profile before uploading a photo")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to store photo")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoUploadResponse{OK: true, PhotoURL: url})
}

func toProfileResponse(p profilesvc.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Age:         p.Age,
		Gender:      p.Gender,
		City:        p.City,
		Sports:      p.Sports,
		Bio:         p.Bio,
		PhotoURL:    p.PhotoURL,
		CreatedAt:   p.CreatedAt,
	}
}
