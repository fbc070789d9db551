package handlers

import (
	"net/http"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	friendsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/friends"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type FriendsHandler struct {
	service *friendsvc.Service
}

func NewFriendsHandler(service *friendsvc.Service) *FriendsHandler {
	return &FriendsHandler{service: service}
}

func (h *FriendsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FRIENDS_SERVICE_UNAVAILABLE", "friends service is unavailable")
		return
	}

	friends, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load friends")
		return
	}

	resp := dto.FriendsResponse{Friends: make([]dto.FriendResponse, 0, len(friends))}
	for _, f := range friends {
		resp.Friends = append(resp.Friends, dto.FriendResponse{
			PairKey:       f.PairKey,
			UserID:        f.UserID,
			DisplayName:   f.DisplayName,
			City:          f.City,
			Sports:        f.Sports,
			PhotoURL:      f.PhotoURL,
			MatchedAt:     f.MatchedAt,
			LastMessage:   f.LastMessage,
			LastMessageAt: f.LastMessageAt,
			UnreadCount:   f.UnreadCount,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *FriendsHandler) Matches(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FRIENDS_SERVICE_UNAVAILABLE", "friends service is unavailable")
		return
	}

	matches, err := h.service.Matches(r.Context(), identity.UserID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}

	resp := dto.MatchesResponse{Matches: make([]dto.MatchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, dto.MatchResponse{
			PairKey:   m.PairKey,
			BuddyID:   m.BuddyID,
			CreatedAt: m.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, resp)
}
