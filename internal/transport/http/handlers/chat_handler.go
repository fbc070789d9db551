package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	chatsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/chats"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, pairKey, ok := h.requireChat(w, r)
	if !ok {
		return
	}

	var req dto.ChatSendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), pairKey, identity.UserID, req.Body)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toChatMessage(msg))
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, pairKey, ok := h.requireChat(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid limit")
			return
		}
		limit = n
	}

	messages, err := h.service.History(r.Context(), pairKey, identity.UserID, limit)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	resp := dto.ChatHistoryResponse{Messages: make([]dto.ChatMessageResponse, 0, len(messages))}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, toChatMessage(msg))
	}

	httperrors.Write(w, http.StatusOK, resp)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, pairKey, ok := h.requireChat(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), pairKey, identity.UserID); err != nil {
		h.writeChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *ChatHandler) requireChat(w http.ResponseWriter, r *http.Request) (authsvc.Identity, string, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, "", false
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return authsvc.Identity{}, "", false
	}

	pairKey := strings.TrimSpace(chi.URLParam(r, "pair_key"))
	if pairKey == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "pair_key is required")
		return authsvc.Identity{}, "", false
	}

	return identity, pairKey, true
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "no match for this chat")
	case errors.Is(err, chatsvc.ErrNotMember):
		writeForbidden(w, "NOT_A_MEMBER", "you are not part of this chat")
	case errors.Is(err, chatsvc.ErrChatClosed):
		writeForbidden(w, "CHAT_CLOSED", "this chat has been closed")
	case errors.Is(err, chatsvc.ErrBodyTooLong):
		writeBadRequest(w, "VALIDATION_ERROR", "message body too long")
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "chat operation failed")
	}
}

func toChatMessage(msg chatsvc.Message) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		ID:        msg.ID.String(),
		PairKey:   msg.PairKey,
		SenderID:  msg.SenderID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}
