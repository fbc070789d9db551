package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/auth"
	reportsvc "github.com/application-project-group16/sportbuddies/backend/internal/services/reports"
	"github.com/application-project-group16/sportbuddies/backend/internal/transport/http/dto"
	httperrors "github.com/application-project-group16/sportbuddies/backend/internal/transport/http/errors"
)

type ReportHandler struct {
	service *reportsvc.Service
}

func NewReportHandler(service *reportsvc.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// Report files a report against the chat counterpart; the service blocks the
// counterpart for the reporter and closes the chat.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "REPORT_SERVICE_UNAVAILABLE", "report service is unavailable")
		return
	}

	pairKey := strings.TrimSpace(chi.URLParam(r, "pair_key"))
	if pairKey == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "pair_key is required")
		return
	}

	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	if err := h.service.Report(r.Context(), pairKey, identity.UserID, req.Reason); err != nil {
		h.writeReportError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportResponse{OK: true})
}

func (h *ReportHandler) writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reportsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "no match for this chat")
	case errors.Is(err, reportsvc.ErrNotMember):
		writeForbidden(w, "NOT_A_MEMBER", "you are not part of this chat")
	case errors.Is(err, reportsvc.ErrUnknownReason):
		writeBadRequest(w, "UNKNOWN_REASON", "unsupported report reason")
	case errors.Is(err, reportsvc.ErrNoMessagesYet):
		writeBadRequest(w, "NO_MESSAGES_YET", "chat partner has not sent a message yet")
	case errors.Is(err, reportsvc.ErrAlreadyReported):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{
			Code:    "ALREADY_REPORTED",
			Message: "you already reported this chat",
		})
	case errors.Is(err, reportsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "report operation failed")
	}
}
