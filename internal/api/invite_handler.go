package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/invite"
	"github.com/google/uuid"
)

// InviteHandler handles invitation and teacher dashboard HTTP requests.
type InviteHandler struct {
	inviteService invite.Service
	logger        *slog.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(inviteService invite.Service, logger *slog.Logger) *InviteHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for InviteHandler")
	}

	return &InviteHandler{
		inviteService: inviteService,
		logger:        logger.With(slog.String("component", "invite_handler")),
	}
}

// CreateInvitation handles POST /teacher/invitations/create requests.
func (h *InviteHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	summary, err := h.inviteService.CreateOrGet(r.Context(), userID, req.DeckID, req.MaxUses, req.ExpiresInDays)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("invitation issued",
		slog.String("deck_id", req.DeckID.String()),
		slog.String("teacher_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, summary)
}

// ListMyInvitations handles GET /teacher/invitations/my requests.
func (h *InviteHandler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summaries, err := h.inviteService.ListMine(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// DeactivateInvitation handles DELETE /teacher/invitations/{invitation_id}.
func (h *InviteHandler) DeactivateInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	invitationID, ok := requirePathUUID(w, r, "invitation_id")
	if !ok {
		return
	}

	if err := h.inviteService.Deactivate(r.Context(), userID, invitationID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListStudents handles GET /teacher/students requests. An optional deck_id
// query parameter narrows the listing to one deck.
func (h *InviteHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var deckID *uuid.UUID
	if raw := r.URL.Query().Get("deck_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id")
			return
		}
		deckID = &parsed
	}

	students, err := h.inviteService.ListStudents(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, students)
}

// StudentProgress handles GET /teacher/students/{student_id}/progress
// requests. The deck is named by a required deck_id query parameter.
func (h *InviteHandler) StudentProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	studentID, ok := requirePathUUID(w, r, "student_id")
	if !ok {
		return
	}

	raw := r.URL.Query().Get("deck_id")
	deckID, err := uuid.Parse(raw)
	if raw == "" || err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id")
		return
	}

	report, err := h.inviteService.StudentProgress(r.Context(), userID, studentID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// JoinByCode handles POST /teacher/join requests. Students redeem an
// invitation code for deck access.
func (h *InviteHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req JoinByCodeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.inviteService.Redeem(r.Context(), userID, req.Code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyJoined {
		status = http.StatusOK
	}

	log.Debug("invitation redeemed",
		slog.String("student_id", userID.String()),
		slog.Bool("already_joined", result.AlreadyJoined))

	shared.RespondWithJSON(w, r, status, result)
}
