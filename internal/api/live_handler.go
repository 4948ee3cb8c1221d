package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/live"
	"github.com/google/uuid"
)

// LiveHandler handles live quiz session HTTP requests. The session join,
// answer, status and card routes are unauthenticated; players are identified
// by nickname only.
type LiveHandler struct {
	liveService live.Service
	logger      *slog.Logger
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(liveService live.Service, logger *slog.Logger) *LiveHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LiveHandler")
	}

	return &LiveHandler{
		liveService: liveService,
		logger:      logger.With(slog.String("component", "live_handler")),
	}
}

// CreateSession handles POST /live/create requests.
func (h *LiveHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	info, err := h.liveService.Create(r.Context(), userID, req.DeckID, req.MaxParticipants)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("live session created",
		slog.String("session_id", info.Session.ID.String()),
		slog.String("teacher_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, info)
}

// JoinSession handles POST /live/join requests. No authentication; a code
// and nickname are the whole identity.
func (h *LiveHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req JoinSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.liveService.Join(r.Context(), req.Code, req.Nickname)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// StartSession handles POST /live/{session_id}/start requests.
func (h *LiveHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.liveService.Start)
}

// ReviewSession handles POST /live/{session_id}/review requests.
func (h *LiveHandler) ReviewSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.liveService.Review)
}

// FinishSession handles POST /live/{session_id}/finish requests.
func (h *LiveHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.liveService.Finish)
}

// CancelSession handles POST /live/{session_id}/cancel requests.
func (h *LiveHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.liveService.Cancel)
}

// transition runs one teacher-gated lifecycle move and writes the outcome.
func (h *LiveHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	move func(ctx context.Context, teacherID, sessionID uuid.UUID) error,
) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := requirePathUUID(w, r, "session_id")
	if !ok {
		return
	}

	if err := move(r.Context(), userID, sessionID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitAnswer handles POST /live/{session_id}/answer requests. No
// authentication; the nickname in the body identifies the participant.
func (h *LiveHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requirePathUUID(w, r, "session_id")
	if !ok {
		return
	}

	var req LiveAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.liveService.SubmitAnswer(
		r.Context(), sessionID, req.Nickname, req.ItemID, req.Correct, req.TimeTakenMs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SessionStats handles GET /live/{session_id}/stats requests.
func (h *LiveHandler) SessionStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sessionID, ok := requirePathUUID(w, r, "session_id")
	if !ok {
		return
	}

	stats, err := h.liveService.Stats(r.Context(), userID, sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// SessionStatus handles GET /live/{session_id}/status requests. Players
// poll this while waiting for the game to start.
func (h *LiveHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requirePathUUID(w, r, "session_id")
	if !ok {
		return
	}

	status, err := h.liveService.Status(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionStatusResponse{Status: status})
}

// SessionCards handles GET /live/{session_id}/cards requests. Players fetch
// the questions by session rather than by deck.
func (h *LiveHandler) SessionCards(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requirePathUUID(w, r, "session_id")
	if !ok {
		return
	}

	items, err := h.liveService.SessionItems(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// SessionHistory handles GET /live/history requests.
func (h *LiveHandler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entries, err := h.liveService.History(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
