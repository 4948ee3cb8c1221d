package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/study"
)

// StudyHandler handles study flow and statistics HTTP requests.
type StudyHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.Service, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// GetStudyQueue handles GET /decks/{deck_id}/study-session requests.
func (h *StudyHandler) GetStudyQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	queue, err := h.studyService.GetStudyQueue(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, queue)
}

// SubmitAnswer handles POST /cards/{card_id}/answer requests.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := requirePathUUID(w, r, "card_id")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.studyService.SubmitReview(r.Context(), userID, itemID, req.Quality, req.TimeTakenMs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review recorded",
		slog.String("item_id", itemID.String()),
		slog.Int("quality", req.Quality))

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// CompleteSession handles POST /decks/{deck_id}/complete-session requests.
func (h *StudyHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	var result study.SessionResult
	if err := shared.DecodeJSON(r, &result); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(result); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	session, err := h.studyService.CompleteSession(r.Context(), userID, deckID, result)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// ResetDeck handles POST /decks/{deck_id}/reset requests.
func (h *StudyHandler) ResetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	if err := h.studyService.ResetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deck progress reset", slog.String("deck_id", deckID.String()))

	w.WriteHeader(http.StatusNoContent)
}

// TodayStats handles GET /decks/stats/today requests.
func (h *StudyHandler) TodayStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.studyService.TodayStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// WeekStats handles GET /decks/stats/week requests.
func (h *StudyHandler) WeekStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.studyService.WeekStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// SessionHistory handles GET /decks/stats/history requests. An optional
// limit query parameter caps the number of entries.
func (h *StudyHandler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.studyService.SessionHistory(r.Context(), userID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// ItemHistory handles GET /cards/{card_id}/history requests.
func (h *StudyHandler) ItemHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := requirePathUUID(w, r, "card_id")
	if !ok {
		return
	}

	records, err := h.studyService.ItemHistory(r.Context(), userID, itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, records)
}
