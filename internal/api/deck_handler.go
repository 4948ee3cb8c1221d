package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/deck"
)

// DeckHandler handles deck management HTTP requests.
type DeckHandler struct {
	deckService deck.Service
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService deck.Service, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeckHandler")
	}

	return &DeckHandler{
		deckService: deckService,
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var input deck.CreateDeckInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(input); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.deckService.CreateDeck(r.Context(), userID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deck created",
		slog.String("deck_id", created.ID.String()),
		slog.String("user_id", userID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// GetDeck handles GET /decks/{deck_id} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	overview, err := h.deckService.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// ListMyDecks handles GET /decks/my requests.
func (h *DeckHandler) ListMyDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overviews, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overviews)
}

// ListPublicDecks handles GET /decks/public requests. It is the discovery
// listing for decks available to clone.
func (h *DeckHandler) ListPublicDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overviews, err := h.deckService.ListPublicDecks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overviews)
}

// UpdateDeck handles PUT /decks/{deck_id} requests.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	var input deck.UpdateDeckInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(input); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	updated, err := h.deckService.UpdateDeck(r.Context(), userID, deckID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// DeleteDeck handles DELETE /decks/{deck_id} requests.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))

	w.WriteHeader(http.StatusNoContent)
}

// CloneDeck handles POST /decks/{deck_id}/clone requests.
func (h *DeckHandler) CloneDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	deckID, ok := requirePathUUID(w, r, "deck_id")
	if !ok {
		return
	}

	clone, err := h.deckService.CloneDeck(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, clone)
}

// ListTeacherDecks handles GET /decks/my-teachers-decks requests. It returns
// the decks the student joined through invitations.
func (h *DeckHandler) ListTeacherDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overviews, err := h.deckService.ListTeacherDecksForStudent(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overviews)
}
