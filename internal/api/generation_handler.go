package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/media"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
)

// GeneratePreviewResponse carries the drafts produced for one preview
// request. Exactly one of Cards and Quiz is populated, matching the
// requested content type.
type GeneratePreviewResponse struct {
	ContentType domain.ContentType     `json:"content_type"`
	Cards       []generation.CardDraft `json:"cards,omitempty"`
	Quiz        []generation.QuizDraft `json:"quiz,omitempty"`
}

// GenerationHandler handles draft generation HTTP requests.
type GenerationHandler struct {
	generator generation.Generator
	images    media.Finder
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler. The generator is
// expected to be fallback-wrapped so that provider failures degrade to
// placeholder drafts instead of errors.
func NewGenerationHandler(
	generator generation.Generator,
	images media.Finder,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		generator: generator,
		images:    images,
		logger:    logger.With(slog.String("component", "generation_handler")),
	}
}

// Preview handles POST /generate/preview requests.
func (h *GenerationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req GeneratePreviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	source := generation.Source{Topic: req.Topic, Text: req.Text}
	if source.IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A topic or source text is required")
		return
	}

	count := req.Count
	if count == 0 {
		count = generation.DefaultCount
	}

	resp := GeneratePreviewResponse{ContentType: req.ContentType}

	switch req.ContentType {
	case domain.ContentTypeQuiz:
		drafts, err := h.generator.GenerateQuiz(r.Context(), source, count)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		if req.WithImages {
			for i := range drafts {
				drafts[i].ImageURL = h.lookupImage(r, drafts[i].ImageQuery)
			}
		}
		resp.Quiz = drafts
	default:
		drafts, err := h.generator.GenerateCards(r.Context(), source, count)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		if req.WithImages {
			for i := range drafts {
				drafts[i].ImageURL = h.lookupImage(r, drafts[i].ImageQuery)
			}
		}
		resp.Cards = drafts
	}

	log.Debug("preview generated",
		slog.String("content_type", string(req.ContentType)),
		slog.Int("cards", len(resp.Cards)),
		slog.Int("quiz", len(resp.Quiz)))

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// lookupImage resolves a draft's image query to a URL. Lookup is
// best-effort; failures leave the URL empty.
func (h *GenerationHandler) lookupImage(r *http.Request, query string) string {
	if query == "" {
		return ""
	}

	url, err := h.images.FindImage(r.Context(), query)
	if err != nil {
		return ""
	}
	return url
}
