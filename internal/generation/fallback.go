package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// maxPlaceholderDrafts caps the stub output so a failed call does not fill a
// deck with dozens of identical placeholders.
const maxPlaceholderDrafts = 3

// PlaceholderCards builds deterministic stub drafts for when generation is
// unavailable. The drafts are valid and editable so the teacher can still
// assemble a deck by hand.
func PlaceholderCards(source Source, count int) []CardDraft {
	n := placeholderCount(count)
	query := placeholderQuery(source)

	drafts := make([]CardDraft, 0, n)
	for i := 0; i < n; i++ {
		drafts = append(drafts, CardDraft{
			Front:      fmt.Sprintf("Placeholder card %d", i+1),
			Back:       "Automatic generation was unavailable. Edit this card before studying.",
			ImageQuery: query,
		})
	}
	return drafts
}

// PlaceholderQuiz builds deterministic stub question drafts for when
// generation is unavailable.
func PlaceholderQuiz(source Source, count int) []QuizDraft {
	n := placeholderCount(count)
	query := placeholderQuery(source)

	drafts := make([]QuizDraft, 0, n)
	for i := 0; i < n; i++ {
		drafts = append(drafts, QuizDraft{
			Question:       fmt.Sprintf("Placeholder question %d", i+1),
			Options:        []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectAnswers: []int{0},
			Explanation:    "Automatic generation was unavailable. Edit this question before playing.",
			ImageQuery:     query,
		})
	}
	return drafts
}

func placeholderCount(count int) int {
	if count < 1 {
		count = 1
	}
	if count > maxPlaceholderDrafts {
		count = maxPlaceholderDrafts
	}
	return count
}

func placeholderQuery(source Source) string {
	if topic := strings.TrimSpace(source.Topic); topic != "" {
		return topic
	}
	return "study"
}

// fallbackGenerator wraps a Generator and degrades every failure to
// placeholder drafts, so the preview path never hard-errors on a provider
// outage. A nil inner generator means generation is not configured at all;
// callers get placeholders immediately.
type fallbackGenerator struct {
	inner  Generator
	logger *slog.Logger
}

// WithFallback wraps the generator so callers always receive drafts.
// Pass a nil inner generator to run with generation disabled.
func WithFallback(inner Generator, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallbackGenerator{
		inner:  inner,
		logger: logger.With(slog.String("component", "generation_fallback")),
	}
}

func (g *fallbackGenerator) GenerateCards(ctx context.Context, source Source, count int) ([]CardDraft, error) {
	if g.inner == nil {
		return PlaceholderCards(source, count), nil
	}

	drafts, err := g.inner.GenerateCards(ctx, source, count)
	if err != nil {
		g.logger.Warn("card generation failed, serving placeholders",
			slog.String("error", err.Error()),
			slog.Int("count", count))
		return PlaceholderCards(source, count), nil
	}
	return drafts, nil
}

func (g *fallbackGenerator) GenerateQuiz(ctx context.Context, source Source, count int) ([]QuizDraft, error) {
	if g.inner == nil {
		return PlaceholderQuiz(source, count), nil
	}

	drafts, err := g.inner.GenerateQuiz(ctx, source, count)
	if err != nil {
		g.logger.Warn("quiz generation failed, serving placeholders",
			slog.String("error", err.Error()),
			slog.Int("count", count))
		return PlaceholderQuiz(source, count), nil
	}
	return drafts, nil
}
