package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flashdeck/flashdeck-api/internal/generation"
)

// stripFences removes a markdown code fence the model sometimes wraps around
// its JSON output despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseCards decodes and validates the model's card output, truncated to the
// requested count. ImageURL is cleared on every draft: image lookup is the
// media package's job, not the model's.
func parseCards(text string, count int) ([]generation.CardDraft, error) {
	var drafts []generation.CardDraft
	if err := json.Unmarshal([]byte(stripFences(text)), &drafts); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	for i := range drafts {
		if strings.TrimSpace(drafts[i].Front) == "" {
			return nil, fmt.Errorf("%w: card %d missing front side", generation.ErrInvalidResponse, i)
		}
		if strings.TrimSpace(drafts[i].Back) == "" {
			return nil, fmt.Errorf("%w: card %d missing back side", generation.ErrInvalidResponse, i)
		}
		drafts[i].ImageURL = ""
	}

	if count > 0 && len(drafts) > count {
		drafts = drafts[:count]
	}
	return drafts, nil
}

// parseQuiz decodes and validates the model's quiz output, truncated to the
// requested count.
func parseQuiz(text string, count int) ([]generation.QuizDraft, error) {
	var drafts []generation.QuizDraft
	if err := json.Unmarshal([]byte(stripFences(text)), &drafts); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%w: no questions in response", generation.ErrInvalidResponse)
	}

	for i := range drafts {
		if strings.TrimSpace(drafts[i].Question) == "" {
			return nil, fmt.Errorf("%w: question %d missing text", generation.ErrInvalidResponse, i)
		}
		if len(drafts[i].Options) < 2 || len(drafts[i].Options) > 6 {
			return nil, fmt.Errorf("%w: question %d must have 2 to 6 options, got %d",
				generation.ErrInvalidResponse, i, len(drafts[i].Options))
		}
		if len(drafts[i].CorrectAnswers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no correct answers", generation.ErrInvalidResponse, i)
		}
		for _, idx := range drafts[i].CorrectAnswers {
			if idx < 0 || idx >= len(drafts[i].Options) {
				return nil, fmt.Errorf("%w: question %d correct answer index %d out of range",
					generation.ErrInvalidResponse, i, idx)
			}
		}
		drafts[i].ImageURL = ""
	}

	if count > 0 && len(drafts) > count {
		drafts = drafts[:count]
	}
	return drafts, nil
}
