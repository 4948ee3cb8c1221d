package generation

import (
	"context"
	"strings"
)

// DefaultCount is the number of drafts generated when the caller does not
// choose one.
const DefaultCount = 10

// Source is the material drafts are generated from: either a short topic
// ("the solar system") or a block of text extracted from a document.
// Exactly one field should be set; Text wins when both are.
type Source struct {
	Topic string
	Text  string
}

// IsEmpty reports whether the source carries no material at all.
func (s Source) IsEmpty() bool {
	return strings.TrimSpace(s.Topic) == "" && strings.TrimSpace(s.Text) == ""
}

// CardDraft is one generated flashcard, not yet persisted. ImageQuery is a
// short english search phrase the model suggests for illustrating the card;
// ImageURL is filled in later by the media lookup, never by the generator.
type CardDraft struct {
	Front      string `json:"front"`
	Back       string `json:"back"`
	ImageQuery string `json:"image_query,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// QuizDraft is one generated multiple-choice question. CorrectAnswers holds
// zero-based indices into Options; more than one index means a
// multiple-answer question.
type QuizDraft struct {
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswers []int    `json:"correct_answers"`
	Explanation    string   `json:"explanation,omitempty"`
	ImageQuery     string   `json:"image_query,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
}

// Generator defines the interface for generating drafts from source material.
type Generator interface {
	// GenerateCards creates up to count flashcard drafts from the source.
	// Returns at least one draft on success; errors are classified by the
	// sentinels in errors.go.
	GenerateCards(ctx context.Context, source Source, count int) ([]CardDraft, error)

	// GenerateQuiz creates up to count multiple-choice question drafts
	// from the source.
	GenerateQuiz(ctx context.Context, source Source, count int) ([]QuizDraft, error)
}
