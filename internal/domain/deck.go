package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentType distinguishes flashcard decks from quizzes. A deck holds items
// of a single type.
type ContentType string

const (
	ContentTypeFlashcards ContentType = "flashcards"
	ContentTypeQuiz       ContentType = "quiz"
)

// LearningMode controls how a deck's items are released to the learner.
//
// In all_at_once mode every item is available immediately and a single pass
// marks it learned. In spaced mode items unlock in daily batches of
// CardsPerDay and an item counts as learned only after it has survived enough
// successful reviews.
type LearningMode string

const (
	LearningModeAllAtOnce LearningMode = "all_at_once"
	LearningModeSpaced    LearningMode = "spaced"
)

// Deck-specific validation errors
var (
	ErrDeckIDEmpty          = errors.New("deck ID cannot be empty")
	ErrDeckOwnerEmpty       = errors.New("deck owner ID cannot be empty")
	ErrDeckNameEmpty        = errors.New("deck name cannot be empty")
	ErrDeckContentType      = errors.New("deck content type must be flashcards or quiz")
	ErrDeckLearningMode     = errors.New("deck learning mode must be all_at_once or spaced")
	ErrDeckCardsPerDay      = errors.New("deck cards per day must be greater than 0")
)

// Deck owns an ordered collection of learnable items. LearningMode and
// ContentType are fixed at creation; the aggregate counters are bumped by
// read and study events.
type Deck struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	AuthorName   string       `json:"author_name,omitempty"`
	ContentType  ContentType  `json:"content_type"`
	LearningMode LearningMode `json:"learning_mode"`
	CardsPerDay  int          `json:"cards_per_day"`
	IsPublic     bool         `json:"is_public"`
	PlaysCount   int          `json:"plays_count"`
	ViewsCount   int          `json:"views_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewDeck creates a Deck with a generated ID and sensible defaults.
// cardsPerDay only matters in spaced mode but must always be positive so a
// later mode change cannot divide by zero.
func NewDeck(
	ownerID uuid.UUID,
	name string,
	contentType ContentType,
	learningMode LearningMode,
	cardsPerDay int,
) (*Deck, error) {
	if cardsPerDay == 0 {
		cardsPerDay = 10
	}

	now := time.Now().UTC()
	deck := &Deck{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		ContentType:  contentType,
		LearningMode: learningMode,
		CardsPerDay:  cardsPerDay,
		IsPublic:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.OwnerID == uuid.Nil {
		return ErrDeckOwnerEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if d.ContentType != ContentTypeFlashcards && d.ContentType != ContentTypeQuiz {
		return ErrDeckContentType
	}

	if d.LearningMode != LearningModeAllAtOnce && d.LearningMode != LearningModeSpaced {
		return ErrDeckLearningMode
	}

	if d.CardsPerDay <= 0 {
		return ErrDeckCardsPerDay
	}

	return nil
}
