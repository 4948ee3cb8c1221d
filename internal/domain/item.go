package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemType distinguishes the two kinds of learnable content.
type ItemType string

const (
	ItemTypeFlashcard    ItemType = "flashcard"
	ItemTypeQuizQuestion ItemType = "quiz_question"
)

// Scheduling defaults for a freshly created or reset item.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Item-specific validation errors
var (
	ErrItemIDEmpty         = errors.New("item ID cannot be empty")
	ErrItemDeckIDEmpty     = errors.New("item deck ID cannot be empty")
	ErrItemTypeInvalid     = errors.New("item type must be flashcard or quiz_question")
	ErrItemFrontEmpty      = errors.New("flashcard front cannot be empty")
	ErrItemQuestionEmpty   = errors.New("quiz question cannot be empty")
	ErrItemOptionsCount    = errors.New("quiz question must have 2 to 6 options")
	ErrItemCorrectAnswers  = errors.New("quiz correct answers must index into options")
	ErrItemEaseFactorLow   = errors.New("ease factor must be at least 1.3")
	ErrItemIntervalNegative = errors.New("interval must be greater than or equal to 0")
	ErrItemNewInconsistent = errors.New("a new item cannot have repetitions or a last review")
)

// Item is a single learnable unit inside a deck: either a flashcard
// (Front/Back) or a quiz question (Question/Options/CorrectAnswers). The
// scheduling fields implement an SM-2 variant and are mutated only through
// srs.Service; everything else is content fixed at creation.
type Item struct {
	ID      uuid.UUID `json:"id"`
	DeckID  uuid.UUID `json:"deck_id"`
	Type    ItemType  `json:"type"`
	Order   int       `json:"order"`

	// Flashcard content (empty for quiz questions)
	Front      string `json:"front,omitempty"`
	Back       string `json:"back,omitempty"`
	ImageQuery string `json:"image_query,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`

	// Quiz content (empty for flashcards)
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswers []int    `json:"correct_answers,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`

	// Scheduling state
	IsNew       bool    `json:"is_new"`
	IsLearned   bool    `json:"is_learned"`
	Repetitions int     `json:"repetitions"`
	Interval    int     `json:"interval"` // days
	EaseFactor  float64 `json:"ease_factor"`

	// Review statistics
	TimesReviewed  int     `json:"times_reviewed"`
	TimesCorrect   int     `json:"times_correct"`
	TimesIncorrect int     `json:"times_incorrect"`
	Difficulty     float64 `json:"difficulty"` // 1 - correct/reviewed, in [0,1]

	LastReview *time.Time `json:"last_review,omitempty"`
	NextReview *time.Time `json:"next_review,omitempty"`
	UnlockDate time.Time  `json:"unlock_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewFlashcard creates a flashcard item in its initial scheduling state.
// unlockDate controls when the card becomes available in spaced mode; pass
// the current time for immediately available cards.
func NewFlashcard(deckID uuid.UUID, order int, front, back string, unlockDate time.Time) (*Item, error) {
	item := newItem(deckID, ItemTypeFlashcard, order, unlockDate)
	item.Front = front
	item.Back = back

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// NewQuizQuestion creates a quiz question item in its initial scheduling state.
func NewQuizQuestion(
	deckID uuid.UUID,
	order int,
	question string,
	options []string,
	correctAnswers []int,
	unlockDate time.Time,
) (*Item, error) {
	item := newItem(deckID, ItemTypeQuizQuestion, order, unlockDate)
	item.Question = question
	item.Options = options
	item.CorrectAnswers = correctAnswers

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

func newItem(deckID uuid.UUID, itemType ItemType, order int, unlockDate time.Time) *Item {
	return &Item{
		ID:         uuid.New(),
		DeckID:     deckID,
		Type:       itemType,
		Order:      order,
		IsNew:      true,
		EaseFactor: DefaultEaseFactor,
		UnlockDate: unlockDate,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks content invariants and scheduling invariants: the ease
// factor floor, a non-negative interval, and the rule that a new item has
// never been reviewed.
func (i *Item) Validate() error {
	if i.ID == uuid.Nil {
		return ErrItemIDEmpty
	}

	if i.DeckID == uuid.Nil {
		return ErrItemDeckIDEmpty
	}

	switch i.Type {
	case ItemTypeFlashcard:
		if i.Front == "" {
			return ErrItemFrontEmpty
		}
	case ItemTypeQuizQuestion:
		if i.Question == "" {
			return ErrItemQuestionEmpty
		}
		if len(i.Options) < 2 || len(i.Options) > 6 {
			return ErrItemOptionsCount
		}
		if len(i.CorrectAnswers) == 0 {
			return ErrItemCorrectAnswers
		}
		for _, idx := range i.CorrectAnswers {
			if idx < 0 || idx >= len(i.Options) {
				return ErrItemCorrectAnswers
			}
		}
	default:
		return ErrItemTypeInvalid
	}

	if i.EaseFactor < MinEaseFactor {
		return ErrItemEaseFactorLow
	}

	if i.Interval < 0 {
		return ErrItemIntervalNegative
	}

	if i.IsNew && (i.Repetitions != 0 || i.LastReview != nil) {
		return ErrItemNewInconsistent
	}

	return nil
}

// ResetProgress restores the item to its initial scheduling state, keeping
// content and unlock date intact.
func (i *Item) ResetProgress() {
	i.IsNew = true
	i.IsLearned = false
	i.Repetitions = 0
	i.Interval = 0
	i.EaseFactor = DefaultEaseFactor
	i.TimesReviewed = 0
	i.TimesCorrect = 0
	i.TimesIncorrect = 0
	i.Difficulty = 0
	i.LastReview = nil
	i.NextReview = nil
}

// IsDue reports whether the item should be shown to the learner at now:
// an unlocked new item, or a reviewed-but-unlearned item whose next review
// time has passed.
func (i *Item) IsDue(now time.Time) bool {
	if i.IsNew {
		return !i.UnlockDate.After(now)
	}

	if i.IsLearned || i.NextReview == nil {
		return false
	}

	return !i.NextReview.After(now)
}
