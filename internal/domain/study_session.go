package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Study-session validation errors
var (
	ErrStudyUserEmpty      = errors.New("study session user ID cannot be empty")
	ErrStudyDeckEmpty      = errors.New("study session deck ID cannot be empty")
	ErrStudyCountsNegative = errors.New("study session counts cannot be negative")
)

// StudySession records one completed pass over a deck's due items.
type StudySession struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	DeckID          uuid.UUID `json:"deck_id"`
	TotalCards      int       `json:"total_cards"`
	Correct         int       `json:"correct"`
	Incorrect       int       `json:"incorrect"`
	Skipped         int       `json:"skipped"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Accuracy        float64   `json:"accuracy"` // percent correct of answered+skipped
}

// NewStudySession builds a completed session record. StartedAt is derived
// from the reported duration; accuracy is computed here so all call sites
// agree on the formula.
func NewStudySession(userID, deckID uuid.UUID, correct, incorrect, skipped, durationSeconds int) (*StudySession, error) {
	total := correct + incorrect + skipped
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	now := time.Now().UTC()
	s := &StudySession{
		ID:              uuid.New(),
		UserID:          userID,
		DeckID:          deckID,
		TotalCards:      total,
		Correct:         correct,
		Incorrect:       incorrect,
		Skipped:         skipped,
		StartedAt:       now.Add(-time.Duration(durationSeconds) * time.Second),
		CompletedAt:     now,
		DurationSeconds: durationSeconds,
		Accuracy:        accuracy,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStudyUserEmpty
	}

	if s.DeckID == uuid.Nil {
		return ErrStudyDeckEmpty
	}

	if s.Correct < 0 || s.Incorrect < 0 || s.Skipped < 0 || s.DurationSeconds < 0 {
		return ErrStudyCountsNegative
	}

	return nil
}

// DailyStats is a per-user, per-day rollup of study activity, upserted on
// every review and session completion.
type DailyStats struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	Date              time.Time   `json:"date"` // midnight UTC
	NewCardsLearned   int         `json:"new_cards_learned"`
	CardsReviewed     int         `json:"cards_reviewed"`
	CorrectAnswers    int         `json:"correct_answers"`
	IncorrectAnswers  int         `json:"incorrect_answers"`
	StudyTimeSeconds  int         `json:"study_time_seconds"`
	DecksStudied      []uuid.UUID `json:"decks_studied"`
	SessionsCompleted int         `json:"sessions_completed"`
}

// NewDailyStats creates an empty rollup for the given day. The date is
// truncated to midnight UTC so lookups are stable regardless of when during
// the day the first review lands.
func NewDailyStats(userID uuid.UUID, day time.Time) *DailyStats {
	return &DailyStats{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         StatsDay(day),
		DecksStudied: []uuid.UUID{},
	}
}

// StatsDay truncates a timestamp to its UTC midnight, the key used for
// daily stats lookups.
func StatsDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecordReview folds one review into the rollup. firstReview marks the
// item's first-ever review, which counts as learning a new card.
func (d *DailyStats) RecordReview(deckID uuid.UUID, correct, firstReview bool, timeTakenMs int) {
	if firstReview {
		d.NewCardsLearned++
	} else {
		d.CardsReviewed++
	}

	if correct {
		d.CorrectAnswers++
	} else {
		d.IncorrectAnswers++
	}

	d.StudyTimeSeconds += timeTakenMs / 1000

	for _, id := range d.DecksStudied {
		if id == deckID {
			return
		}
	}
	d.DecksStudied = append(d.DecksStudied, deckID)
}
