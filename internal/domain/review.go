package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review-record validation errors
var (
	ErrReviewItemEmpty      = errors.New("review item ID cannot be empty")
	ErrReviewUserEmpty      = errors.New("review user ID cannot be empty")
	ErrReviewQualityInvalid = errors.New("review quality must be between 0 and 5")
)

// ReviewRecord is one entry of an item's review history: the quality the
// learner reported and the scheduling change it produced. Written alongside
// every scheduling update, never mutated.
type ReviewRecord struct {
	ID              uuid.UUID `json:"id"`
	ItemID          uuid.UUID `json:"item_id"`
	UserID          uuid.UUID `json:"user_id"`
	DeckID          uuid.UUID `json:"deck_id"`
	Quality         int       `json:"quality"`
	TimeTakenMs     int       `json:"time_taken_ms"`
	IntervalBefore  int       `json:"interval_before"`
	IntervalAfter   int       `json:"interval_after"`
	EaseFactorAfter float64   `json:"ease_factor_after"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewReviewRecord creates a history entry for one scheduling update.
func NewReviewRecord(
	itemID, userID, deckID uuid.UUID,
	quality, timeTakenMs int,
	intervalBefore, intervalAfter int,
	easeFactorAfter float64,
) (*ReviewRecord, error) {
	rec := &ReviewRecord{
		ID:              uuid.New(),
		ItemID:          itemID,
		UserID:          userID,
		DeckID:          deckID,
		Quality:         quality,
		TimeTakenMs:     timeTakenMs,
		IntervalBefore:  intervalBefore,
		IntervalAfter:   intervalAfter,
		EaseFactorAfter: easeFactorAfter,
		CreatedAt:       time.Now().UTC(),
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the ReviewRecord has valid data.
func (r *ReviewRecord) Validate() error {
	if r.ItemID == uuid.Nil {
		return ErrReviewItemEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrReviewUserEmpty
	}

	if r.Quality < 0 || r.Quality > 5 {
		return ErrReviewQualityInvalid
	}

	return nil
}
