// Package study implements the learner-facing study flow: building the
// study queue, applying spaced-repetition review results, and recording
// completed sessions into the daily statistics rollup.
package study

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// Queue is the set of items a learner should study right now.
type Queue struct {
	Deck   *domain.Deck     `json:"deck"`
	Items  []*domain.Item   `json:"items"`
	Counts store.ItemCounts `json:"counts"`
}

// ReviewResult summarizes the scheduling change one review produced.
type ReviewResult struct {
	Item            *domain.Item `json:"item"`
	Passed          bool         `json:"passed"`
	IntervalBefore  int          `json:"interval_before"`
	IntervalAfter   int          `json:"interval_after"`
	EaseFactorAfter float64      `json:"ease_factor_after"`
	NextReview      *time.Time   `json:"next_review,omitempty"`
}

// SessionResult carries the per-session totals reported by the client when a
// study pass finishes.
type SessionResult struct {
	Correct         int `json:"correct" validate:"gte=0"`
	Incorrect       int `json:"incorrect" validate:"gte=0"`
	Skipped         int `json:"skipped" validate:"gte=0"`
	DurationSeconds int `json:"duration_seconds" validate:"gte=0"`
}

// SessionHistoryEntry is one completed session with its deck name resolved
// for display. DeckName is empty when the deck has since been deleted.
type SessionHistoryEntry struct {
	Session  *domain.StudySession `json:"session"`
	DeckName string               `json:"deck_name"`
}

// Service provides the study flow operations.
type Service interface {
	// GetStudyQueue returns the items the user should study in the deck now.
	// In spaced mode new items are capped by the deck's CardsPerDay; in
	// all_at_once mode every unlearned item is included.
	// Returns store.ErrDeckNotFound or ErrDeckAccessDenied.
	GetStudyQueue(ctx context.Context, userID, deckID uuid.UUID) (*Queue, error)

	// SubmitReview applies one review to an item: the scheduler computes the
	// new state, the item is saved, a history record is appended and the
	// user's daily stats are updated, all in one transaction.
	// Returns store.ErrItemNotFound, ErrDeckAccessDenied or
	// srs.ErrInvalidQuality.
	SubmitReview(ctx context.Context, userID, itemID uuid.UUID, quality, timeTakenMs int) (*ReviewResult, error)

	// CompleteSession records a finished study pass: the session row, the
	// deck's play counter, the student's access progress and the daily
	// stats rollup.
	CompleteSession(ctx context.Context, userID, deckID uuid.UUID, result SessionResult) (*domain.StudySession, error)

	// ResetDeck restores every item in the deck to its initial scheduling
	// state. Only the deck owner may reset.
	ResetDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// TodayStats returns the user's rollup for the current day. A day with
	// no activity yields an empty rollup, not an error.
	TodayStats(ctx context.Context, userID uuid.UUID) (*domain.DailyStats, error)

	// WeekStats returns the user's rollups for the last seven days, oldest
	// first. Days with no activity are absent.
	WeekStats(ctx context.Context, userID uuid.UUID) ([]*domain.DailyStats, error)

	// SessionHistory returns the user's most recent completed sessions,
	// newest first, capped at limit.
	SessionHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*SessionHistoryEntry, error)

	// ItemHistory returns the user's review records for one item, newest
	// first. Access follows the same rules as GetStudyQueue.
	ItemHistory(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.ReviewRecord, error)
}
