// Package srs implements the spaced-repetition scheduling algorithm, an SM-2
// variant driven by a 0-5 quality score. The package is pure: Schedule
// computes a new copy of an item's scheduling state and performs no I/O;
// persistence and review-history logging are the caller's responsibility.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Quality thresholds and adjustment constants for the SM-2 variant.
const (
	// PassThreshold is the minimum quality counting as a successful recall.
	PassThreshold = 3

	// MinQuality and MaxQuality bound the accepted quality range.
	MinQuality = 0
	MaxQuality = 5

	// failEasePenalty is subtracted from the ease factor on a failed recall.
	failEasePenalty = 0.2

	// Learned thresholds for spaced mode: an item counts as learned once it
	// has this many repetitions and at least this interval in days.
	learnedRepetitions = 3
	learnedInterval    = 7
)

// Common errors
var (
	ErrNilItem        = errors.New("item cannot be nil")
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")
)

// Service defines the scheduling operations.
type Service interface {
	// Schedule computes the item's next scheduling state from a review with
	// the given quality. It returns a new item; the input is not modified.
	Schedule(item *domain.Item, quality int, mode domain.LearningMode, now time.Time) (*domain.Item, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct{}

// NewService creates the default scheduler.
func NewService() Service {
	return &defaultService{}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(
	item *domain.Item,
	quality int,
	mode domain.LearningMode,
	now time.Time,
) (*domain.Item, error) {
	if item == nil {
		return nil, ErrNilItem
	}

	if quality < MinQuality || quality > MaxQuality {
		return nil, ErrInvalidQuality
	}

	next := *item
	next.Options = append([]string(nil), item.Options...)
	next.CorrectAnswers = append([]int(nil), item.CorrectAnswers...)

	if quality >= PassThreshold {
		applyPass(&next, quality, mode)
	} else {
		applyFail(&next)
	}

	// Unconditional bookkeeping. TimesReviewed is incremented before the
	// difficulty computation, so the division is always safe.
	next.IsNew = false
	next.TimesReviewed++
	reviewedAt := now
	nextReview := now.AddDate(0, 0, next.Interval)
	next.LastReview = &reviewedAt
	next.NextReview = &nextReview
	next.Difficulty = 1 - float64(next.TimesCorrect)/float64(next.TimesReviewed)

	return &next, nil
}

// applyPass handles a successful recall: the interval progresses 1 → 6 →
// round(interval * easeFactor), the ease factor is adjusted by the SM-2
// formula, and learned status is re-evaluated per the deck's learning mode.
func applyPass(item *domain.Item, quality int, mode domain.LearningMode) {
	switch item.Repetitions {
	case 0:
		item.Interval = 1
	case 1:
		item.Interval = 6
	default:
		item.Interval = int(math.Round(float64(item.Interval) * item.EaseFactor))
	}

	item.Repetitions++

	q := float64(MaxQuality - quality)
	item.EaseFactor = clampEase(item.EaseFactor + (0.1 - q*(0.08+q*0.02)))
	item.TimesCorrect++

	if mode == domain.LearningModeAllAtOnce {
		item.IsLearned = true
	} else {
		item.IsLearned = item.Repetitions >= learnedRepetitions && item.Interval >= learnedInterval
	}
}

// applyFail handles a failed recall: repetitions reset, the interval drops
// back to one day, and the ease factor takes a fixed penalty.
func applyFail(item *domain.Item) {
	item.Repetitions = 0
	item.Interval = 1
	item.EaseFactor = clampEase(item.EaseFactor - failEasePenalty)
	item.TimesIncorrect++
	item.IsLearned = false
}

// clampEase enforces the ease factor floor.
func clampEase(ef float64) float64 {
	if ef < domain.MinEaseFactor {
		return domain.MinEaseFactor
	}
	return ef
}
