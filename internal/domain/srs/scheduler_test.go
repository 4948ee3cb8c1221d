package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

func newTestItem(t *testing.T) *domain.Item {
	t.Helper()
	item, err := domain.NewFlashcard(uuid.New(), 0, "front", "back", time.Now().UTC())
	require.NoError(t, err)
	return item
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	_, err := svc.Schedule(nil, 4, domain.LearningModeSpaced, now)
	assert.ErrorIs(t, err, ErrNilItem)

	for _, quality := range []int{-1, 6, 100} {
		_, err := svc.Schedule(newTestItem(t), quality, domain.LearningModeSpaced, now)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality %d should be rejected", quality)
	}
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	svc := NewService()
	item := newTestItem(t)

	updated, err := svc.Schedule(item, 4, domain.LearningModeSpaced, time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, item.IsNew)
	assert.Equal(t, 0, item.TimesReviewed)
	assert.Nil(t, item.LastReview)
	assert.NotSame(t, item, updated)
}

func TestScheduleFirstPass(t *testing.T) {
	// Scenario: fresh item, quality 4. With 5-q = 1 the ease adjustment is
	// 0.1 - 1*(0.08 + 1*0.02) = 0, so the ease factor stays at 2.5.
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	updated, err := svc.Schedule(newTestItem(t), 4, domain.LearningModeSpaced, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Interval)
	assert.Equal(t, 1, updated.Repetitions)
	assert.InDelta(t, 2.5, updated.EaseFactor, 1e-9)
	assert.False(t, updated.IsNew)
	assert.False(t, updated.IsLearned)
	assert.Equal(t, 1, updated.TimesReviewed)
	assert.Equal(t, 1, updated.TimesCorrect)
	require.NotNil(t, updated.NextReview)
	assert.Equal(t, now.AddDate(0, 0, 1), *updated.NextReview)
}

func TestScheduleSecondPass(t *testing.T) {
	// Second consecutive pass with quality 5 moves the interval to 6 and
	// raises the ease factor by 0.1.
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	first, err := svc.Schedule(newTestItem(t), 4, domain.LearningModeSpaced, now)
	require.NoError(t, err)

	second, err := svc.Schedule(first, 5, domain.LearningModeSpaced, now)
	require.NoError(t, err)

	assert.Equal(t, 6, second.Interval)
	assert.Equal(t, 2, second.Repetitions)
	assert.InDelta(t, 2.6, second.EaseFactor, 1e-9)
}

func TestScheduleFailResets(t *testing.T) {
	// An item mid-progression that fails drops back to interval 1 with zero
	// repetitions and an ease penalty of 0.2.
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	item := newTestItem(t)
	item.IsNew = false
	item.Repetitions = 2
	item.Interval = 6
	item.EaseFactor = 2.6
	reviewed := now.AddDate(0, 0, -6)
	item.LastReview = &reviewed

	updated, err := svc.Schedule(item, 2, domain.LearningModeSpaced, now)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Interval)
	assert.Equal(t, 0, updated.Repetitions)
	assert.InDelta(t, 2.4, updated.EaseFactor, 1e-9)
	assert.False(t, updated.IsLearned)
	assert.Equal(t, 1, updated.TimesIncorrect)
}

func TestScheduleIntervalProgression(t *testing.T) {
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	item := newTestItem(t)
	intervals := []int{}
	for i := 0; i < 4; i++ {
		var err error
		item, err = svc.Schedule(item, 4, domain.LearningModeSpaced, now)
		require.NoError(t, err)
		intervals = append(intervals, item.Interval)
	}

	// 1, 6, then round(prev * easeFactor) with easeFactor held at 2.5.
	assert.Equal(t, []int{1, 6, 15, 38}, intervals)
}

func TestScheduleEaseFactorFloor(t *testing.T) {
	// The ease factor never drops below 1.3 no matter how many failures or
	// low-quality passes accumulate.
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	item := newTestItem(t)
	qualities := []int{0, 1, 2, 3, 0, 3, 0, 0, 1, 3, 2, 0}
	for _, q := range qualities {
		var err error
		item, err = svc.Schedule(item, q, domain.LearningModeSpaced, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, item.EaseFactor, domain.MinEaseFactor,
			"ease factor dropped below floor after quality %d", q)
	}
}

func TestScheduleReviewCountAndDifficulty(t *testing.T) {
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	item := newTestItem(t)
	for i, q := range []int{5, 2, 4, 0, 3} {
		var err error
		item, err = svc.Schedule(item, q, domain.LearningModeSpaced, now)
		require.NoError(t, err)

		assert.Equal(t, i+1, item.TimesReviewed)
		assert.GreaterOrEqual(t, item.Difficulty, 0.0)
		assert.LessOrEqual(t, item.Difficulty, 1.0)
		expected := 1 - float64(item.TimesCorrect)/float64(item.TimesReviewed)
		assert.InDelta(t, expected, item.Difficulty, 1e-9)
	}
}

func TestScheduleLearnedStatus(t *testing.T) {
	t.Parallel()
	svc := NewService()
	now := time.Now().UTC()

	t.Run("all_at_once marks learned on first pass", func(t *testing.T) {
		t.Parallel()
		updated, err := svc.Schedule(newTestItem(t), 3, domain.LearningModeAllAtOnce, now)
		require.NoError(t, err)
		assert.True(t, updated.IsLearned)
	})

	t.Run("all_at_once fail is not learned", func(t *testing.T) {
		t.Parallel()
		updated, err := svc.Schedule(newTestItem(t), 1, domain.LearningModeAllAtOnce, now)
		require.NoError(t, err)
		assert.False(t, updated.IsLearned)
	})

	t.Run("spaced requires repetitions and interval thresholds", func(t *testing.T) {
		t.Parallel()
		item := newTestItem(t)
		var err error

		// Passes 1 and 2: below the repetition threshold.
		for i := 0; i < 2; i++ {
			item, err = svc.Schedule(item, 4, domain.LearningModeSpaced, now)
			require.NoError(t, err)
			assert.False(t, item.IsLearned)
		}

		// Pass 3: repetitions=3, interval=15 >= 7 → learned.
		item, err = svc.Schedule(item, 4, domain.LearningModeSpaced, now)
		require.NoError(t, err)
		assert.True(t, item.IsLearned)
	})
}
