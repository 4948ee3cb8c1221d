package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		counts   Counts
		expected Status
	}{
		{
			name:     "no items means empty",
			counts:   Counts{Total: 0, Learned: 0, Due: 0},
			expected: StatusEmpty,
		},
		{
			name:     "all learned means mastered",
			counts:   Counts{Total: 10, Learned: 10, Due: 0},
			expected: StatusMastered,
		},
		{
			name:     "started and nothing due means done for today",
			counts:   Counts{Total: 10, Learned: 4, Due: 0},
			expected: StatusDoneForToday,
		},
		{
			name:     "items due means active",
			counts:   Counts{Total: 10, Learned: 4, Due: 3},
			expected: StatusActive,
		},
		{
			name:     "untouched deck with nothing due is still active",
			counts:   Counts{Total: 10, Learned: 0, Due: 0},
			expected: StatusActive,
		},
		{
			name:     "mastered wins over due",
			counts:   Counts{Total: 5, Learned: 5, Due: 0},
			expected: StatusMastered,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ComputeStatus(tc.counts))
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(0, 10))
	assert.Equal(t, 100.0, Percent(10, 10))
	assert.Equal(t, 33.3, Percent(1, 3))
	assert.Equal(t, 66.7, Percent(2, 3))
	assert.Equal(t, 12.5, Percent(1, 8))
}

func TestSortPriority(t *testing.T) {
	t.Parallel()

	// Active decks sort before finished ones.
	assert.Less(t, SortPriority(StatusActive), SortPriority(StatusDoneForToday))
	assert.Less(t, SortPriority(StatusDoneForToday), SortPriority(StatusMastered))
	assert.Less(t, SortPriority(StatusMastered), SortPriority(StatusEmpty))
}
