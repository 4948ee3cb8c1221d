// Package progress derives deck-level study status from item counts.
// The functions are pure and operate on count snapshots supplied by the
// caller; counts are recomputed fresh on every request, so a snapshot may
// lag the live item state between requests.
package progress

import "math"

// Status is the deck-level study state shown to the learner.
type Status string

const (
	// StatusEmpty means the deck has no items.
	StatusEmpty Status = "empty"

	// StatusMastered means every item is learned.
	StatusMastered Status = "mastered"

	// StatusDoneForToday means studying has started and nothing is due.
	StatusDoneForToday Status = "done_for_today"

	// StatusActive means there are items due, or the deck is untouched.
	StatusActive Status = "active"
)

// Counts is a snapshot of a deck's item tallies. Due counts items that are
// either new and unlocked, or reviewed, unlearned, and past their next
// review time.
type Counts struct {
	Total   int
	Learned int
	Due     int
}

// ComputeStatus derives the deck status from a count snapshot. The rules are
// evaluated in order; a fresh deck with nothing due yet still reads active so
// it invites a first session.
func ComputeStatus(c Counts) Status {
	switch {
	case c.Total == 0:
		return StatusEmpty
	case c.Learned == c.Total:
		return StatusMastered
	case c.Due == 0 && c.Learned > 0:
		return StatusDoneForToday
	default:
		return StatusActive
	}
}

// Percent returns the learned percentage rounded to one decimal place,
// 0 for an empty deck.
func Percent(learned, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(learned)/float64(total)*1000) / 10
}

// SortPriority orders deck listings: decks with work to do come first,
// finished ones sink to the bottom.
func SortPriority(s Status) int {
	switch s {
	case StatusActive:
		return 0
	case StatusDoneForToday:
		return 1
	case StatusMastered:
		return 2
	case StatusEmpty:
		return 3
	default:
		return 4
	}
}
