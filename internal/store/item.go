package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// ItemCounts is a snapshot of a deck's scheduling state, produced by a
// single aggregate query so the three numbers are mutually consistent.
type ItemCounts struct {
	Total   int
	Learned int
	Due     int
}

// ItemStore defines the interface for item data persistence.
type ItemStore interface {
	// GetByID retrieves an item by its unique ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)

	// ListByDeck retrieves all items in a deck ordered by their Order field.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error)

	// ListDue retrieves the items a learner should see now: unlearned
	// reviewed items whose next review time has passed, plus up to
	// newLimit new items whose unlock date has passed. Reviews come
	// before new items; within each group deck order is preserved.
	// A negative newLimit means no limit on new items.
	ListDue(ctx context.Context, deckID uuid.UUID, now time.Time, newLimit int) ([]*domain.Item, error)

	// ListUnlearned retrieves every item in the deck that is not yet
	// learned, in deck order, regardless of scheduling. Used for
	// all-at-once decks, where a just-failed item stays available for
	// immediate re-drill instead of waiting out its review interval.
	ListUnlearned(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error)

	// CountByDeck returns total, learned and currently-due counts for the deck.
	CountByDeck(ctx context.Context, deckID uuid.UUID, now time.Time) (ItemCounts, error)

	// Save writes an item's scheduling and statistics fields. Content
	// fields are not touched; use Update for content edits.
	// Returns ErrItemNotFound if the item does not exist.
	Save(ctx context.Context, item *domain.Item) error

	// Update modifies an existing item's content fields.
	// Returns ErrItemNotFound if the item does not exist.
	Update(ctx context.Context, item *domain.Item) error

	// CreateMultiple saves multiple items to the store.
	// This method MUST be run within a transaction for atomicity; use
	// WithTx together with store.RunInTransaction. Calling it outside a
	// transaction may leave a partially inserted deck on failure.
	CreateMultiple(ctx context.Context, items []*domain.Item) error

	// Delete removes a single item from the store by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByDeck removes all items belonging to the deck.
	DeleteByDeck(ctx context.Context, deckID uuid.UUID) error

	// ResetByDeck restores every item in the deck to its initial
	// scheduling state, keeping content intact.
	ResetByDeck(ctx context.Context, deckID uuid.UUID) error

	// WithTx returns a new ItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ItemStore
}
