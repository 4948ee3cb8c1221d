package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck to the store.
	// Returns validation errors from the domain Deck if data is invalid.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListByOwner retrieves all decks owned by the given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)

	// ListPublic retrieves all decks marked public, newest first. This is
	// the discovery surface for cloning decks from other teachers.
	ListPublic(ctx context.Context) ([]*domain.Deck, error)

	// Update modifies an existing deck's metadata fields.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck from the store by its ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	//
	// Items, invitations, access records and review history belonging to
	// the deck are removed by ON DELETE CASCADE foreign key constraints.
	// If the schema ever drops those constraints this method must delete
	// the dependent rows itself.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViews atomically bumps the deck's view counter.
	// Returns ErrDeckNotFound if the deck does not exist.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// IncrementPlays atomically bumps the deck's play counter.
	// Returns ErrDeckNotFound if the deck does not exist.
	IncrementPlays(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
