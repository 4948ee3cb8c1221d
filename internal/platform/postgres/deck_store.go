package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const deckColumns = `id, owner_id, name, description, author_name, content_type,
	learning_mode, cards_per_day, is_public, plays_count, views_count,
	created_at, updated_at`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return err
	}

	query := `
		INSERT INTO decks (id, owner_id, name, description, author_name,
			content_type, learning_mode, cards_per_day, is_public,
			plays_count, views_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		deck.AuthorName,
		deck.ContentType,
		deck.LearningMode,
		deck.CardsPerDay,
		deck.IsPublic,
		deck.PlaysCount,
		deck.ViewsCount,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()),
			slog.String("owner_id", deck.OwnerID.String()))
		return MapError(err)
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", deck.OwnerID.String()),
		slog.String("learning_mode", string(deck.LearningMode)))
	return nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = $1`

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return nil, err
	}

	return deck, nil
}

// ListByOwner implements store.DeckStore.ListByOwner
func (s *PostgresDeckStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + deckColumns + ` FROM decks WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list decks by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var decks []*domain.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}

	return decks, rows.Err()
}

// ListPublic implements store.DeckStore.ListPublic
func (s *PostgresDeckStore) ListPublic(ctx context.Context) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + deckColumns + ` FROM decks WHERE is_public ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list public decks",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var decks []*domain.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}

	return decks, rows.Err()
}

// Update implements store.DeckStore.Update
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE decks
		SET name = $2, description = $3, author_name = $4, cards_per_day = $5,
			is_public = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deck.ID,
		deck.Name,
		deck.Description,
		deck.AuthorName,
		deck.CardsPerDay,
		deck.IsPublic,
		deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "deck")
}

// Delete implements store.DeckStore.Delete
// Items, invitations, access records and review history are removed by
// ON DELETE CASCADE.
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "deck"); err != nil {
		return err
	}

	log.Info("deck deleted", slog.String("deck_id", id.String()))
	return nil
}

// IncrementViews implements store.DeckStore.IncrementViews
func (s *PostgresDeckStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE decks SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "deck")
}

// IncrementPlays implements store.DeckStore.IncrementPlays
func (s *PostgresDeckStore) IncrementPlays(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE decks SET plays_count = plays_count + 1 WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "deck")
}

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var deck domain.Deck
	var contentType, learningMode string

	err := row.Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.Description,
		&deck.AuthorName,
		&contentType,
		&learningMode,
		&deck.CardsPerDay,
		&deck.IsPublic,
		&deck.PlaysCount,
		&deck.ViewsCount,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deck.ContentType = domain.ContentType(contentType)
	deck.LearningMode = domain.LearningMode(learningMode)
	return &deck, nil
}
