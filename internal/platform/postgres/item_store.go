package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const itemColumns = `id, deck_id, type, item_order, front, back, image_query,
	image_url, question, options, correct_answers, explanation, is_new,
	is_learned, repetitions, interval_days, ease_factor, times_reviewed,
	times_correct, times_incorrect, difficulty, last_review, next_review,
	unlock_date, created_at`

// dueCondition matches items a learner should see at the given time: an
// unlocked new item, or a reviewed-but-unlearned item whose next review time
// has passed. Keep in sync with domain.Item.IsDue.
const dueCondition = `((is_new AND unlock_date <= %[1]s)
	OR (NOT is_new AND NOT is_learned AND next_review IS NOT NULL AND next_review <= %[1]s))`

// PostgresItemStore implements the store.ItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// Ensure PostgresItemStore implements store.ItemStore interface
var _ store.ItemStore = (*PostgresItemStore)(nil)

// GetByID implements store.ItemStore.GetByID
// Returns store.ErrItemNotFound if the item does not exist.
func (s *PostgresItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return item, nil
}

// ListByDeck implements store.ItemStore.ListByDeck
func (s *PostgresItemStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE deck_id = $1 ORDER BY item_order`
	return s.queryItems(ctx, query, deckID)
}

// ListDue implements store.ItemStore.ListDue
// Review items come first, then up to newLimit new items; deck order is
// preserved within each group.
func (s *PostgresItemStore) ListDue(ctx context.Context, deckID uuid.UUID, now time.Time, newLimit int) ([]*domain.Item, error) {
	reviewQuery := `SELECT ` + itemColumns + ` FROM items
		WHERE deck_id = $1
			AND NOT is_new AND NOT is_learned
			AND next_review IS NOT NULL AND next_review <= $2
		ORDER BY item_order`

	reviews, err := s.queryItems(ctx, reviewQuery, deckID, now)
	if err != nil {
		return nil, err
	}

	if newLimit == 0 {
		return reviews, nil
	}

	newQuery := `SELECT ` + itemColumns + ` FROM items
		WHERE deck_id = $1 AND is_new AND unlock_date <= $2
		ORDER BY item_order`
	args := []any{deckID, now}
	if newLimit > 0 {
		newQuery += ` LIMIT $3`
		args = append(args, newLimit)
	}

	fresh, err := s.queryItems(ctx, newQuery, args...)
	if err != nil {
		return nil, err
	}

	return append(reviews, fresh...), nil
}

// ListUnlearned implements store.ItemStore.ListUnlearned
func (s *PostgresItemStore) ListUnlearned(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE deck_id = $1 AND NOT is_learned
		ORDER BY item_order`
	return s.queryItems(ctx, query, deckID)
}

// CountByDeck implements store.ItemStore.CountByDeck
// A single aggregate query so the three counts see the same snapshot.
func (s *PostgresItemStore) CountByDeck(ctx context.Context, deckID uuid.UUID, now time.Time) (store.ItemCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_learned),
			COUNT(*) FILTER (WHERE `+dueCondition+`)
		FROM items
		WHERE deck_id = $1
	`, "$2")

	var counts store.ItemCounts
	err := s.db.QueryRowContext(ctx, query, deckID, now).Scan(
		&counts.Total,
		&counts.Learned,
		&counts.Due,
	)
	if err != nil {
		log.Error("failed to count items",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return store.ItemCounts{}, err
	}

	return counts, nil
}

// Save implements store.ItemStore.Save
// Writes only scheduling and statistics fields.
func (s *PostgresItemStore) Save(ctx context.Context, item *domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("item validation failed during save",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		UPDATE items
		SET is_new = $2, is_learned = $3, repetitions = $4, interval_days = $5,
			ease_factor = $6, times_reviewed = $7, times_correct = $8,
			times_incorrect = $9, difficulty = $10, last_review = $11,
			next_review = $12
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.IsNew,
		item.IsLearned,
		item.Repetitions,
		item.Interval,
		item.EaseFactor,
		item.TimesReviewed,
		item.TimesCorrect,
		item.TimesIncorrect,
		item.Difficulty,
		item.LastReview,
		item.NextReview,
	)
	if err != nil {
		log.Error("failed to save item scheduling state",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "item")
}

// Update implements store.ItemStore.Update
// Writes only content fields.
func (s *PostgresItemStore) Update(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	options, correctAnswers, err := marshalQuizContent(item)
	if err != nil {
		return err
	}

	query := `
		UPDATE items
		SET front = $2, back = $3, image_query = $4, image_url = $5,
			question = $6, options = $7, correct_answers = $8,
			explanation = $9, item_order = $10
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Front,
		item.Back,
		item.ImageQuery,
		item.ImageURL,
		item.Question,
		options,
		correctAnswers,
		item.Explanation,
		item.Order,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "item")
}

// CreateMultiple implements store.ItemStore.CreateMultiple
// Run within a transaction via WithTx so a failed insert leaves no partial deck.
func (s *PostgresItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO items (id, deck_id, type, item_order, front, back,
			image_query, image_url, question, options, correct_answers,
			explanation, is_new, is_learned, repetitions, interval_days,
			ease_factor, times_reviewed, times_correct, times_incorrect,
			difficulty, last_review, next_review, unlock_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn("item validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return err
		}

		options, correctAnswers, err := marshalQuizContent(item)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(
			ctx,
			item.ID,
			item.DeckID,
			item.Type,
			item.Order,
			item.Front,
			item.Back,
			item.ImageQuery,
			item.ImageURL,
			item.Question,
			options,
			correctAnswers,
			item.Explanation,
			item.IsNew,
			item.IsLearned,
			item.Repetitions,
			item.Interval,
			item.EaseFactor,
			item.TimesReviewed,
			item.TimesCorrect,
			item.TimesIncorrect,
			item.Difficulty,
			item.LastReview,
			item.NextReview,
			item.UnlockDate,
			item.CreatedAt,
		)
		if err != nil {
			log.Error("failed to insert item",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
			return MapError(err)
		}
	}

	log.Info("items created successfully", slog.Int("count", len(items)))
	return nil
}

// Delete implements store.ItemStore.Delete
func (s *PostgresItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, "item")
}

// DeleteByDeck implements store.ItemStore.DeleteByDeck
func (s *PostgresItemStore) DeleteByDeck(ctx context.Context, deckID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE deck_id = $1`, deckID)
	return MapError(err)
}

// ResetByDeck implements store.ItemStore.ResetByDeck
// Restores initial scheduling state for every item in the deck.
func (s *PostgresItemStore) ResetByDeck(ctx context.Context, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE items
		SET is_new = TRUE, is_learned = FALSE, repetitions = 0,
			interval_days = 0, ease_factor = $2, times_reviewed = 0,
			times_correct = 0, times_incorrect = 0, difficulty = 0,
			last_review = NULL, next_review = NULL
		WHERE deck_id = $1
	`
	_, err := s.db.ExecContext(ctx, query, deckID, domain.DefaultEaseFactor)
	if err != nil {
		log.Error("failed to reset deck items",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}

	log.Info("deck progress reset", slog.String("deck_id", deckID.String()))
	return nil
}

// WithTx implements store.ItemStore.WithTx
func (s *PostgresItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return &PostgresItemStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresItemStore) queryItems(ctx context.Context, query string, args ...any) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("item query failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var itemType string
	var options, correctAnswers []byte

	err := row.Scan(
		&item.ID,
		&item.DeckID,
		&itemType,
		&item.Order,
		&item.Front,
		&item.Back,
		&item.ImageQuery,
		&item.ImageURL,
		&item.Question,
		&options,
		&correctAnswers,
		&item.Explanation,
		&item.IsNew,
		&item.IsLearned,
		&item.Repetitions,
		&item.Interval,
		&item.EaseFactor,
		&item.TimesReviewed,
		&item.TimesCorrect,
		&item.TimesIncorrect,
		&item.Difficulty,
		&item.LastReview,
		&item.NextReview,
		&item.UnlockDate,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Type = domain.ItemType(itemType)

	if len(options) > 0 {
		if err := json.Unmarshal(options, &item.Options); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item options: %w", err)
		}
	}
	if len(correctAnswers) > 0 {
		if err := json.Unmarshal(correctAnswers, &item.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item correct answers: %w", err)
		}
	}

	return &item, nil
}

// marshalQuizContent serializes the quiz JSONB columns. Flashcards store
// NULL rather than empty arrays.
func marshalQuizContent(item *domain.Item) (options, correctAnswers []byte, err error) {
	if item.Type != domain.ItemTypeQuizQuestion {
		return nil, nil, nil
	}

	options, err = json.Marshal(item.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal item options: %w", err)
	}

	correctAnswers, err = json.Marshal(item.CorrectAnswers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal item correct answers: %w", err)
	}

	return options, correctAnswers, nil
}
