package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// Create implements store.ReviewStore.Create
func (s *PostgresReviewStore) Create(ctx context.Context, rec *domain.ReviewRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := rec.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO review_records (id, item_id, user_id, deck_id, quality,
			time_taken_ms, interval_before, interval_after, ease_factor_after,
			created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.ItemID,
		rec.UserID,
		rec.DeckID,
		rec.Quality,
		rec.TimeTakenMs,
		rec.IntervalBefore,
		rec.IntervalAfter,
		rec.EaseFactorAfter,
		rec.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create review record",
			slog.String("error", err.Error()),
			slog.String("item_id", rec.ItemID.String()))
		return MapError(err)
	}

	return nil
}

// ListByItem implements store.ReviewStore.ListByItem
func (s *PostgresReviewStore) ListByItem(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.ReviewRecord, error) {
	query := `
		SELECT id, item_id, user_id, deck_id, quality, time_taken_ms,
			interval_before, interval_after, ease_factor_after, created_at
		FROM review_records
		WHERE user_id = $1 AND item_id = $2
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID, itemID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.ReviewRecord
	for rows.Next() {
		var rec domain.ReviewRecord
		err := rows.Scan(
			&rec.ID,
			&rec.ItemID,
			&rec.UserID,
			&rec.DeckID,
			&rec.Quality,
			&rec.TimeTakenMs,
			&rec.IntervalBefore,
			&rec.IntervalAfter,
			&rec.EaseFactorAfter,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// WithTx implements store.ReviewStore.WithTx
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{
		db:     tx,
		logger: s.logger,
	}
}
