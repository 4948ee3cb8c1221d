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

// PostgresStudyStore implements the store.StudyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudyStore creates a new PostgreSQL implementation of the StudyStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStudyStore(db store.DBTX, logger *slog.Logger) *PostgresStudyStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudyStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_store")),
	}
}

// Ensure PostgresStudyStore implements store.StudyStore interface
var _ store.StudyStore = (*PostgresStudyStore)(nil)

// CreateSession implements store.StudyStore.CreateSession
func (s *PostgresStudyStore) CreateSession(ctx context.Context, session *domain.StudySession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO study_sessions (id, user_id, deck_id, total_cards, correct,
			incorrect, skipped, started_at, completed_at, duration_seconds,
			accuracy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.DeckID,
		session.TotalCards,
		session.Correct,
		session.Incorrect,
		session.Skipped,
		session.StartedAt,
		session.CompletedAt,
		session.DurationSeconds,
		session.Accuracy,
	)
	if err != nil {
		log.Error("failed to create study session",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()),
			slog.String("deck_id", session.DeckID.String()))
		return MapError(err)
	}

	log.Info("study session recorded",
		slog.String("user_id", session.UserID.String()),
		slog.String("deck_id", session.DeckID.String()),
		slog.Int("total_cards", session.TotalCards))
	return nil
}

// ListByUser implements store.StudyStore.ListByUser
func (s *PostgresStudyStore) ListByUser(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*domain.StudySession, error) {
	query := `
		SELECT id, user_id, deck_id, total_cards, correct, incorrect, skipped,
			started_at, completed_at, duration_seconds, accuracy
		FROM study_sessions
		WHERE user_id = $1
	`
	args := []any{userID}
	if deckID != nil {
		query += ` AND deck_id = $2`
		args = append(args, *deckID)
	}
	query += ` ORDER BY completed_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.StudySession
	for rows.Next() {
		var session domain.StudySession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.DeckID,
			&session.TotalCards,
			&session.Correct,
			&session.Incorrect,
			&session.Skipped,
			&session.StartedAt,
			&session.CompletedAt,
			&session.DurationSeconds,
			&session.Accuracy,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// WithTx implements store.StudyStore.WithTx
func (s *PostgresStudyStore) WithTx(tx *sql.Tx) store.StudyStore {
	return &PostgresStudyStore{
		db:     tx,
		logger: s.logger,
	}
}
