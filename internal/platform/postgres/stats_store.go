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

const statsColumns = `id, user_id, stat_date, new_cards_learned, cards_reviewed,
	correct_answers, incorrect_answers, study_time_seconds, decks_studied,
	sessions_completed`

// PostgresStatsStore implements the store.StatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatsStore creates a new PostgreSQL implementation of the StatsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresStatsStore(db store.DBTX, logger *slog.Logger) *PostgresStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "stats_store")),
	}
}

// Ensure PostgresStatsStore implements store.StatsStore interface
var _ store.StatsStore = (*PostgresStatsStore)(nil)

// GetDaily implements store.StatsStore.GetDaily
// Returns store.ErrStatsNotFound if the user has no activity that day.
func (s *PostgresStatsStore) GetDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyStats, error) {
	query := `SELECT ` + statsColumns + ` FROM daily_stats
		WHERE user_id = $1 AND stat_date = $2`

	stats, err := scanStats(s.db.QueryRowContext(ctx, query, userID, domain.StatsDay(day)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatsNotFound
		}
		return nil, err
	}

	return stats, nil
}

// Upsert implements store.StatsStore.Upsert
// Inserts the row if the (user, day) pair has none yet, otherwise overwrites
// the counters with the caller's folded values.
func (s *PostgresStatsStore) Upsert(ctx context.Context, stats *domain.DailyStats) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	decks, err := json.Marshal(stats.DecksStudied)
	if err != nil {
		return fmt.Errorf("failed to marshal decks studied: %w", err)
	}

	query := `
		INSERT INTO daily_stats (id, user_id, stat_date, new_cards_learned,
			cards_reviewed, correct_answers, incorrect_answers,
			study_time_seconds, decks_studied, sessions_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, stat_date) DO UPDATE
		SET new_cards_learned = EXCLUDED.new_cards_learned,
			cards_reviewed = EXCLUDED.cards_reviewed,
			correct_answers = EXCLUDED.correct_answers,
			incorrect_answers = EXCLUDED.incorrect_answers,
			study_time_seconds = EXCLUDED.study_time_seconds,
			decks_studied = EXCLUDED.decks_studied,
			sessions_completed = EXCLUDED.sessions_completed
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		stats.ID,
		stats.UserID,
		domain.StatsDay(stats.Date),
		stats.NewCardsLearned,
		stats.CardsReviewed,
		stats.CorrectAnswers,
		stats.IncorrectAnswers,
		stats.StudyTimeSeconds,
		decks,
		stats.SessionsCompleted,
	)
	if err != nil {
		log.Error("failed to upsert daily stats",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return MapError(err)
	}

	return nil
}

// ListRange implements store.StatsStore.ListRange
func (s *PostgresStatsStore) ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.DailyStats, error) {
	query := `SELECT ` + statsColumns + ` FROM daily_stats
		WHERE user_id = $1 AND stat_date BETWEEN $2 AND $3
		ORDER BY stat_date`

	rows, err := s.db.QueryContext(ctx, query, userID, domain.StatsDay(from), domain.StatsDay(to))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var all []*domain.DailyStats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, stats)
	}

	return all, rows.Err()
}

// WithTx implements store.StatsStore.WithTx
func (s *PostgresStatsStore) WithTx(tx *sql.Tx) store.StatsStore {
	return &PostgresStatsStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanStats(row rowScanner) (*domain.DailyStats, error) {
	var stats domain.DailyStats
	var decks []byte

	err := row.Scan(
		&stats.ID,
		&stats.UserID,
		&stats.Date,
		&stats.NewCardsLearned,
		&stats.CardsReviewed,
		&stats.CorrectAnswers,
		&stats.IncorrectAnswers,
		&stats.StudyTimeSeconds,
		&decks,
		&stats.SessionsCompleted,
	)
	if err != nil {
		return nil, err
	}

	stats.DecksStudied = []uuid.UUID{}
	if len(decks) > 0 {
		if err := json.Unmarshal(decks, &stats.DecksStudied); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decks studied: %w", err)
		}
	}

	return &stats, nil
}
