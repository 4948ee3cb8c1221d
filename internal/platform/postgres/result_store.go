package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const resultColumns = `id, session_id, nickname, score, correct_count,
	incorrect_count, answers, version, created_at`

// PostgresResultStore implements the store.ResultStore interface
// using a PostgreSQL database as the storage backend.
type PostgresResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResultStore creates a new PostgreSQL implementation of the ResultStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresResultStore(db store.DBTX, logger *slog.Logger) *PostgresResultStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "result_store")),
	}
}

// Ensure PostgresResultStore implements store.ResultStore interface
var _ store.ResultStore = (*PostgresResultStore)(nil)

// Create implements store.ResultStore.Create
// Returns store.ErrDuplicate if the (session, nickname) pair already has a row.
func (s *PostgresResultStore) Create(ctx context.Context, result *domain.LiveSessionResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return err
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO live_session_results (id, session_id, nickname, score,
			correct_count, incorrect_count, answers, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.SessionID,
		result.Nickname,
		result.Score,
		result.CorrectCount,
		result.IncorrectCount,
		answers,
		result.Version,
		result.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrDuplicate)
		}
		log.Error("failed to create session result",
			slog.String("error", err.Error()),
			slog.String("session_id", result.SessionID.String()),
			slog.String("nickname", result.Nickname))
		return MapError(err)
	}

	return nil
}

// Get implements store.ResultStore.Get
// Returns store.ErrResultNotFound if no result exists for the participant.
func (s *PostgresResultStore) Get(ctx context.Context, sessionID uuid.UUID, nickname string) (*domain.LiveSessionResult, error) {
	query := `SELECT ` + resultColumns + ` FROM live_session_results
		WHERE session_id = $1 AND nickname = $2`

	result, err := scanResult(s.db.QueryRowContext(ctx, query, sessionID, nickname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResultNotFound
		}
		return nil, err
	}

	return result, nil
}

// ListBySession implements store.ResultStore.ListBySession
// Results come back highest score first, ready for leaderboard rendering.
func (s *PostgresResultStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.LiveSessionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + resultColumns + ` FROM live_session_results
		WHERE session_id = $1
		ORDER BY score DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Error("failed to list session results",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []*domain.LiveSessionResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// UpdateVersioned implements store.ResultStore.UpdateVersioned
// The UPDATE is conditional on the version the caller read; a concurrent
// writer that got there first leaves zero rows matched and the caller gets
// store.ErrConflict to re-read and retry.
func (s *PostgresResultStore) UpdateVersioned(ctx context.Context, result *domain.LiveSessionResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return err
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		UPDATE live_session_results
		SET score = $3, correct_count = $4, incorrect_count = $5,
			answers = $6, version = version + 1
		WHERE id = $1 AND version = $2
	`
	execResult, err := s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.Version,
		result.Score,
		result.CorrectCount,
		result.IncorrectCount,
		answers,
	)
	if err != nil {
		log.Error("failed to update session result",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := execResult.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Zero rows means either a stale version or a missing row;
		// probe which so callers retry only genuine conflicts.
		var exists bool
		probeErr := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM live_session_results WHERE id = $1)`,
			result.ID).Scan(&exists)
		if probeErr != nil {
			return probeErr
		}
		if !exists {
			return store.ErrResultNotFound
		}

		log.Debug("version conflict on session result",
			slog.String("result_id", result.ID.String()),
			slog.Int("version", result.Version))
		return store.ErrConflict
	}

	result.Version++
	return nil
}

// WithTx implements store.ResultStore.WithTx
func (s *PostgresResultStore) WithTx(tx *sql.Tx) store.ResultStore {
	return &PostgresResultStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanResult(row rowScanner) (*domain.LiveSessionResult, error) {
	var result domain.LiveSessionResult
	var answers []byte

	err := row.Scan(
		&result.ID,
		&result.SessionID,
		&result.Nickname,
		&result.Score,
		&result.CorrectCount,
		&result.IncorrectCount,
		&answers,
		&result.Version,
		&result.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	result.Answers = []domain.AnswerRecord{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &result.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}

	return &result, nil
}
