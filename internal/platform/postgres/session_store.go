package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const sessionColumns = `id, deck_id, teacher_id, session_code, max_participants,
	status, participants, created_at, started_at, completed_at`

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
// Returns store.ErrCodeExists when the session code collides with another
// joinable session, so the caller can regenerate and retry.
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.LiveSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	participants, err := json.Marshal(session.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		INSERT INTO live_sessions (id, deck_id, teacher_id, session_code,
			max_participants, status, participants, created_at, started_at,
			completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.DeckID,
		session.TeacherID,
		session.SessionCode,
		session.MaxParticipants,
		session.Status,
		participants,
		session.CreatedAt,
		session.StartedAt,
		session.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("session code collision",
				slog.String("session_id", session.ID.String()))
			return MapUniqueViolation(err, store.ErrCodeExists)
		}
		log.Error("failed to create live session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("live session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", session.DeckID.String()))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM live_sessions WHERE id = $1`
	return s.getSession(ctx, query, id)
}

// GetByIDForUpdate implements store.SessionStore.GetByIDForUpdate
// The row lock serializes concurrent roster writes on the session.
func (s *PostgresSessionStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM live_sessions WHERE id = $1 FOR UPDATE`
	return s.getSession(ctx, query, id)
}

// GetByCodeAndStatus implements store.SessionStore.GetByCodeAndStatus
// Returns store.ErrSessionNotFound if no session with the code is in any of
// the given statuses.
func (s *PostgresSessionStore) GetByCodeAndStatus(ctx context.Context, code string, statuses ...domain.SessionStatus) (*domain.LiveSession, error) {
	if len(statuses) == 0 {
		return nil, store.ErrSessionNotFound
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, 0, len(statuses)+1)
	args = append(args, code)
	for i, status := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, status)
	}

	query := `SELECT ` + sessionColumns + ` FROM live_sessions
		WHERE session_code = $1 AND status IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY created_at DESC
		LIMIT 1`

	return s.getSession(ctx, query, args...)
}

// ListByTeacher implements store.SessionStore.ListByTeacher
func (s *PostgresSessionStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.LiveSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + sessionColumns + ` FROM live_sessions
		WHERE teacher_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		log.Error("failed to list live sessions",
			slog.String("error", err.Error()),
			slog.String("teacher_id", teacherID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.LiveSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Update implements store.SessionStore.Update
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.LiveSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		return err
	}

	participants, err := json.Marshal(session.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		UPDATE live_sessions
		SET status = $2, participants = $3, started_at = $4, completed_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.Status,
		participants,
		session.StartedAt,
		session.CompletedAt,
	)
	if err != nil {
		log.Error("failed to update live session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "live session"); err != nil {
		return store.ErrSessionNotFound
	}
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresSessionStore) getSession(ctx context.Context, query string, args ...any) (*domain.LiveSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get live session", slog.String("error", err.Error()))
		return nil, err
	}

	return session, nil
}

func scanSession(row rowScanner) (*domain.LiveSession, error) {
	var session domain.LiveSession
	var status string
	var participants []byte

	err := row.Scan(
		&session.ID,
		&session.DeckID,
		&session.TeacherID,
		&session.SessionCode,
		&session.MaxParticipants,
		&status,
		&participants,
		&session.CreatedAt,
		&session.StartedAt,
		&session.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	session.Participants = []domain.Participant{}
	if len(participants) > 0 {
		if err := json.Unmarshal(participants, &session.Participants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
		}
	}

	return &session, nil
}
