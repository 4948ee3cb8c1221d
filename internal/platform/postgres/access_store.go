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

const accessColumns = `id, student_id, deck_id, teacher_id, invitation_code,
	progress, cards_studied, last_studied, joined_at, is_active`

// PostgresAccessStore implements the store.AccessStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccessStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAccessStore creates a new PostgreSQL implementation of the AccessStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresAccessStore(db store.DBTX, logger *slog.Logger) *PostgresAccessStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccessStore{
		db:     db,
		logger: logger.With(slog.String("component", "access_store")),
	}
}

// Ensure PostgresAccessStore implements store.AccessStore interface
var _ store.AccessStore = (*PostgresAccessStore)(nil)

// Create implements store.AccessStore.Create
// Returns store.ErrDuplicate if the (student, deck) pair already has a record.
func (s *PostgresAccessStore) Create(ctx context.Context, access *domain.StudentDeckAccess) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := access.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO student_deck_access (id, student_id, deck_id, teacher_id,
			invitation_code, progress, cards_studied, last_studied, joined_at,
			is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		access.ID,
		access.StudentID,
		access.DeckID,
		access.TeacherID,
		access.InvitationCode,
		access.Progress,
		access.CardsStudied,
		access.LastStudied,
		access.JoinedAt,
		access.IsActive,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return MapUniqueViolation(err, store.ErrDuplicate)
		}
		log.Error("failed to create access record",
			slog.String("error", err.Error()),
			slog.String("student_id", access.StudentID.String()),
			slog.String("deck_id", access.DeckID.String()))
		return MapError(err)
	}

	log.Info("deck access granted",
		slog.String("student_id", access.StudentID.String()),
		slog.String("deck_id", access.DeckID.String()))
	return nil
}

// Get implements store.AccessStore.Get
// Returns store.ErrAccessNotFound if the student has no access to the deck.
func (s *PostgresAccessStore) Get(ctx context.Context, studentID, deckID uuid.UUID) (*domain.StudentDeckAccess, error) {
	query := `SELECT ` + accessColumns + ` FROM student_deck_access
		WHERE student_id = $1 AND deck_id = $2 AND is_active`

	access, err := scanAccess(s.db.QueryRowContext(ctx, query, studentID, deckID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccessNotFound
		}
		return nil, err
	}

	return access, nil
}

// ListByTeacher implements store.AccessStore.ListByTeacher
func (s *PostgresAccessStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.StudentDeckAccess, error) {
	query := `SELECT ` + accessColumns + ` FROM student_deck_access
		WHERE teacher_id = $1 AND is_active
		ORDER BY joined_at DESC`
	return s.queryAccess(ctx, query, teacherID)
}

// ListByStudent implements store.AccessStore.ListByStudent
func (s *PostgresAccessStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.StudentDeckAccess, error) {
	query := `SELECT ` + accessColumns + ` FROM student_deck_access
		WHERE student_id = $1 AND is_active
		ORDER BY joined_at DESC`
	return s.queryAccess(ctx, query, studentID)
}

// UpdateProgress implements store.AccessStore.UpdateProgress
// Returns store.ErrAccessNotFound if the record does not exist.
func (s *PostgresAccessStore) UpdateProgress(ctx context.Context, access *domain.StudentDeckAccess) error {
	query := `
		UPDATE student_deck_access
		SET progress = $2, cards_studied = $3, last_studied = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		access.ID,
		access.Progress,
		access.CardsStudied,
		access.LastStudied,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "deck access"); err != nil {
		return store.ErrAccessNotFound
	}
	return nil
}

// WithTx implements store.AccessStore.WithTx
func (s *PostgresAccessStore) WithTx(tx *sql.Tx) store.AccessStore {
	return &PostgresAccessStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresAccessStore) queryAccess(ctx context.Context, query string, args ...any) ([]*domain.StudentDeckAccess, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("access query failed", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.StudentDeckAccess
	for rows.Next() {
		access, err := scanAccess(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, access)
	}

	return records, rows.Err()
}

func scanAccess(row rowScanner) (*domain.StudentDeckAccess, error) {
	var access domain.StudentDeckAccess

	err := row.Scan(
		&access.ID,
		&access.StudentID,
		&access.DeckID,
		&access.TeacherID,
		&access.InvitationCode,
		&access.Progress,
		&access.CardsStudied,
		&access.LastStudied,
		&access.JoinedAt,
		&access.IsActive,
	)
	if err != nil {
		return nil, err
	}

	return &access, nil
}
