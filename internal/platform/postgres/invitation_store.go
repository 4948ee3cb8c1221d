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

const invitationColumns = `id, deck_id, teacher_id, code, uses_count, max_uses,
	expires_at, is_active, joined_students, created_at`

// PostgresInvitationStore implements the store.InvitationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInvitationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInvitationStore creates a new PostgreSQL implementation of the InvitationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresInvitationStore(db store.DBTX, logger *slog.Logger) *PostgresInvitationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInvitationStore{
		db:     db,
		logger: logger.With(slog.String("component", "invitation_store")),
	}
}

// Ensure PostgresInvitationStore implements store.InvitationStore interface
var _ store.InvitationStore = (*PostgresInvitationStore)(nil)

// Create implements store.InvitationStore.Create
// Returns store.ErrCodeExists when the code collides with another active
// invitation, so the caller can regenerate and retry.
func (s *PostgresInvitationStore) Create(ctx context.Context, inv *domain.Invitation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := inv.Validate(); err != nil {
		log.Warn("invitation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("invitation_id", inv.ID.String()))
		return err
	}

	joined, err := json.Marshal(inv.JoinedStudents)
	if err != nil {
		return fmt.Errorf("failed to marshal joined students: %w", err)
	}

	query := `
		INSERT INTO invitations (id, deck_id, teacher_id, code, uses_count,
			max_uses, expires_at, is_active, joined_students, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		inv.ID,
		inv.DeckID,
		inv.TeacherID,
		inv.Code,
		inv.UsesCount,
		inv.MaxUses,
		inv.ExpiresAt,
		inv.IsActive,
		joined,
		inv.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("invitation code collision",
				slog.String("invitation_id", inv.ID.String()))
			return MapUniqueViolation(err, store.ErrCodeExists)
		}
		log.Error("failed to create invitation",
			slog.String("error", err.Error()),
			slog.String("invitation_id", inv.ID.String()))
		return MapError(err)
	}

	log.Info("invitation created successfully",
		slog.String("invitation_id", inv.ID.String()),
		slog.String("deck_id", inv.DeckID.String()))
	return nil
}

// GetByID implements store.InvitationStore.GetByID
func (s *PostgresInvitationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`
	return s.getInvitation(ctx, query, id)
}

// GetActiveByCode implements store.InvitationStore.GetActiveByCode
// Returns store.ErrInvitationNotFound if no active invitation has the code.
func (s *PostgresInvitationStore) GetActiveByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE code = $1 AND is_active`
	return s.getInvitation(ctx, query, code)
}

// GetActiveByDeckAndTeacher implements store.InvitationStore.GetActiveByDeckAndTeacher
// Returns store.ErrInvitationNotFound if none is active for the pair.
func (s *PostgresInvitationStore) GetActiveByDeckAndTeacher(ctx context.Context, deckID, teacherID uuid.UUID) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE deck_id = $1 AND teacher_id = $2 AND is_active
		ORDER BY created_at DESC
		LIMIT 1`
	return s.getInvitation(ctx, query, deckID, teacherID)
}

// ListByTeacher implements store.InvitationStore.ListByTeacher
func (s *PostgresInvitationStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.Invitation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE teacher_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		log.Error("failed to list invitations",
			slog.String("error", err.Error()),
			slog.String("teacher_id", teacherID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var invitations []*domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// Update implements store.InvitationStore.Update
// Writes the redemption state fields.
func (s *PostgresInvitationStore) Update(ctx context.Context, inv *domain.Invitation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := inv.Validate(); err != nil {
		return err
	}

	joined, err := json.Marshal(inv.JoinedStudents)
	if err != nil {
		return fmt.Errorf("failed to marshal joined students: %w", err)
	}

	query := `
		UPDATE invitations
		SET uses_count = $2, joined_students = $3, is_active = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, inv.ID, inv.UsesCount, joined, inv.IsActive)
	if err != nil {
		log.Error("failed to update invitation",
			slog.String("error", err.Error()),
			slog.String("invitation_id", inv.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "invitation"); err != nil {
		return store.ErrInvitationNotFound
	}
	return nil
}

// Deactivate implements store.InvitationStore.Deactivate
func (s *PostgresInvitationStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "invitation"); err != nil {
		return store.ErrInvitationNotFound
	}

	log.Info("invitation deactivated", slog.String("invitation_id", id.String()))
	return nil
}

// WithTx implements store.InvitationStore.WithTx
func (s *PostgresInvitationStore) WithTx(tx *sql.Tx) store.InvitationStore {
	return &PostgresInvitationStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresInvitationStore) getInvitation(ctx context.Context, query string, args ...any) (*domain.Invitation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	inv, err := scanInvitation(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInvitationNotFound
		}
		log.Error("failed to get invitation", slog.String("error", err.Error()))
		return nil, err
	}

	return inv, nil
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	var inv domain.Invitation
	var joined []byte

	err := row.Scan(
		&inv.ID,
		&inv.DeckID,
		&inv.TeacherID,
		&inv.Code,
		&inv.UsesCount,
		&inv.MaxUses,
		&inv.ExpiresAt,
		&inv.IsActive,
		&joined,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.JoinedStudents = []uuid.UUID{}
	if len(joined) > 0 {
		if err := json.Unmarshal(joined, &inv.JoinedStudents); err != nil {
			return nil, fmt.Errorf("failed to unmarshal joined students: %w", err)
		}
	}

	return &inv, nil
}
