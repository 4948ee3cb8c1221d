package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// InvitationStore defines the interface for invitation data persistence.
type InvitationStore interface {
	// Create saves a new invitation to the store.
	// Invitation codes carry a unique constraint; Create returns
	// ErrCodeExists on collision so the caller can regenerate the code
	// and retry.
	Create(ctx context.Context, inv *domain.Invitation) error

	// GetByID retrieves an invitation by its ID, active or not.
	// Returns ErrInvitationNotFound if the invitation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error)

	// GetActiveByCode retrieves the active invitation with the given code.
	// Deactivated invitations are not matched.
	// Returns ErrInvitationNotFound if no active invitation has the code.
	GetActiveByCode(ctx context.Context, code string) (*domain.Invitation, error)

	// GetActiveByDeckAndTeacher retrieves the active invitation a teacher
	// has issued for a deck, if any. At most one exists per (deck, teacher).
	// Returns ErrInvitationNotFound if none is active.
	GetActiveByDeckAndTeacher(ctx context.Context, deckID, teacherID uuid.UUID) (*domain.Invitation, error)

	// ListByTeacher retrieves all invitations issued by the teacher, newest first.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.Invitation, error)

	// Update writes an invitation's redemption state (uses count, students used).
	// Returns ErrInvitationNotFound if the invitation does not exist.
	Update(ctx context.Context, inv *domain.Invitation) error

	// Deactivate marks the invitation inactive so its code stops redeeming.
	// Returns ErrInvitationNotFound if the invitation does not exist.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new InvitationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InvitationStore
}

// AccessStore defines the interface for student deck access persistence.
type AccessStore interface {
	// Create saves a new access record.
	// Returns ErrDuplicate if the (student, deck) pair already has one.
	Create(ctx context.Context, access *domain.StudentDeckAccess) error

	// Get retrieves the access record for a (student, deck) pair.
	// Returns ErrAccessNotFound if the student has no access to the deck.
	Get(ctx context.Context, studentID, deckID uuid.UUID) (*domain.StudentDeckAccess, error)

	// ListByTeacher retrieves all access records for decks the teacher shared.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.StudentDeckAccess, error)

	// ListByStudent retrieves all active access records for the student.
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.StudentDeckAccess, error)

	// UpdateProgress writes the progress fields after a completed study session.
	// Returns ErrAccessNotFound if the record does not exist.
	UpdateProgress(ctx context.Context, access *domain.StudentDeckAccess) error

	// WithTx returns a new AccessStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AccessStore
}
