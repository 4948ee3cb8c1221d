package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// SessionStore defines the interface for live session data persistence.
type SessionStore interface {
	// Create saves a new live session to the store.
	// Session codes carry a unique constraint scoped to joinable
	// sessions; Create returns ErrCodeExists on collision so the caller
	// can regenerate the code and retry.
	Create(ctx context.Context, session *domain.LiveSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error)

	// GetByIDForUpdate retrieves a session by ID and locks its row for
	// the rest of the transaction. Roster joins and status transitions
	// are read-modify-write sequences over the whole participants
	// payload; without the row lock two concurrent joins read the same
	// roster and the later commit overwrites the earlier one.
	// Only meaningful on a store returned by WithTx.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error)

	// GetByCodeAndStatus retrieves the session with the given code in any
	// of the given statuses. Returns ErrSessionNotFound if none matches.
	GetByCodeAndStatus(ctx context.Context, code string, statuses ...domain.SessionStatus) (*domain.LiveSession, error)

	// ListByTeacher retrieves all sessions hosted by the teacher, newest first.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.LiveSession, error)

	// Update writes a session's status, roster and timestamps.
	// Callers mutating the roster must hold the row lock from
	// GetByIDForUpdate in the same transaction.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.LiveSession) error

	// WithTx returns a new SessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}

// ResultStore defines the interface for per-participant session results.
type ResultStore interface {
	// Create saves a new result row for a participant.
	// Returns ErrDuplicate if the (session, nickname) pair already has one.
	Create(ctx context.Context, result *domain.LiveSessionResult) error

	// Get retrieves the result for a participant in a session.
	// Returns ErrResultNotFound if no result exists.
	Get(ctx context.Context, sessionID uuid.UUID, nickname string) (*domain.LiveSessionResult, error)

	// ListBySession retrieves all results for a session, highest score first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.LiveSessionResult, error)

	// UpdateVersioned writes the result conditioned on its Version field:
	// the UPDATE matches only a row still at result.Version, and on
	// success the stored version becomes result.Version+1.
	// Returns ErrConflict if the row has moved on; the caller re-reads
	// and retries.
	// Returns ErrResultNotFound if the row does not exist.
	UpdateVersioned(ctx context.Context, result *domain.LiveSessionResult) error

	// WithTx returns a new ResultStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ResultStore
}
