package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// ReviewStore defines the interface for review history persistence.
type ReviewStore interface {
	// Create appends one review record. Records are immutable history;
	// there is no update or delete.
	Create(ctx context.Context, rec *domain.ReviewRecord) error

	// ListByItem retrieves an item's review history for a user, newest first.
	ListByItem(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.ReviewRecord, error)

	// WithTx returns a new ReviewStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewStore
}

// StudyStore defines the interface for completed study session persistence.
type StudyStore interface {
	// CreateSession saves a completed study session record.
	CreateSession(ctx context.Context, session *domain.StudySession) error

	// ListByUser retrieves a user's completed sessions, newest first.
	// A non-nil deckID narrows the list to one deck.
	ListByUser(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*domain.StudySession, error)

	// WithTx returns a new StudyStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StudyStore
}

// StatsStore defines the interface for daily stats persistence.
type StatsStore interface {
	// GetDaily retrieves the rollup for the user on the given day.
	// The day is truncated to midnight UTC before lookup.
	// Returns ErrStatsNotFound if the user has no activity that day.
	GetDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyStats, error)

	// Upsert writes the rollup, inserting the row if the (user, day) pair
	// has none yet.
	Upsert(ctx context.Context, stats *domain.DailyStats) error

	// ListRange retrieves rollups for the user between from and to
	// inclusive, oldest first. Days with no activity have no row.
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.DailyStats, error)

	// WithTx returns a new StatsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StatsStore
}
