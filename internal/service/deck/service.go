// Package deck implements deck management: creation with content items,
// overview listings with derived study status, cloning of public decks, and
// the student's view of joined teacher decks.
package deck

import (
	"context"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/progress"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// ItemDraft is one content item supplied at deck creation. Which fields
// matter depends on the deck's content type: front/back for flashcards,
// question/options/correct answers for quizzes.
type ItemDraft struct {
	Front          string   `json:"front,omitempty"`
	Back           string   `json:"back,omitempty"`
	Question       string   `json:"question,omitempty"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswers []int    `json:"correct_answers,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
	ImageQuery     string   `json:"image_query,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
}

// CreateDeckInput is the payload for CreateDeck.
type CreateDeckInput struct {
	Name         string              `json:"name" validate:"required,max=200"`
	Description  string              `json:"description,omitempty" validate:"max=2000"`
	ContentType  domain.ContentType  `json:"content_type" validate:"required"`
	LearningMode domain.LearningMode `json:"learning_mode" validate:"required"`
	CardsPerDay  int                 `json:"cards_per_day" validate:"gte=0"`
	IsPublic     *bool               `json:"is_public,omitempty"`
	Items        []ItemDraft         `json:"items" validate:"required,min=1"`
}

// UpdateDeckInput carries a partial deck update; nil fields are left alone.
type UpdateDeckInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CardsPerDay *int    `json:"cards_per_day,omitempty" validate:"omitempty,gt=0"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Overview combines a deck with its derived study state.
type Overview struct {
	Deck     *domain.Deck     `json:"deck"`
	Counts   store.ItemCounts `json:"counts"`
	Status   progress.Status  `json:"status"`
	Progress float64          `json:"progress"`
	IsOwner  bool             `json:"is_owner"`
}

// PublicDeckOverview is one public deck in the discovery listing.
type PublicDeckOverview struct {
	Deck      *domain.Deck `json:"deck"`
	ItemCount int          `json:"item_count"`
	IsOwner   bool         `json:"is_owner"`
}

// StudentDeckOverview is one joined teacher deck as the student sees it.
type StudentDeckOverview struct {
	Deck        *domain.Deck              `json:"deck"`
	TeacherName string                    `json:"teacher_name"`
	Access      *domain.StudentDeckAccess `json:"access"`
	Counts      store.ItemCounts          `json:"counts"`
	Status      progress.Status           `json:"status"`
	Progress    float64                   `json:"progress"`
}

// Service provides deck management operations.
type Service interface {
	// CreateDeck creates a deck and its items in one transaction. In spaced
	// mode each item's unlock date is staggered by its position and the
	// deck's cards-per-day setting; in all_at_once mode everything unlocks
	// immediately.
	CreateDeck(ctx context.Context, ownerID uuid.UUID, input CreateDeckInput) (*domain.Deck, error)

	// GetDeck returns the deck with its derived status and bumps the view
	// counter. Visible to the owner, students with access, and anyone for
	// public decks; otherwise ErrDeckAccessDenied.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*Overview, error)

	// ListDecks returns the user's own decks with per-deck counts and
	// status, ordered so decks with work to do come first.
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*Overview, error)

	// UpdateDeck applies a partial update. Owner only.
	UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, input UpdateDeckInput) (*domain.Deck, error)

	// DeleteDeck removes the deck and, via cascade, its items. Owner only.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// ListPublicDecks returns every public deck, newest first, with its
	// item count. The caller's own decks are flagged so clients can keep
	// them out of the clone flow.
	ListPublicDecks(ctx context.Context, userID uuid.UUID) ([]*PublicDeckOverview, error)

	// CloneDeck copies a public deck owned by someone else into the user's
	// collection. The copy is private and every item starts in its initial
	// scheduling state.
	CloneDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// ListTeacherDecksForStudent returns the decks the student joined via
	// invitations, newest join first, each with the teacher's name and the
	// student's due counts.
	ListTeacherDecksForStudent(ctx context.Context, studentID uuid.UUID) ([]*StudentDeckOverview, error)
}
