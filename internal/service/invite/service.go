// Package invite implements the invitation flow between teachers and
// students: code creation, redemption, and the teacher's view of who joined
// and how far they got.
package invite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// InvitationSummary is an invitation together with the deck it points at.
type InvitationSummary struct {
	Invitation    *domain.Invitation `json:"invitation"`
	DeckName      string             `json:"deck_name"`
	StudentsCount int                `json:"students_count"`
}

// RedemptionResult is the outcome of redeeming a code. AlreadyJoined is true
// when the student held access before the call; redeeming twice is not an
// error.
type RedemptionResult struct {
	Access        *domain.StudentDeckAccess `json:"access"`
	DeckName      string                    `json:"deck_name"`
	TeacherName   string                    `json:"teacher_name"`
	AlreadyJoined bool                      `json:"already_joined"`
}

// StudentSummary is one student's standing on one deck, as shown on the
// teacher dashboard.
type StudentSummary struct {
	StudentID           uuid.UUID  `json:"student_id"`
	StudentName         string     `json:"student_name"`
	StudentEmail        string     `json:"student_email"`
	DeckID              uuid.UUID  `json:"deck_id"`
	DeckName            string     `json:"deck_name"`
	Progress            float64    `json:"progress"`
	CardsStudied        int        `json:"cards_studied"`
	LastStudied         *time.Time `json:"last_studied,omitempty"`
	JoinedAt            time.Time  `json:"joined_at"`
	LastSessionAccuracy *float64   `json:"last_session_accuracy,omitempty"`
	IsActive            bool       `json:"is_active"`
}

// StudentProgressReport is the detailed per-student drill-down: overall
// standing plus their recent study sessions on the deck.
type StudentProgressReport struct {
	Student  *domain.User              `json:"student"`
	Deck     *domain.Deck              `json:"deck"`
	Access   *domain.StudentDeckAccess `json:"access"`
	Sessions []*domain.StudySession    `json:"sessions"`
}

// Service provides the invitation operations.
type Service interface {
	// CreateOrGet returns the active invitation for the teacher's deck,
	// creating one when none exists. maxUses and expiresInDays of nil mean
	// unlimited and never. Teacher role and deck ownership are required.
	CreateOrGet(ctx context.Context, teacherID, deckID uuid.UUID, maxUses *int, expiresInDays *int) (*InvitationSummary, error)

	// Redeem grants the student access to the deck behind the code. Checks
	// run in order: the code must resolve to an active invitation, the
	// invitation must not be expired, the usage limit must not be reached.
	// A student who already holds access gets it back with
	// AlreadyJoined=true and no counters change.
	Redeem(ctx context.Context, studentID uuid.UUID, code string) (*RedemptionResult, error)

	// Deactivate retires an invitation. The code becomes reusable; existing
	// access is untouched. Only the issuing teacher may deactivate.
	Deactivate(ctx context.Context, teacherID, invitationID uuid.UUID) error

	// ListMine returns the teacher's invitations, newest first, with deck
	// names resolved.
	ListMine(ctx context.Context, teacherID uuid.UUID) ([]*InvitationSummary, error)

	// ListStudents returns the teacher's students across all decks, or for
	// one deck when deckID is non-nil.
	ListStudents(ctx context.Context, teacherID uuid.UUID, deckID *uuid.UUID) ([]*StudentSummary, error)

	// StudentProgress returns one student's detailed standing on one of the
	// teacher's decks, including their most recent study sessions.
	StudentProgress(ctx context.Context, teacherID, studentID, deckID uuid.UUID) (*StudentProgressReport, error)
}
