package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// InvitationCodeLength is the number of digits in an invitation code.
// Codes are digits only so they can be typed from a phone keyboard.
const InvitationCodeLength = 8

// Invitation-specific validation errors
var (
	ErrInvitationIDEmpty      = errors.New("invitation ID cannot be empty")
	ErrInvitationDeckEmpty    = errors.New("invitation deck ID cannot be empty")
	ErrInvitationTeacherEmpty = errors.New("invitation teacher ID cannot be empty")
	ErrInvitationCodeLength   = errors.New("invitation code must be 8 digits")
	ErrInvitationUsesExceeded = errors.New("invitation uses count cannot exceed max uses")
)

// Invitation grants students standing access to one of a teacher's decks.
// At most one active invitation exists per (deck, teacher) pair; invitations
// are deactivated rather than deleted so the redemption history survives.
type Invitation struct {
	ID             uuid.UUID   `json:"id"`
	DeckID         uuid.UUID   `json:"deck_id"`
	TeacherID      uuid.UUID   `json:"teacher_id"`
	Code           string      `json:"code"`
	UsesCount      int         `json:"uses_count"`
	MaxUses        *int        `json:"max_uses,omitempty"`   // nil = unlimited
	ExpiresAt      *time.Time  `json:"expires_at,omitempty"` // nil = never expires
	IsActive       bool        `json:"is_active"`
	JoinedStudents []uuid.UUID `json:"joined_students"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewInvitation creates an active invitation with the given pre-generated
// code. Code generation lives in the invite service so uniqueness can be
// enforced against the store.
func NewInvitation(deckID, teacherID uuid.UUID, code string, maxUses *int, expiresAt *time.Time) (*Invitation, error) {
	inv := &Invitation{
		ID:             uuid.New(),
		DeckID:         deckID,
		TeacherID:      teacherID,
		Code:           code,
		MaxUses:        maxUses,
		ExpiresAt:      expiresAt,
		IsActive:       true,
		JoinedStudents: []uuid.UUID{},
		CreatedAt:      time.Now().UTC(),
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	return inv, nil
}

// Validate checks if the Invitation has valid data.
func (inv *Invitation) Validate() error {
	if inv.ID == uuid.Nil {
		return ErrInvitationIDEmpty
	}

	if inv.DeckID == uuid.Nil {
		return ErrInvitationDeckEmpty
	}

	if inv.TeacherID == uuid.Nil {
		return ErrInvitationTeacherEmpty
	}

	if len(inv.Code) != InvitationCodeLength {
		return ErrInvitationCodeLength
	}

	if inv.MaxUses != nil && inv.UsesCount > *inv.MaxUses {
		return ErrInvitationUsesExceeded
	}

	return nil
}

// IsExpired reports whether the invitation's expiry has passed at now.
// Invitations without an expiry never expire.
func (inv *Invitation) IsExpired(now time.Time) bool {
	return inv.ExpiresAt != nil && inv.ExpiresAt.Before(now)
}

// LimitReached reports whether the usage limit has been exhausted.
func (inv *Invitation) LimitReached() bool {
	return inv.MaxUses != nil && inv.UsesCount >= *inv.MaxUses
}

// RecordRedemption increments the usage counter and adds the student to the
// joined set. Adding an already-present student is a no-op for the set but
// the caller is expected to guard against double redemption before calling.
func (inv *Invitation) RecordRedemption(studentID uuid.UUID) {
	inv.UsesCount++
	for _, id := range inv.JoinedStudents {
		if id == studentID {
			return
		}
	}
	inv.JoinedStudents = append(inv.JoinedStudents, studentID)
}
