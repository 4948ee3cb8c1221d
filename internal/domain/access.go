package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Access-specific validation errors
var (
	ErrAccessIDEmpty      = errors.New("access ID cannot be empty")
	ErrAccessStudentEmpty = errors.New("access student ID cannot be empty")
	ErrAccessDeckEmpty    = errors.New("access deck ID cannot be empty")
	ErrAccessTeacherEmpty = errors.New("access teacher ID cannot be empty")
)

// StudentDeckAccess is the join record created when a student redeems an
// invitation. One record exists per (student, deck) pair; study-session
// completion updates the progress fields.
type StudentDeckAccess struct {
	ID             uuid.UUID  `json:"id"`
	StudentID      uuid.UUID  `json:"student_id"`
	DeckID         uuid.UUID  `json:"deck_id"`
	TeacherID      uuid.UUID  `json:"teacher_id"`
	InvitationCode string     `json:"invitation_code"`
	Progress       float64    `json:"progress"` // percent complete
	CardsStudied   int        `json:"cards_studied"`
	LastStudied    *time.Time `json:"last_studied,omitempty"`
	JoinedAt       time.Time  `json:"joined_at"`
	IsActive       bool       `json:"is_active"`
}

// NewStudentDeckAccess creates an access record for a successful redemption.
func NewStudentDeckAccess(studentID, deckID, teacherID uuid.UUID, invitationCode string) (*StudentDeckAccess, error) {
	access := &StudentDeckAccess{
		ID:             uuid.New(),
		StudentID:      studentID,
		DeckID:         deckID,
		TeacherID:      teacherID,
		InvitationCode: invitationCode,
		JoinedAt:       time.Now().UTC(),
		IsActive:       true,
	}

	if err := access.Validate(); err != nil {
		return nil, err
	}

	return access, nil
}

// Validate checks if the StudentDeckAccess has valid data.
func (a *StudentDeckAccess) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAccessIDEmpty
	}

	if a.StudentID == uuid.Nil {
		return ErrAccessStudentEmpty
	}

	if a.DeckID == uuid.Nil {
		return ErrAccessDeckEmpty
	}

	if a.TeacherID == uuid.Nil {
		return ErrAccessTeacherEmpty
	}

	return nil
}
