package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionCodeLength is the number of digits in a live session code. Shorter
// than invitation codes because sessions are ephemeral.
const SessionCodeLength = 6

// DefaultMaxParticipants caps the roster when the teacher does not choose one.
const DefaultMaxParticipants = 50

// SessionStatus is the state of a live session's lifecycle.
//
// Transitions: waiting → active → review → completed, with waiting|active →
// cancelled. Completed and cancelled are terminal.
type SessionStatus string

const (
	SessionStatusWaiting   SessionStatus = "waiting"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusReview    SessionStatus = "review"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Live-session validation errors
var (
	ErrSessionIDEmpty         = errors.New("session ID cannot be empty")
	ErrSessionDeckEmpty       = errors.New("session deck ID cannot be empty")
	ErrSessionTeacherEmpty    = errors.New("session teacher ID cannot be empty")
	ErrSessionCodeLength      = errors.New("session code must be 6 digits")
	ErrSessionMaxParticipants = errors.New("session max participants must be greater than 0")
	ErrSessionStatusInvalid   = errors.New("invalid session status")
)

// Participant is one roster entry in a live session. Nickname is the sole
// identity of a participant within a session; there is no authentication on
// the player side, a deliberate trade-off for low-friction classroom use.
type Participant struct {
	Nickname string    `json:"nickname"`
	JoinedAt time.Time `json:"joined_at"`
}

// LiveSession is an ephemeral, teacher-hosted quiz room identified by a short
// numeric code. It owns zero or more LiveSessionResult records, one per
// participant, created lazily on first answer.
type LiveSession struct {
	ID              uuid.UUID     `json:"id"`
	DeckID          uuid.UUID     `json:"deck_id"`
	TeacherID       uuid.UUID     `json:"teacher_id"`
	SessionCode     string        `json:"session_code"`
	MaxParticipants int           `json:"max_participants"`
	Status          SessionStatus `json:"status"`
	Participants    []Participant `json:"participants"`
	CreatedAt       time.Time     `json:"created_at"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// NewLiveSession creates a session in the waiting state with an empty roster.
// The code is pre-generated by the live service so uniqueness can be enforced
// against the store.
func NewLiveSession(deckID, teacherID uuid.UUID, code string, maxParticipants int) (*LiveSession, error) {
	if maxParticipants == 0 {
		maxParticipants = DefaultMaxParticipants
	}

	s := &LiveSession{
		ID:              uuid.New(),
		DeckID:          deckID,
		TeacherID:       teacherID,
		SessionCode:     code,
		MaxParticipants: maxParticipants,
		Status:          SessionStatusWaiting,
		Participants:    []Participant{},
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the LiveSession has valid data.
func (s *LiveSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.DeckID == uuid.Nil {
		return ErrSessionDeckEmpty
	}

	if s.TeacherID == uuid.Nil {
		return ErrSessionTeacherEmpty
	}

	if len(s.SessionCode) != SessionCodeLength {
		return ErrSessionCodeLength
	}

	if s.MaxParticipants <= 0 {
		return ErrSessionMaxParticipants
	}

	switch s.Status {
	case SessionStatusWaiting, SessionStatusActive, SessionStatusReview,
		SessionStatusCompleted, SessionStatusCancelled:
	default:
		return ErrSessionStatusInvalid
	}

	return nil
}

// HasParticipant reports whether a nickname is already on the roster.
func (s *LiveSession) HasParticipant(nickname string) bool {
	for _, p := range s.Participants {
		if p.Nickname == nickname {
			return true
		}
	}
	return false
}

// IsFull reports whether the roster has reached capacity.
func (s *LiveSession) IsFull() bool {
	return len(s.Participants) >= s.MaxParticipants
}

// CanTransition reports whether the state machine permits moving to target
// from the current status.
func (s *LiveSession) CanTransition(target SessionStatus) bool {
	switch target {
	case SessionStatusActive:
		return s.Status == SessionStatusWaiting
	case SessionStatusReview:
		return s.Status == SessionStatusActive
	case SessionStatusCompleted:
		return s.Status == SessionStatusActive || s.Status == SessionStatusReview
	case SessionStatusCancelled:
		return s.Status == SessionStatusWaiting || s.Status == SessionStatusActive
	default:
		return false
	}
}
