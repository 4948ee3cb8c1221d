package invite

import "errors"

// Invitation service errors
var (
	// ErrNotTeacher indicates a teacher-only operation was attempted by a
	// student account.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotTeacher = errors.New("only teachers can manage invitations")

	// ErrNotDeckOwner indicates the deck belongs to another teacher.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotDeckOwner = errors.New("deck is owned by another user")

	// ErrInvitationExpired indicates the invitation's expiry has passed.
	// API layer should map this to HTTP 409 Conflict.
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationLimitReached indicates the usage limit is exhausted.
	// API layer should map this to HTTP 409 Conflict.
	ErrInvitationLimitReached = errors.New("invitation usage limit reached")

	// ErrCodeGeneration indicates no unique code could be produced within
	// the retry budget. Practically unreachable with an 8-digit space.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrCodeGeneration = errors.New("could not generate a unique invitation code")
)
