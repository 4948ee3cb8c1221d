package live

import "errors"

// Live session service errors
var (
	// ErrNotTeacher indicates a non-teacher tried to host a session.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotTeacher = errors.New("only teachers can host live sessions")

	// ErrRoomFull indicates the roster is at capacity for a new nickname.
	// API layer should map this to HTTP 409 Conflict.
	ErrRoomFull = errors.New("session room is full")

	// ErrSessionNotActive indicates an answer against a session that is not
	// accepting answers and is not completed either.
	// API layer should map this to HTTP 409 Conflict.
	ErrSessionNotActive = errors.New("session is not active")

	// ErrInvalidTransition indicates a lifecycle move the state machine
	// does not permit, like starting an already completed session.
	// API layer should map this to HTTP 409 Conflict.
	ErrInvalidTransition = errors.New("invalid session state transition")

	// ErrNotSessionOwner indicates a teacher inspecting another teacher's
	// session.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotSessionOwner = errors.New("session is hosted by another teacher")

	// ErrCodeGeneration indicates no unique session code could be produced
	// within the retry budget.
	// API layer should map this to HTTP 500 Internal Server Error.
	ErrCodeGeneration = errors.New("could not generate a unique session code")

	// ErrAnswerContention indicates the versioned update kept conflicting
	// past the retry budget.
	// API layer should map this to HTTP 409 Conflict.
	ErrAnswerContention = errors.New("answer could not be recorded due to contention")
)
