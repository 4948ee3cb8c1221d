package study

import "errors"

// Study service errors
var (
	// ErrDeckAccessDenied indicates the user neither owns the deck nor has
	// redeemed an invitation for it.
	// API layer should map this to HTTP 403 Forbidden.
	ErrDeckAccessDenied = errors.New("no access to this deck")

	// ErrNotDeckOwner indicates an owner-only operation was attempted by
	// someone else.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotDeckOwner = errors.New("deck is owned by another user")
)
