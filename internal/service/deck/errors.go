package deck

import "errors"

// Deck service errors
var (
	// ErrNotDeckOwner indicates an owner-only operation was attempted by
	// someone else.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotDeckOwner = errors.New("deck is owned by another user")

	// ErrDeckAccessDenied indicates the deck is private and the user neither
	// owns it nor has redeemed an invitation for it.
	// API layer should map this to HTTP 403 Forbidden.
	ErrDeckAccessDenied = errors.New("no access to this deck")

	// ErrCloneOwnDeck indicates an attempt to clone a deck the user already
	// owns.
	// API layer should map this to HTTP 400 Bad Request.
	ErrCloneOwnDeck = errors.New("cannot clone your own deck")

	// ErrDeckNotPublic indicates an attempt to clone a private deck.
	// API layer should map this to HTTP 403 Forbidden.
	ErrDeckNotPublic = errors.New("deck is not public")

	// ErrNoItems indicates a deck creation request without any content.
	// API layer should map this to HTTP 400 Bad Request.
	ErrNoItems = errors.New("deck must contain at least one item")
)
