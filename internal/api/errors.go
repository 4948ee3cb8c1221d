package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/service/deck"
	"github.com/flashdeck/flashdeck-api/internal/service/invite"
	"github.com/flashdeck/flashdeck-api/internal/service/live"
	"github.com/flashdeck/flashdeck-api/internal/service/study"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, deck.ErrNotDeckOwner),
		errors.Is(err, deck.ErrDeckAccessDenied),
		errors.Is(err, deck.ErrDeckNotPublic),
		errors.Is(err, study.ErrNotDeckOwner),
		errors.Is(err, study.ErrDeckAccessDenied),
		errors.Is(err, invite.ErrNotTeacher),
		errors.Is(err, invite.ErrNotDeckOwner),
		errors.Is(err, live.ErrNotTeacher),
		errors.Is(err, live.ErrNotSessionOwner):
		return http.StatusForbidden

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, live.ErrRoomFull),
		errors.Is(err, live.ErrInvalidTransition),
		errors.Is(err, live.ErrAnswerContention),
		errors.Is(err, invite.ErrInvitationExpired),
		errors.Is(err, invite.ErrInvitationLimitReached):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, srs.ErrInvalidQuality),
		errors.Is(err, deck.ErrCloneOwnDeck),
		errors.Is(err, deck.ErrNoItems),
		errors.Is(err, live.ErrSessionNotActive):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, deck.ErrNotDeckOwner),
		errors.Is(err, study.ErrNotDeckOwner),
		errors.Is(err, invite.ErrNotDeckOwner):
		return "You do not own this deck"

	case errors.Is(err, deck.ErrDeckAccessDenied),
		errors.Is(err, study.ErrDeckAccessDenied):
		return "You do not have access to this deck"

	case errors.Is(err, deck.ErrDeckNotPublic):
		return "Deck is not public"

	case errors.Is(err, invite.ErrNotTeacher),
		errors.Is(err, live.ErrNotTeacher):
		return "Teacher role required"

	case errors.Is(err, live.ErrNotSessionOwner):
		return "You do not host this session"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrItemNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrInvitationNotFound):
		return "Invitation not found"

	case errors.Is(err, store.ErrAccessNotFound):
		return "Deck access not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrResultNotFound):
		return "Participant result not found"

	case errors.Is(err, store.ErrStatsNotFound):
		return "Statistics not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, live.ErrRoomFull):
		return "Session room is full"

	case errors.Is(err, live.ErrInvalidTransition):
		return "Session is not in a state that allows this action"

	case errors.Is(err, live.ErrAnswerContention):
		return "Answer could not be recorded, please retry"

	case errors.Is(err, invite.ErrInvitationExpired):
		return "Invitation has expired"

	case errors.Is(err, invite.ErrInvitationLimitReached):
		return "Invitation usage limit reached"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, srs.ErrInvalidQuality):
		return "Quality must be between 0 and 5"

	case errors.Is(err, deck.ErrCloneOwnDeck):
		return "You cannot clone your own deck"

	case errors.Is(err, deck.ErrNoItems):
		return "Deck must contain at least one card"

	case errors.Is(err, live.ErrSessionNotActive):
		return "Session is not accepting answers"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "too small"
	case "lte":
		return "too large"
	default:
		return "validation failed"
	}
}
