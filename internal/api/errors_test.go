package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/service/deck"
	"github.com/flashdeck/flashdeck-api/internal/service/invite"
	"github.com/flashdeck/flashdeck-api/internal/service/live"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not deck owner", deck.ErrNotDeckOwner, http.StatusForbidden},
		{"deck access denied", deck.ErrDeckAccessDenied, http.StatusForbidden},
		{"not teacher", live.ErrNotTeacher, http.StatusForbidden},
		{"not session owner", live.ErrNotSessionOwner, http.StatusForbidden},
		{"deck not found", store.ErrDeckNotFound, http.StatusNotFound},
		{"session not found", store.ErrSessionNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get deck: %w", store.ErrDeckNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"room full", live.ErrRoomFull, http.StatusConflict},
		{"invalid transition", live.ErrInvalidTransition, http.StatusConflict},
		{"answer contention", live.ErrAnswerContention, http.StatusConflict},
		{"invitation expired", invite.ErrInvitationExpired, http.StatusConflict},
		{"invitation limit", invite.ErrInvitationLimitReached, http.StatusConflict},
		{"invalid quality", srs.ErrInvalidQuality, http.StatusBadRequest},
		{"clone own deck", deck.ErrCloneOwnDeck, http.StatusBadRequest},
		{"session not active", live.ErrSessionNotActive, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"code generation", live.ErrCodeGeneration, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("known errors map to friendly messages", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Deck not found", GetSafeErrorMessage(store.ErrDeckNotFound))
		assert.Equal(t, "Session room is full", GetSafeErrorMessage(live.ErrRoomFull))
		assert.Equal(t, "Invitation has expired", GetSafeErrorMessage(invite.ErrInvitationExpired))
		assert.Equal(t, "You do not own this deck", GetSafeErrorMessage(deck.ErrNotDeckOwner))
	})

	t.Run("unknown errors never leak details", func(t *testing.T) {
		t.Parallel()
		msg := GetSafeErrorMessage(errors.New("pq: connection refused on 10.0.0.5"))
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
