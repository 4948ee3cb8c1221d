package api

import (
	"errors"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errInvalidPathID = errors.New("invalid path parameter")

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the auth middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter from the chi route.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, errInvalidPathID
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, errInvalidPathID
	}

	return id, nil
}

// requireUserID extracts the user ID from the context and writes a 401
// response when it is missing. Returns false when a response was written.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// requirePathUUID extracts a UUID path parameter and writes a 400 response
// when it is missing or malformed. Returns false when a response was written.
func requirePathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName)
		return uuid.Nil, false
	}
	return id, true
}
