package api

import (
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string      `json:"email"    validate:"required,email"`
	Username string      `json:"username" validate:"required,min=1,max=100"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     domain.Role `json:"role"     validate:"required,oneof=student teacher"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   domain.Role `json:"role"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SubmitAnswerRequest defines the payload for the study answer endpoint.
type SubmitAnswerRequest struct {
	Quality     int `json:"quality"       validate:"gte=0,lte=5"`
	TimeTakenMs int `json:"time_taken_ms" validate:"gte=0"`
}

// CreateInvitationRequest defines the payload for invitation creation.
type CreateInvitationRequest struct {
	DeckID        uuid.UUID `json:"deck_id"         validate:"required"`
	MaxUses       *int      `json:"max_uses,omitempty"        validate:"omitempty,gt=0"`
	ExpiresInDays *int      `json:"expires_in_days,omitempty" validate:"omitempty,gt=0"`
}

// JoinByCodeRequest defines the payload for invitation redemption.
type JoinByCodeRequest struct {
	Code string `json:"code" validate:"required,len=8,numeric"`
}

// CreateSessionRequest defines the payload for opening a live session.
type CreateSessionRequest struct {
	DeckID          uuid.UUID `json:"deck_id"          validate:"required"`
	MaxParticipants int       `json:"max_participants" validate:"gte=0"`
}

// JoinSessionRequest defines the payload for joining a live session by code.
type JoinSessionRequest struct {
	Code     string `json:"code"     validate:"required,len=6,numeric"`
	Nickname string `json:"nickname" validate:"required,min=1,max=50"`
}

// LiveAnswerRequest defines the payload for a live session answer.
type LiveAnswerRequest struct {
	Nickname    string    `json:"nickname"      validate:"required,min=1,max=50"`
	ItemID      uuid.UUID `json:"item_id"       validate:"required"`
	Correct     bool      `json:"correct"`
	TimeTakenMs int       `json:"time_taken_ms" validate:"gte=0"`
}

// SessionStatusResponse is the lifecycle state players poll for.
type SessionStatusResponse struct {
	Status domain.SessionStatus `json:"status"`
}

// GeneratePreviewRequest defines the payload for the draft generation
// endpoint. Either a topic or a source text must be present.
type GeneratePreviewRequest struct {
	Topic       string             `json:"topic,omitempty"      validate:"max=500"`
	Text        string             `json:"text,omitempty"`
	ContentType domain.ContentType `json:"content_type"         validate:"required,oneof=flashcards quiz"`
	Count       int                `json:"count"                validate:"gte=0,lte=30"`
	WithImages  bool               `json:"with_images"`
}
