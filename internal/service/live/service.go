// Package live implements teacher-hosted live quiz sessions: room lifecycle,
// nickname-based joining, concurrent answer scoring, and the leaderboard.
package live

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// SessionInfo is a created session together with its deck name, everything a
// teacher needs to put the join code on the projector.
type SessionInfo struct {
	Session  *domain.LiveSession `json:"session"`
	DeckName string              `json:"deck_name"`
}

// JoinResult tells a player where they landed. Rejoined is true when the
// nickname was already on the roster and the join was a no-op reconnect.
type JoinResult struct {
	SessionID uuid.UUID `json:"session_id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Rejoined  bool      `json:"rejoined"`
}

// AnswerResult is the feedback for one submitted answer. GameOver marks an
// answer that arrived after the session completed; nothing was recorded.
type AnswerResult struct {
	GameOver bool    `json:"game_over"`
	Awarded  float64 `json:"awarded"`
	Score    int     `json:"score"`
}

// LeaderboardEntry is one scoreboard row, score rendered as an integer.
type LeaderboardEntry struct {
	Nickname  string `json:"nickname"`
	Score     int    `json:"score"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
}

// SessionStats is the teacher's dashboard view of a session.
type SessionStats struct {
	Code         string               `json:"code"`
	Status       domain.SessionStatus `json:"status"`
	Participants []domain.Participant `json:"participants"`
	Leaderboard  []LeaderboardEntry   `json:"leaderboard"`
}

// HistoryEntry is one past session in the teacher's history listing.
type HistoryEntry struct {
	SessionID    uuid.UUID            `json:"session_id"`
	Code         string               `json:"code"`
	DeckName     string               `json:"deck_name"`
	CreatedAt    time.Time            `json:"created_at"`
	Participants int                  `json:"participants"`
	Status       domain.SessionStatus `json:"status"`
}

// Service provides the live session operations.
type Service interface {
	// Create opens a waiting session on the deck with a fresh 6-digit code.
	// Teacher role required. maxParticipants of 0 takes the default cap.
	Create(ctx context.Context, teacherID, deckID uuid.UUID, maxParticipants int) (*SessionInfo, error)

	// Join puts a nickname on the roster of the joinable session with the
	// given code. Joining a waiting or active session with a nickname
	// already on the roster is a successful no-op reconnect. A new nickname
	// against a full roster returns ErrRoomFull.
	Join(ctx context.Context, code, nickname string) (*JoinResult, error)

	// Start moves the session from waiting to active and stamps StartedAt.
	Start(ctx context.Context, teacherID, sessionID uuid.UUID) error

	// Review moves the session from active to review.
	Review(ctx context.Context, teacherID, sessionID uuid.UUID) error

	// Finish moves the session from active or review to completed and
	// stamps CompletedAt.
	Finish(ctx context.Context, teacherID, sessionID uuid.UUID) error

	// Cancel moves the session from waiting or active to cancelled.
	Cancel(ctx context.Context, teacherID, sessionID uuid.UUID) error

	// SubmitAnswer records one answer for a participant, creating their
	// scoreboard row on first answer. Only active sessions accept answers;
	// a completed session returns a GameOver result without recording
	// anything, other statuses return ErrSessionNotActive. Concurrent
	// answers for the same participant are serialized through versioned
	// updates with bounded retry.
	SubmitAnswer(ctx context.Context, sessionID uuid.UUID, nickname string, itemID uuid.UUID, correct bool, timeTakenMs int) (*AnswerResult, error)

	// Stats returns the roster and leaderboard. Only the hosting teacher
	// may look.
	Stats(ctx context.Context, teacherID, sessionID uuid.UUID) (*SessionStats, error)

	// Status returns the session's lifecycle state. Unauthenticated; used
	// by players polling for the game to start.
	Status(ctx context.Context, sessionID uuid.UUID) (domain.SessionStatus, error)

	// SessionItems returns the deck's items in play order. Unauthenticated;
	// players fetch questions by session, not by deck.
	SessionItems(ctx context.Context, sessionID uuid.UUID) ([]*domain.Item, error)

	// History returns the teacher's most recent sessions, newest first.
	History(ctx context.Context, teacherID uuid.UUID) ([]*HistoryEntry, error)
}
