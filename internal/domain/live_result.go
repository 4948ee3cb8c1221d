package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Live-result validation errors
var (
	ErrResultIDEmpty       = errors.New("result ID cannot be empty")
	ErrResultSessionEmpty  = errors.New("result session ID cannot be empty")
	ErrResultNicknameEmpty = errors.New("result nickname cannot be empty")
	ErrResultScoreNegative = errors.New("result score cannot be negative")
	ErrResultCountNegative = errors.New("result answer counts cannot be negative")
)

// AnswerRecord is one answer a participant gave during a live session.
// The sequence on a result is append-only.
type AnswerRecord struct {
	ItemID      uuid.UUID `json:"item_id"`
	Correct     bool      `json:"correct"`
	TimeTakenMs int       `json:"time_taken_ms"`
}

// LiveSessionResult is a participant's scoreboard row. Score is a float64
// internally and rendered as an integer at the API boundary. Version backs
// optimistic concurrency: concurrent answers for the same participant must
// not lose updates, so writes are conditional on the version read.
type LiveSessionResult struct {
	ID             uuid.UUID      `json:"id"`
	SessionID      uuid.UUID      `json:"session_id"`
	Nickname       string         `json:"nickname"`
	Score          float64        `json:"score"`
	CorrectCount   int            `json:"correct_count"`
	IncorrectCount int            `json:"incorrect_count"`
	Answers        []AnswerRecord `json:"answers"`
	Version        int            `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewLiveSessionResult creates an empty scoreboard row for a participant.
// Created lazily on the participant's first answer.
func NewLiveSessionResult(sessionID uuid.UUID, nickname string) (*LiveSessionResult, error) {
	r := &LiveSessionResult{
		ID:        uuid.New(),
		SessionID: sessionID,
		Nickname:  nickname,
		Answers:   []AnswerRecord{},
		CreatedAt: time.Now().UTC(),
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks if the LiveSessionResult has valid data.
func (r *LiveSessionResult) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResultIDEmpty
	}

	if r.SessionID == uuid.Nil {
		return ErrResultSessionEmpty
	}

	if r.Nickname == "" {
		return ErrResultNicknameEmpty
	}

	if r.Score < 0 {
		return ErrResultScoreNegative
	}

	if r.CorrectCount < 0 || r.IncorrectCount < 0 {
		return ErrResultCountNegative
	}

	return nil
}

// RecordAnswer appends the answer and updates the counters. Correct answers
// earn a time bonus that decreases with response time and never drops below
// the floor; incorrect answers change no score. Returns the points awarded.
func (r *LiveSessionResult) RecordAnswer(itemID uuid.UUID, correct bool, timeTakenMs int) float64 {
	r.Answers = append(r.Answers, AnswerRecord{
		ItemID:      itemID,
		Correct:     correct,
		TimeTakenMs: timeTakenMs,
	})

	if !correct {
		r.IncorrectCount++
		return 0
	}

	r.CorrectCount++
	awarded := answerScore(timeTakenMs)
	r.Score += awarded
	return awarded
}

// answerScore computes the points for a correct answer: 1000 minus 10 points
// per second taken, floored at 500 so slow-but-correct answers still pay.
func answerScore(timeTakenMs int) float64 {
	score := 1000 - float64(timeTakenMs)/1000*10
	if score < 500 {
		return 500
	}
	return score
}
