package live

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/codes"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const (
	// maxCodeAttempts bounds regeneration when a generated code collides
	// with another joinable session.
	maxCodeAttempts = 5

	// maxAnswerRetries bounds the re-read-and-retry loop when concurrent
	// answers for the same participant conflict on the version check.
	maxAnswerRetries = 3

	// maxHistoryEntries caps the teacher's session history listing.
	maxHistoryEntries = 20
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db           *sql.DB
	sessionStore store.SessionStore
	resultStore  store.ResultStore
	deckStore    store.DeckStore
	itemStore    store.ItemStore
	userStore    store.UserStore
	logger       *slog.Logger
	timeFunc     func() time.Time
	runTx        func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new live session Service implementation.
func NewService(
	db *sql.DB,
	sessionStore store.SessionStore,
	resultStore store.ResultStore,
	deckStore store.DeckStore,
	itemStore store.ItemStore,
	userStore store.UserStore,
	logger *slog.Logger,
) Service {
	if sessionStore == nil || resultStore == nil || deckStore == nil ||
		itemStore == nil || userStore == nil {
		panic("live service stores cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:           db,
		sessionStore: sessionStore,
		resultStore:  resultStore,
		deckStore:    deckStore,
		itemStore:    itemStore,
		userStore:    userStore,
		logger:       logger.With(slog.String("component", "live_service")),
		timeFunc:     time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// Create implements Service.Create.
func (s *serviceImpl) Create(ctx context.Context, teacherID, deckID uuid.UUID, maxParticipants int) (*SessionInfo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	teacher, err := s.userStore.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsTeacher() {
		return nil, ErrNotTeacher
	}

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := codes.Numeric(domain.SessionCodeLength)
		if err != nil {
			return nil, err
		}

		session, err := domain.NewLiveSession(deckID, teacherID, code, maxParticipants)
		if err != nil {
			return nil, err
		}

		err = s.sessionStore.Create(ctx, session)
		if err == nil {
			log.Info("live session created",
				slog.String("session_id", session.ID.String()),
				slog.String("deck_id", deckID.String()),
				slog.String("teacher_id", teacherID.String()),
				slog.Int("max_participants", session.MaxParticipants))
			return &SessionInfo{Session: session, DeckName: deck.Name}, nil
		}
		if !errors.Is(err, store.ErrCodeExists) {
			return nil, err
		}

		log.Warn("session code collision, regenerating",
			slog.Int("attempt", attempt))
	}

	return nil, ErrCodeGeneration
}

// Join implements Service.Join.
func (s *serviceImpl) Join(ctx context.Context, code, nickname string) (*JoinResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if nickname == "" {
		return nil, domain.ErrResultNicknameEmpty
	}

	// Waiting and active sessions are joinable; active mostly for
	// reconnects after a dropped connection.
	session, err := s.sessionStore.GetByCodeAndStatus(ctx, code,
		domain.SessionStatusWaiting, domain.SessionStatusActive)
	if err != nil {
		return nil, err
	}

	result := &JoinResult{SessionID: session.ID, DeckID: session.DeckID}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		ss := s.sessionStore.WithTx(tx)

		// Re-read with a row lock; the capacity and nickname checks
		// must see the committed roster, and the lock keeps a
		// concurrent join from overwriting this one's entry.
		fresh, err := ss.GetByIDForUpdate(ctx, session.ID)
		if err != nil {
			return err
		}

		if fresh.HasParticipant(nickname) {
			result.Rejoined = true
			return nil
		}

		if fresh.IsFull() {
			return ErrRoomFull
		}

		fresh.Participants = append(fresh.Participants, domain.Participant{
			Nickname: nickname,
			JoinedAt: s.timeFunc().UTC(),
		})
		return ss.Update(ctx, fresh)
	})
	if err != nil {
		return nil, err
	}

	log.Info("player joined session",
		slog.String("session_id", session.ID.String()),
		slog.String("nickname", nickname),
		slog.Bool("rejoined", result.Rejoined))

	return result, nil
}

// Start implements Service.Start.
func (s *serviceImpl) Start(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	return s.transition(ctx, teacherID, sessionID, domain.SessionStatusActive)
}

// Review implements Service.Review.
func (s *serviceImpl) Review(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	return s.transition(ctx, teacherID, sessionID, domain.SessionStatusReview)
}

// Finish implements Service.Finish.
func (s *serviceImpl) Finish(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	return s.transition(ctx, teacherID, sessionID, domain.SessionStatusCompleted)
}

// Cancel implements Service.Cancel.
func (s *serviceImpl) Cancel(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	return s.transition(ctx, teacherID, sessionID, domain.SessionStatusCancelled)
}

// transition applies one lifecycle move under the state machine, stamping
// timestamps as appropriate. A missing session and a session hosted by
// another teacher look identical to the caller so session IDs cannot be
// probed.
func (s *serviceImpl) transition(ctx context.Context, teacherID, sessionID uuid.UUID, target domain.SessionStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		ss := s.sessionStore.WithTx(tx)

		session, err := ss.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.TeacherID != teacherID {
			return store.ErrSessionNotFound
		}

		if !session.CanTransition(target) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, session.Status, target)
		}

		now := s.timeFunc().UTC()
		session.Status = target
		switch target {
		case domain.SessionStatusActive:
			session.StartedAt = &now
		case domain.SessionStatusCompleted:
			session.CompletedAt = &now
		}

		return ss.Update(ctx, session)
	})
	if err != nil {
		return err
	}

	log.Info("session transitioned",
		slog.String("session_id", sessionID.String()),
		slog.String("status", string(target)))
	return nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *serviceImpl) SubmitAnswer(ctx context.Context, sessionID uuid.UUID, nickname string, itemID uuid.UUID, correct bool, timeTakenMs int) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == domain.SessionStatusCompleted {
		return s.gameOverResult(ctx, sessionID, nickname), nil
	}
	if session.Status != domain.SessionStatusActive {
		return nil, ErrSessionNotActive
	}

	for attempt := 0; attempt < maxAnswerRetries; attempt++ {
		result, err := s.resultStore.Get(ctx, sessionID, nickname)
		if err != nil {
			if !errors.Is(err, store.ErrResultNotFound) {
				return nil, err
			}

			// First answer from this participant: create the row with the
			// answer already folded in. A duplicate means another answer
			// raced the creation; re-read and go the update path.
			fresh, err := domain.NewLiveSessionResult(sessionID, nickname)
			if err != nil {
				return nil, err
			}
			awarded := fresh.RecordAnswer(itemID, correct, timeTakenMs)

			err = s.resultStore.Create(ctx, fresh)
			if err == nil {
				return &AnswerResult{Awarded: awarded, Score: int(fresh.Score)}, nil
			}
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return nil, err
		}

		awarded := result.RecordAnswer(itemID, correct, timeTakenMs)

		err = s.resultStore.UpdateVersioned(ctx, result)
		if err == nil {
			return &AnswerResult{Awarded: awarded, Score: int(result.Score)}, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}

		log.Debug("answer update conflicted, retrying",
			slog.String("session_id", sessionID.String()),
			slog.String("nickname", nickname),
			slog.Int("attempt", attempt+1))
	}

	return nil, ErrAnswerContention
}

// gameOverResult builds the terminal response for an answer that arrived
// after the session completed. The participant's final score is reported
// when their row exists; nothing is written either way.
func (s *serviceImpl) gameOverResult(ctx context.Context, sessionID uuid.UUID, nickname string) *AnswerResult {
	out := &AnswerResult{GameOver: true}
	if result, err := s.resultStore.Get(ctx, sessionID, nickname); err == nil {
		out.Score = int(result.Score)
	}
	return out
}

// Stats implements Service.Stats.
func (s *serviceImpl) Stats(ctx context.Context, teacherID, sessionID uuid.UUID) (*SessionStats, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != teacherID {
		return nil, ErrNotSessionOwner
	}

	results, err := s.resultStore.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, 0, len(results))
	for _, r := range results {
		leaderboard = append(leaderboard, LeaderboardEntry{
			Nickname:  r.Nickname,
			Score:     int(r.Score),
			Correct:   r.CorrectCount,
			Incorrect: r.IncorrectCount,
		})
	}

	return &SessionStats{
		Code:         session.SessionCode,
		Status:       session.Status,
		Participants: session.Participants,
		Leaderboard:  leaderboard,
	}, nil
}

// Status implements Service.Status.
func (s *serviceImpl) Status(ctx context.Context, sessionID uuid.UUID) (domain.SessionStatus, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.Status, nil
}

// SessionItems implements Service.SessionItems.
func (s *serviceImpl) SessionItems(ctx context.Context, sessionID uuid.UUID) ([]*domain.Item, error) {
	session, err := s.sessionStore.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.itemStore.ListByDeck(ctx, session.DeckID)
}

// History implements Service.History.
func (s *serviceImpl) History(ctx context.Context, teacherID uuid.UUID) ([]*HistoryEntry, error) {
	sessions, err := s.sessionStore.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(sessions) > maxHistoryEntries {
		sessions = sessions[:maxHistoryEntries]
	}

	entries := make([]*HistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		deckName := ""
		if deck, err := s.deckStore.GetByID(ctx, session.DeckID); err == nil {
			deckName = deck.Name
		}

		entries = append(entries, &HistoryEntry{
			SessionID:    session.ID,
			Code:         session.SessionCode,
			DeckName:     deckName,
			CreatedAt:    session.CreatedAt,
			Participants: len(session.Participants),
			Status:       session.Status,
		})
	}

	return entries, nil
}
