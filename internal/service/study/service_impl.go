package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/srs"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

const (
	// defaultHistoryLimit is the session history page size when the caller
	// does not choose one.
	defaultHistoryLimit = 10

	// maxHistoryLimit caps the session history page size.
	maxHistoryLimit = 50
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db          *sql.DB
	deckStore   store.DeckStore
	itemStore   store.ItemStore
	accessStore store.AccessStore
	reviewStore store.ReviewStore
	studyStore  store.StudyStore
	statsStore  store.StatsStore
	srsService  srs.Service
	logger      *slog.Logger
	timeFunc    func() time.Time
	runTx       func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new study Service implementation.
func NewService(
	db *sql.DB,
	deckStore store.DeckStore,
	itemStore store.ItemStore,
	accessStore store.AccessStore,
	reviewStore store.ReviewStore,
	studyStore store.StudyStore,
	statsStore store.StatsStore,
	srsService srs.Service,
	logger *slog.Logger,
) Service {
	if deckStore == nil || itemStore == nil || accessStore == nil ||
		reviewStore == nil || studyStore == nil || statsStore == nil {
		panic("study service stores cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:          db,
		deckStore:   deckStore,
		itemStore:   itemStore,
		accessStore: accessStore,
		reviewStore: reviewStore,
		studyStore:  studyStore,
		statsStore:  statsStore,
		srsService:  srsService,
		logger:      logger.With(slog.String("component", "study_service")),
		timeFunc:    time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// GetStudyQueue implements Service.GetStudyQueue.
func (s *serviceImpl) GetStudyQueue(ctx context.Context, userID, deckID uuid.UUID) (*Queue, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, userID, deck); err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()

	// Spaced decks get due reviews plus a capped batch of new items.
	// All-at-once decks get every unlearned item, ignoring review
	// scheduling, so a just-failed item can be re-drilled immediately.
	var items []*domain.Item
	if deck.LearningMode == domain.LearningModeSpaced {
		items, err = s.itemStore.ListDue(ctx, deckID, now, deck.CardsPerDay)
	} else {
		items, err = s.itemStore.ListUnlearned(ctx, deckID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list study items: %w", err)
	}

	counts, err := s.itemStore.CountByDeck(ctx, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	log.Debug("study queue built",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("queue_size", len(items)))

	return &Queue{Deck: deck, Items: items, Counts: counts}, nil
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(ctx context.Context, userID, itemID uuid.UUID, quality, timeTakenMs int) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *ReviewResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		itemStore := s.itemStore.WithTx(tx)
		deckStore := s.deckStore.WithTx(tx)

		item, err := itemStore.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		deck, err := deckStore.GetByID(ctx, item.DeckID)
		if err != nil {
			return err
		}

		if err := s.checkAccessWith(ctx, s.accessStore.WithTx(tx), userID, deck); err != nil {
			return err
		}

		now := s.timeFunc().UTC()
		firstReview := item.TimesReviewed == 0

		updated, err := s.srsService.Schedule(item, quality, deck.LearningMode, now)
		if err != nil {
			return err
		}

		if err := itemStore.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save item scheduling state: %w", err)
		}

		rec, err := domain.NewReviewRecord(
			item.ID, userID, deck.ID,
			quality, timeTakenMs,
			item.Interval, updated.Interval,
			updated.EaseFactor,
		)
		if err != nil {
			return err
		}
		if err := s.reviewStore.WithTx(tx).Create(ctx, rec); err != nil {
			return fmt.Errorf("failed to record review: %w", err)
		}

		passed := quality >= srs.PassThreshold
		if err := s.foldIntoDailyStats(ctx, s.statsStore.WithTx(tx), userID, now, func(stats *domain.DailyStats) {
			stats.RecordReview(deck.ID, passed, firstReview, timeTakenMs)
		}); err != nil {
			return err
		}

		result = &ReviewResult{
			Item:            updated,
			Passed:          passed,
			IntervalBefore:  item.Interval,
			IntervalAfter:   updated.Interval,
			EaseFactorAfter: updated.EaseFactor,
			NextReview:      updated.NextReview,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review applied",
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()),
		slog.Int("quality", quality),
		slog.Bool("passed", result.Passed),
		slog.Int("interval_after", result.IntervalAfter))

	return result, nil
}

// CompleteSession implements Service.CompleteSession.
func (s *serviceImpl) CompleteSession(ctx context.Context, userID, deckID uuid.UUID, result SessionResult) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var session *domain.StudySession
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		deckStore := s.deckStore.WithTx(tx)
		accessStore := s.accessStore.WithTx(tx)

		deck, err := deckStore.GetByID(ctx, deckID)
		if err != nil {
			return err
		}

		access, err := s.accessRecord(ctx, accessStore, userID, deck)
		if err != nil {
			return err
		}

		session, err = domain.NewStudySession(
			userID, deckID,
			result.Correct, result.Incorrect, result.Skipped,
			result.DurationSeconds,
		)
		if err != nil {
			return err
		}

		if err := s.studyStore.WithTx(tx).CreateSession(ctx, session); err != nil {
			return fmt.Errorf("failed to record study session: %w", err)
		}

		if err := deckStore.IncrementPlays(ctx, deckID); err != nil {
			return fmt.Errorf("failed to bump deck plays: %w", err)
		}

		now := s.timeFunc().UTC()

		// Access progress only exists for students who joined via an
		// invitation; the owner studies without one.
		if access != nil {
			counts, err := s.itemStore.WithTx(tx).CountByDeck(ctx, deckID, now)
			if err != nil {
				return fmt.Errorf("failed to count items: %w", err)
			}

			access.Progress = percentLearned(counts)
			access.CardsStudied += session.TotalCards
			access.LastStudied = &now
			if err := accessStore.UpdateProgress(ctx, access); err != nil {
				return fmt.Errorf("failed to update access progress: %w", err)
			}
		}

		return s.foldIntoDailyStats(ctx, s.statsStore.WithTx(tx), userID, now, func(stats *domain.DailyStats) {
			stats.SessionsCompleted++
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info("study session completed",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("total_cards", session.TotalCards),
		slog.Float64("accuracy", session.Accuracy))

	return session, nil
}

// ResetDeck implements Service.ResetDeck.
func (s *serviceImpl) ResetDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return err
	}

	if deck.OwnerID != userID {
		log.Warn("reset refused: not deck owner",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return ErrNotDeckOwner
	}

	if err := s.itemStore.ResetByDeck(ctx, deckID); err != nil {
		return fmt.Errorf("failed to reset deck: %w", err)
	}

	log.Info("deck progress reset",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()))
	return nil
}

// TodayStats implements Service.TodayStats.
func (s *serviceImpl) TodayStats(ctx context.Context, userID uuid.UUID) (*domain.DailyStats, error) {
	now := s.timeFunc().UTC()

	stats, err := s.statsStore.GetDaily(ctx, userID, now)
	if err != nil {
		if errors.Is(err, store.ErrStatsNotFound) {
			return domain.NewDailyStats(userID, now), nil
		}
		return nil, err
	}
	return stats, nil
}

// WeekStats implements Service.WeekStats.
func (s *serviceImpl) WeekStats(ctx context.Context, userID uuid.UUID) ([]*domain.DailyStats, error) {
	now := s.timeFunc().UTC()
	from := domain.StatsDay(now.AddDate(0, 0, -7))

	return s.statsStore.ListRange(ctx, userID, from, now)
}

// SessionHistory implements Service.SessionHistory.
func (s *serviceImpl) SessionHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*SessionHistoryEntry, error) {
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.studyStore.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	entries := make([]*SessionHistoryEntry, 0, len(sessions))
	for _, session := range sessions {
		deckName := ""
		if deck, err := s.deckStore.GetByID(ctx, session.DeckID); err == nil {
			deckName = deck.Name
		}
		entries = append(entries, &SessionHistoryEntry{Session: session, DeckName: deckName})
	}
	return entries, nil
}

// ItemHistory implements Service.ItemHistory.
func (s *serviceImpl) ItemHistory(ctx context.Context, userID, itemID uuid.UUID) ([]*domain.ReviewRecord, error) {
	item, err := s.itemStore.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	deck, err := s.deckStore.GetByID(ctx, item.DeckID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, userID, deck); err != nil {
		return nil, err
	}

	return s.reviewStore.ListByItem(ctx, userID, itemID)
}

// checkAccess verifies the user owns the deck or holds an access record.
func (s *serviceImpl) checkAccess(ctx context.Context, userID uuid.UUID, deck *domain.Deck) error {
	return s.checkAccessWith(ctx, s.accessStore, userID, deck)
}

func (s *serviceImpl) checkAccessWith(ctx context.Context, accessStore store.AccessStore, userID uuid.UUID, deck *domain.Deck) error {
	if deck.OwnerID == userID {
		return nil
	}

	_, err := accessStore.Get(ctx, userID, deck.ID)
	if err != nil {
		if errors.Is(err, store.ErrAccessNotFound) {
			return ErrDeckAccessDenied
		}
		return err
	}
	return nil
}

// accessRecord returns the user's access record for the deck, nil when the
// user is the owner, or ErrDeckAccessDenied when neither applies.
func (s *serviceImpl) accessRecord(ctx context.Context, accessStore store.AccessStore, userID uuid.UUID, deck *domain.Deck) (*domain.StudentDeckAccess, error) {
	if deck.OwnerID == userID {
		return nil, nil
	}

	access, err := accessStore.Get(ctx, userID, deck.ID)
	if err != nil {
		if errors.Is(err, store.ErrAccessNotFound) {
			return nil, ErrDeckAccessDenied
		}
		return nil, err
	}
	return access, nil
}

// foldIntoDailyStats loads (or starts) today's rollup, applies fn and writes
// it back.
func (s *serviceImpl) foldIntoDailyStats(
	ctx context.Context,
	statsStore store.StatsStore,
	userID uuid.UUID,
	now time.Time,
	fn func(*domain.DailyStats),
) error {
	stats, err := statsStore.GetDaily(ctx, userID, now)
	if err != nil {
		if !errors.Is(err, store.ErrStatsNotFound) {
			return fmt.Errorf("failed to load daily stats: %w", err)
		}
		stats = domain.NewDailyStats(userID, now)
	}

	fn(stats)

	if err := statsStore.Upsert(ctx, stats); err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

func percentLearned(counts store.ItemCounts) float64 {
	if counts.Total == 0 {
		return 0
	}
	return float64(counts.Learned) / float64(counts.Total) * 100
}
