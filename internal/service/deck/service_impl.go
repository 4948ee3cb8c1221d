package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/domain/progress"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	db          *sql.DB
	deckStore   store.DeckStore
	itemStore   store.ItemStore
	accessStore store.AccessStore
	userStore   store.UserStore
	logger      *slog.Logger
	timeFunc    func() time.Time
	runTx       func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a new deck Service implementation.
func NewService(
	db *sql.DB,
	deckStore store.DeckStore,
	itemStore store.ItemStore,
	accessStore store.AccessStore,
	userStore store.UserStore,
	logger *slog.Logger,
) Service {
	if deckStore == nil || itemStore == nil || accessStore == nil || userStore == nil {
		panic("deck service stores cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		db:          db,
		deckStore:   deckStore,
		itemStore:   itemStore,
		accessStore: accessStore,
		userStore:   userStore,
		logger:      logger.With(slog.String("component", "deck_service")),
		timeFunc:    time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// CreateDeck implements Service.CreateDeck.
func (s *serviceImpl) CreateDeck(ctx context.Context, ownerID uuid.UUID, input CreateDeckInput) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(input.Items) == 0 {
		return nil, ErrNoItems
	}

	owner, err := s.userStore.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	deck, err := domain.NewDeck(ownerID, input.Name, input.ContentType, input.LearningMode, input.CardsPerDay)
	if err != nil {
		return nil, err
	}
	deck.Description = input.Description
	deck.AuthorName = owner.Username
	if input.IsPublic != nil {
		deck.IsPublic = *input.IsPublic
	}

	now := s.timeFunc().UTC()
	items, err := s.buildItems(deck, input.Items, now)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.deckStore.WithTx(tx).Create(ctx, deck); err != nil {
			return fmt.Errorf("failed to create deck: %w", err)
		}
		if err := s.itemStore.WithTx(tx).CreateMultiple(ctx, items); err != nil {
			return fmt.Errorf("failed to create deck items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("content_type", string(deck.ContentType)),
		slog.String("learning_mode", string(deck.LearningMode)),
		slog.Int("item_count", len(items)))

	return deck, nil
}

// buildItems turns drafts into items. Spaced mode staggers unlock dates so
// position i unlocks i/cardsPerDay days from now.
func (s *serviceImpl) buildItems(deck *domain.Deck, drafts []ItemDraft, now time.Time) ([]*domain.Item, error) {
	items := make([]*domain.Item, 0, len(drafts))
	for i, draft := range drafts {
		unlock := now
		if deck.LearningMode == domain.LearningModeSpaced {
			unlock = now.AddDate(0, 0, i/deck.CardsPerDay)
		}

		var item *domain.Item
		var err error
		if deck.ContentType == domain.ContentTypeQuiz {
			item, err = domain.NewQuizQuestion(deck.ID, i, draft.Question, draft.Options, draft.CorrectAnswers, unlock)
			if err == nil {
				item.Explanation = draft.Explanation
			}
		} else {
			item, err = domain.NewFlashcard(deck.ID, i, draft.Front, draft.Back, unlock)
		}
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		item.ImageQuery = draft.ImageQuery
		item.ImageURL = draft.ImageURL
		items = append(items, item)
	}
	return items, nil
}

// GetDeck implements Service.GetDeck.
func (s *serviceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*Overview, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	isOwner := deck.OwnerID == userID
	if !isOwner && !deck.IsPublic {
		if _, err := s.accessStore.Get(ctx, userID, deckID); err != nil {
			if errors.Is(err, store.ErrAccessNotFound) {
				return nil, ErrDeckAccessDenied
			}
			return nil, err
		}
	}

	if err := s.deckStore.IncrementViews(ctx, deckID); err != nil {
		return nil, fmt.Errorf("failed to bump deck views: %w", err)
	}
	deck.ViewsCount++

	overview, err := s.overview(ctx, deck, isOwner)
	if err != nil {
		return nil, err
	}
	return overview, nil
}

// ListDecks implements Service.ListDecks.
func (s *serviceImpl) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*Overview, error) {
	decks, err := s.deckStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	overviews := make([]*Overview, 0, len(decks))
	for _, deck := range decks {
		o, err := s.overview(ctx, deck, true)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, o)
	}

	// Decks with work to do first; ties keep the store's recency order.
	sort.SliceStable(overviews, func(i, j int) bool {
		return progress.SortPriority(overviews[i].Status) < progress.SortPriority(overviews[j].Status)
	})

	return overviews, nil
}

// UpdateDeck implements Service.UpdateDeck.
func (s *serviceImpl) UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, input UpdateDeckInput) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if deck.OwnerID != userID {
		return nil, ErrNotDeckOwner
	}

	if input.Name != nil {
		deck.Name = *input.Name
	}
	if input.Description != nil {
		deck.Description = *input.Description
	}
	if input.CardsPerDay != nil {
		deck.CardsPerDay = *input.CardsPerDay
	}
	if input.IsPublic != nil {
		deck.IsPublic = *input.IsPublic
	}
	deck.UpdatedAt = s.timeFunc().UTC()

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	if err := s.deckStore.Update(ctx, deck); err != nil {
		return nil, err
	}

	log.Info("deck updated", slog.String("deck_id", deckID.String()))
	return deck, nil
}

// DeleteDeck implements Service.DeleteDeck.
func (s *serviceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return err
	}

	if deck.OwnerID != userID {
		return ErrNotDeckOwner
	}

	if err := s.deckStore.Delete(ctx, deckID); err != nil {
		return err
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("owner_id", userID.String()))
	return nil
}

// ListPublicDecks implements Service.ListPublicDecks.
func (s *serviceImpl) ListPublicDecks(ctx context.Context, userID uuid.UUID) ([]*PublicDeckOverview, error) {
	decks, err := s.deckStore.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()
	overviews := make([]*PublicDeckOverview, 0, len(decks))
	for _, deck := range decks {
		counts, err := s.itemStore.CountByDeck(ctx, deck.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to count items: %w", err)
		}
		overviews = append(overviews, &PublicDeckOverview{
			Deck:      deck,
			ItemCount: counts.Total,
			IsOwner:   deck.OwnerID == userID,
		})
	}

	return overviews, nil
}

// CloneDeck implements Service.CloneDeck.
func (s *serviceImpl) CloneDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	original, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if original.OwnerID == userID {
		return nil, ErrCloneOwnDeck
	}
	if !original.IsPublic {
		return nil, ErrDeckNotPublic
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}

	clone, err := domain.NewDeck(userID, original.Name, original.ContentType, original.LearningMode, original.CardsPerDay)
	if err != nil {
		return nil, err
	}
	clone.Description = original.Description
	clone.AuthorName = user.Username
	// Clones start private regardless of the original's visibility.
	clone.IsPublic = false

	now := s.timeFunc().UTC()
	copies := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		var c *domain.Item
		if item.Type == domain.ItemTypeQuizQuestion {
			c, err = domain.NewQuizQuestion(clone.ID, item.Order, item.Question, item.Options, item.CorrectAnswers, now)
			if err == nil {
				c.Explanation = item.Explanation
			}
		} else {
			c, err = domain.NewFlashcard(clone.ID, item.Order, item.Front, item.Back, now)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to copy item %s: %w", item.ID, err)
		}
		c.ImageQuery = item.ImageQuery
		c.ImageURL = item.ImageURL
		copies = append(copies, c)
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.deckStore.WithTx(tx).Create(ctx, clone); err != nil {
			return fmt.Errorf("failed to create deck copy: %w", err)
		}
		if len(copies) > 0 {
			if err := s.itemStore.WithTx(tx).CreateMultiple(ctx, copies); err != nil {
				return fmt.Errorf("failed to copy deck items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("deck cloned",
		slog.String("original_id", deckID.String()),
		slog.String("clone_id", clone.ID.String()),
		slog.String("user_id", userID.String()))

	return clone, nil
}

// ListTeacherDecksForStudent implements Service.ListTeacherDecksForStudent.
func (s *serviceImpl) ListTeacherDecksForStudent(ctx context.Context, studentID uuid.UUID) ([]*StudentDeckOverview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	accesses, err := s.accessStore.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()
	result := make([]*StudentDeckOverview, 0, len(accesses))
	for _, access := range accesses {
		deck, err := s.deckStore.GetByID(ctx, access.DeckID)
		if err != nil {
			// A deck deleted after the student joined is skipped, not fatal.
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("joined deck no longer exists",
					slog.String("deck_id", access.DeckID.String()),
					slog.String("student_id", studentID.String()))
				continue
			}
			return nil, err
		}

		teacherName := ""
		if teacher, err := s.userStore.GetByID(ctx, access.TeacherID); err == nil {
			teacherName = teacher.Username
		}

		counts, err := s.itemStore.CountByDeck(ctx, access.DeckID, now)
		if err != nil {
			return nil, err
		}

		result = append(result, &StudentDeckOverview{
			Deck:        deck,
			TeacherName: teacherName,
			Access:      access,
			Counts:      counts,
			Status:      computeStatus(counts),
			Progress:    progress.Percent(counts.Learned, counts.Total),
		})
	}

	return result, nil
}

// overview derives the per-deck study state from a fresh count snapshot.
func (s *serviceImpl) overview(ctx context.Context, deck *domain.Deck, isOwner bool) (*Overview, error) {
	counts, err := s.itemStore.CountByDeck(ctx, deck.ID, s.timeFunc().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	return &Overview{
		Deck:     deck,
		Counts:   counts,
		Status:   computeStatus(counts),
		Progress: progress.Percent(counts.Learned, counts.Total),
		IsOwner:  isOwner,
	}, nil
}

func computeStatus(c store.ItemCounts) progress.Status {
	return progress.ComputeStatus(progress.Counts{Total: c.Total, Learned: c.Learned, Due: c.Due})
}
