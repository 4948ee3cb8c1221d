package live

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MockSessionStore is a mock implementation of the store.SessionStore interface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *domain.LiveSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiveSession), args.Error(1)
}

func (m *MockSessionStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.LiveSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiveSession), args.Error(1)
}

func (m *MockSessionStore) GetByCodeAndStatus(ctx context.Context, code string, statuses ...domain.SessionStatus) (*domain.LiveSession, error) {
	callArgs := make([]any, 0, len(statuses)+2)
	callArgs = append(callArgs, ctx, code)
	for _, st := range statuses {
		callArgs = append(callArgs, st)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiveSession), args.Error(1)
}

func (m *MockSessionStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.LiveSession, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiveSession), args.Error(1)
}

func (m *MockSessionStore) Update(ctx context.Context, session *domain.LiveSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

// MockResultStore is a mock implementation of the store.ResultStore interface.
type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Create(ctx context.Context, result *domain.LiveSessionResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultStore) Get(ctx context.Context, sessionID uuid.UUID, nickname string) (*domain.LiveSessionResult, error) {
	args := m.Called(ctx, sessionID, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LiveSessionResult), args.Error(1)
}

func (m *MockResultStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.LiveSessionResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LiveSessionResult), args.Error(1)
}

func (m *MockResultStore) UpdateVersioned(ctx context.Context, result *domain.LiveSessionResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultStore) WithTx(tx *sql.Tx) store.ResultStore {
	return m
}

// MockDeckStore is a mock implementation of the store.DeckStore interface.
type MockDeckStore struct {
	mock.Mock
}

func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) ListPublic(ctx context.Context) ([]*domain.Deck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Deck), args.Error(1)
}

func (m *MockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckStore) IncrementPlays(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// MockItemStore is a mock implementation of the store.ItemStore interface.
type MockItemStore struct {
	mock.Mock
}

func (m *MockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) ListDue(ctx context.Context, deckID uuid.UUID, now time.Time, newLimit int) ([]*domain.Item, error) {
	args := m.Called(ctx, deckID, now, newLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) ListUnlearned(ctx context.Context, deckID uuid.UUID) ([]*domain.Item, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemStore) CountByDeck(ctx context.Context, deckID uuid.UUID, now time.Time) (store.ItemCounts, error) {
	args := m.Called(ctx, deckID, now)
	return args.Get(0).(store.ItemCounts), args.Error(1)
}

func (m *MockItemStore) Save(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemStore) CreateMultiple(ctx context.Context, items []*domain.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemStore) DeleteByDeck(ctx context.Context, deckID uuid.UUID) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

func (m *MockItemStore) ResetByDeck(ctx context.Context, deckID uuid.UUID) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

func (m *MockItemStore) WithTx(tx *sql.Tx) store.ItemStore {
	return m
}

// MockUserStore is a mock implementation of the store.UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
