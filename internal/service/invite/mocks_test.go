package invite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MockInvitationStore is a mock implementation of the store.InvitationStore interface.
type MockInvitationStore struct {
	mock.Mock
}

func (m *MockInvitationStore) Create(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationStore) GetActiveByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationStore) GetActiveByDeckAndTeacher(ctx context.Context, deckID, teacherID uuid.UUID) (*domain.Invitation, error) {
	args := m.Called(ctx, deckID, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invitation), args.Error(1)
}

func (m *MockInvitationStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.Invitation, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invitation), args.Error(1)
}

func (m *MockInvitationStore) Update(ctx context.Context, inv *domain.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvitationStore) WithTx(tx *sql.Tx) store.InvitationStore {
	return m
}

// MockAccessStore is a mock implementation of the store.AccessStore interface.
type MockAccessStore struct {
	mock.Mock
}

func (m *MockAccessStore) Create(ctx context.Context, access *domain.StudentDeckAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

func (m *MockAccessStore) Get(ctx context.Context, studentID, deckID uuid.UUID) (*domain.StudentDeckAccess, error) {
	args := m.Called(ctx, studentID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentDeckAccess), args.Error(1)
}

func (m *MockAccessStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.StudentDeckAccess, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudentDeckAccess), args.Error(1)
}

func (m *MockAccessStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.StudentDeckAccess, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudentDeckAccess), args.Error(1)
}

func (m *MockAccessStore) UpdateProgress(ctx context.Context, access *domain.StudentDeckAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

func (m *MockAccessStore) WithTx(tx *sql.Tx) store.AccessStore {
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

// MockStudyStore is a mock implementation of the store.StudyStore interface.
type MockStudyStore struct {
	mock.Mock
}

func (m *MockStudyStore) CreateSession(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockStudyStore) ListByUser(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*domain.StudySession, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StudySession), args.Error(1)
}

func (m *MockStudyStore) WithTx(tx *sql.Tx) store.StudyStore {
	return m
}
