package live

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

type testStores struct {
	sessions *MockSessionStore
	results  *MockResultStore
	decks    *MockDeckStore
	items    *MockItemStore
	users    *MockUserStore
}

func newTestService(t *testing.T) (*serviceImpl, *testStores) {
	t.Helper()

	stores := &testStores{
		sessions: new(MockSessionStore),
		results:  new(MockResultStore),
		decks:    new(MockDeckStore),
		items:    new(MockItemStore),
		users:    new(MockUserStore),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(nil, stores.sessions, stores.results, stores.decks, stores.items, stores.users, logger).(*serviceImpl)

	// Run transaction callbacks directly against the mocks.
	svc.runTx = func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, (*sql.Tx)(nil))
	}
	svc.timeFunc = func() time.Time {
		return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	}

	return svc, stores
}

func newTeacher() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "teacher@example.com",
		Username: "msfrizzle",
		Role:     domain.RoleTeacher,
	}
}

func newStudent() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "student@example.com",
		Username: "arnold",
		Role:     domain.RoleStudent,
	}
}

func newTestSession(teacherID uuid.UUID, status domain.SessionStatus, maxParticipants int) *domain.LiveSession {
	return &domain.LiveSession{
		ID:              uuid.New(),
		DeckID:          uuid.New(),
		TeacherID:       teacherID,
		SessionCode:     "654321",
		MaxParticipants: maxParticipants,
		Status:          status,
		Participants:    []domain.Participant{},
		CreatedAt:       time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a waiting session with a six digit code", func(t *testing.T) {
		svc, stores := newTestService(t)
		teacher := newTeacher()
		deck := &domain.Deck{ID: uuid.New(), OwnerID: teacher.ID, Name: "Solar System"}

		stores.users.On("GetByID", ctx, teacher.ID).Return(teacher, nil)
		stores.decks.On("GetByID", ctx, deck.ID).Return(deck, nil)
		stores.sessions.On("Create", ctx, mock.AnythingOfType("*domain.LiveSession")).Return(nil)

		info, err := svc.Create(ctx, teacher.ID, deck.ID, 10)

		require.NoError(t, err)
		assert.Equal(t, "Solar System", info.DeckName)
		assert.Equal(t, domain.SessionStatusWaiting, info.Session.Status)
		assert.Equal(t, 10, info.Session.MaxParticipants)
		assert.Len(t, info.Session.SessionCode, domain.SessionCodeLength)
		for _, c := range info.Session.SessionCode {
			assert.True(t, c >= '0' && c <= '9')
		}
		assert.Empty(t, info.Session.Participants)
		stores.sessions.AssertExpectations(t)
	})

	t.Run("regenerates the code on collision", func(t *testing.T) {
		svc, stores := newTestService(t)
		teacher := newTeacher()
		deck := &domain.Deck{ID: uuid.New(), OwnerID: teacher.ID, Name: "Solar System"}

		stores.users.On("GetByID", ctx, teacher.ID).Return(teacher, nil)
		stores.decks.On("GetByID", ctx, deck.ID).Return(deck, nil)
		stores.sessions.On("Create", ctx, mock.AnythingOfType("*domain.LiveSession")).
			Return(store.ErrCodeExists).Once()
		stores.sessions.On("Create", ctx, mock.AnythingOfType("*domain.LiveSession")).
			Return(nil).Once()

		info, err := svc.Create(ctx, teacher.ID, deck.ID, 0)

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultMaxParticipants, info.Session.MaxParticipants)
		stores.sessions.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("gives up after persistent code collisions", func(t *testing.T) {
		svc, stores := newTestService(t)
		teacher := newTeacher()
		deck := &domain.Deck{ID: uuid.New(), OwnerID: teacher.ID, Name: "Solar System"}

		stores.users.On("GetByID", ctx, teacher.ID).Return(teacher, nil)
		stores.decks.On("GetByID", ctx, deck.ID).Return(deck, nil)
		stores.sessions.On("Create", ctx, mock.AnythingOfType("*domain.LiveSession")).
			Return(store.ErrCodeExists)

		_, err := svc.Create(ctx, teacher.ID, deck.ID, 10)

		assert.ErrorIs(t, err, ErrCodeGeneration)
		stores.sessions.AssertNumberOfCalls(t, "Create", maxCodeAttempts)
	})

	t.Run("rejects a student host", func(t *testing.T) {
		svc, stores := newTestService(t)
		student := newStudent()

		stores.users.On("GetByID", ctx, student.ID).Return(student, nil)

		_, err := svc.Create(ctx, student.ID, uuid.New(), 10)

		assert.ErrorIs(t, err, ErrNotTeacher)
		stores.sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a new nickname to the roster", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusWaiting, 10)

		stores.sessions.On("GetByCodeAndStatus", ctx, session.SessionCode,
			domain.SessionStatusWaiting, domain.SessionStatusActive).Return(session, nil)
		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)
		stores.sessions.On("Update", ctx, mock.AnythingOfType("*domain.LiveSession")).Return(nil)

		result, err := svc.Join(ctx, session.SessionCode, "alice")

		require.NoError(t, err)
		assert.Equal(t, session.ID, result.SessionID)
		assert.Equal(t, session.DeckID, result.DeckID)
		assert.False(t, result.Rejoined)
		require.Len(t, session.Participants, 1)
		assert.Equal(t, "alice", session.Participants[0].Nickname)
		assert.Equal(t, svc.timeFunc(), session.Participants[0].JoinedAt)
	})

	t.Run("capacity check runs against the locked re-read", func(t *testing.T) {
		svc, stores := newTestService(t)
		stale := newTestSession(uuid.New(), domain.SessionStatusWaiting, 2)
		stale.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
		}

		// Another join commits between the code lookup and the locked
		// read, filling the last slot. The stale snapshot still shows a
		// free slot, so this join must be decided on the fresh roster.
		fresh := newTestSession(stale.TeacherID, domain.SessionStatusWaiting, 2)
		fresh.ID = stale.ID
		fresh.SessionCode = stale.SessionCode
		fresh.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
			{Nickname: "bob", JoinedAt: time.Now().UTC()},
		}

		stores.sessions.On("GetByCodeAndStatus", ctx, stale.SessionCode,
			domain.SessionStatusWaiting, domain.SessionStatusActive).Return(stale, nil)
		stores.sessions.On("GetByIDForUpdate", ctx, stale.ID).Return(fresh, nil)

		_, err := svc.Join(ctx, stale.SessionCode, "carol")

		assert.ErrorIs(t, err, ErrRoomFull)
		stores.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejoining with the same nickname leaves the roster unchanged", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)
		session.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
		}

		stores.sessions.On("GetByCodeAndStatus", ctx, session.SessionCode,
			domain.SessionStatusWaiting, domain.SessionStatusActive).Return(session, nil)
		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		result, err := svc.Join(ctx, session.SessionCode, "alice")

		require.NoError(t, err)
		assert.True(t, result.Rejoined)
		assert.Len(t, session.Participants, 1)
		stores.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejects joins beyond capacity", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusWaiting, 2)
		session.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
			{Nickname: "bob", JoinedAt: time.Now().UTC()},
		}

		stores.sessions.On("GetByCodeAndStatus", ctx, session.SessionCode,
			domain.SessionStatusWaiting, domain.SessionStatusActive).Return(session, nil)
		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		_, err := svc.Join(ctx, session.SessionCode, "carol")

		assert.ErrorIs(t, err, ErrRoomFull)
		assert.Len(t, session.Participants, 2)
		stores.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("full room still accepts a rejoin", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusWaiting, 2)
		session.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
			{Nickname: "bob", JoinedAt: time.Now().UTC()},
		}

		stores.sessions.On("GetByCodeAndStatus", ctx, session.SessionCode,
			domain.SessionStatusWaiting, domain.SessionStatusActive).Return(session, nil)
		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		result, err := svc.Join(ctx, session.SessionCode, "alice")

		require.NoError(t, err)
		assert.True(t, result.Rejoined)
		assert.Len(t, session.Participants, 2)
	})

	t.Run("rejects an empty nickname", func(t *testing.T) {
		svc, stores := newTestService(t)

		_, err := svc.Join(ctx, "654321", "")

		assert.ErrorIs(t, err, domain.ErrResultNicknameEmpty)
		stores.sessions.AssertNotCalled(t, "GetByCodeAndStatus",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown code reads as not found", func(t *testing.T) {
		svc, stores := newTestService(t)

		stores.sessions.On("GetByCodeAndStatus", ctx, "000000",
			domain.SessionStatusWaiting, domain.SessionStatusActive).
			Return(nil, store.ErrSessionNotFound)

		_, err := svc.Join(ctx, "000000", "alice")

		assert.ErrorIs(t, err, store.ErrSessionNotFound)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()
	teacherID := uuid.New()

	t.Run("starting stamps the start time", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusWaiting, 10)

		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)
		stores.sessions.On("Update", ctx, mock.AnythingOfType("*domain.LiveSession")).Return(nil)

		err := svc.Start(ctx, teacherID, session.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusActive, session.Status)
		require.NotNil(t, session.StartedAt)
		assert.Equal(t, svc.timeFunc(), *session.StartedAt)
		assert.Nil(t, session.CompletedAt)
	})

	t.Run("finishing stamps the completion time", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusReview, 10)

		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)
		stores.sessions.On("Update", ctx, mock.AnythingOfType("*domain.LiveSession")).Return(nil)

		err := svc.Finish(ctx, teacherID, session.ID)

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCompleted, session.Status)
		require.NotNil(t, session.CompletedAt)
		assert.Equal(t, svc.timeFunc(), *session.CompletedAt)
	})

	t.Run("review only follows active", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusWaiting, 10)

		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		err := svc.Review(ctx, teacherID, session.ID)

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, domain.SessionStatusWaiting, session.Status)
		stores.sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("completed sessions cannot be cancelled", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusCompleted, 10)

		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		err := svc.Cancel(ctx, teacherID, session.ID)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("another teacher's session reads as missing", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusWaiting, 10)

		stores.sessions.On("GetByIDForUpdate", ctx, session.ID).Return(session, nil)

		err := svc.Start(ctx, teacherID, session.ID)

		assert.ErrorIs(t, err, store.ErrSessionNotFound)
		assert.Equal(t, domain.SessionStatusWaiting, session.Status)
	})
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("first answer creates the result row", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)
		itemID := uuid.New()

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(nil, store.ErrResultNotFound)
		stores.results.On("Create", ctx, mock.MatchedBy(func(r *domain.LiveSessionResult) bool {
			return r.Nickname == "alice" && r.CorrectCount == 1 && len(r.Answers) == 1
		})).Return(nil)

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", itemID, true, 2000)

		require.NoError(t, err)
		assert.False(t, result.GameOver)
		assert.Equal(t, float64(980), result.Awarded)
		assert.Equal(t, 980, result.Score)
	})

	t.Run("slow correct answers still earn the floor", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		existing, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		existing.Score = 1500

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(existing, nil)
		stores.results.On("UpdateVersioned", ctx, existing).Return(nil)

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 300000)

		require.NoError(t, err)
		assert.Equal(t, float64(500), result.Awarded)
		assert.Equal(t, 2000, result.Score)
	})

	t.Run("incorrect answers award nothing", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		existing, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		existing.Score = 980
		existing.CorrectCount = 1

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(existing, nil)
		stores.results.On("UpdateVersioned", ctx, existing).Return(nil)

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), false, 1500)

		require.NoError(t, err)
		assert.Zero(t, result.Awarded)
		assert.Equal(t, 980, result.Score)
		assert.Equal(t, 1, existing.IncorrectCount)
	})

	t.Run("completed session signals game over without writing", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusCompleted, 10)

		existing, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		existing.Score = 1480
		existing.CorrectCount = 2

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(existing, nil)

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 1000)

		require.NoError(t, err)
		assert.True(t, result.GameOver)
		assert.Equal(t, 1480, result.Score)
		assert.Equal(t, 2, existing.CorrectCount)
		assert.Empty(t, existing.Answers)
		stores.results.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		stores.results.AssertNotCalled(t, "UpdateVersioned", mock.Anything, mock.Anything)
	})

	t.Run("waiting session rejects answers", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusWaiting, 10)

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)

		_, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 1000)

		assert.ErrorIs(t, err, ErrSessionNotActive)
	})

	t.Run("retries a conflicted update with a fresh read", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		stale, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		fresh, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		fresh.Version = 1

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(stale, nil).Once()
		stores.results.On("Get", ctx, session.ID, "alice").Return(fresh, nil).Once()
		stores.results.On("UpdateVersioned", ctx, stale).Return(store.ErrConflict).Once()
		stores.results.On("UpdateVersioned", ctx, fresh).Return(nil).Once()

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 1000)

		require.NoError(t, err)
		assert.Equal(t, float64(990), result.Awarded)
		stores.results.AssertExpectations(t)
	})

	t.Run("gives up after repeated conflicts", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		existing, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(existing, nil)
		stores.results.On("UpdateVersioned", ctx, mock.Anything).Return(store.ErrConflict)

		_, err = svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 1000)

		assert.ErrorIs(t, err, ErrAnswerContention)
		stores.results.AssertNumberOfCalls(t, "UpdateVersioned", maxAnswerRetries)
	})

	t.Run("lost creation race falls back to the update path", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		winner, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		winner.Score = 990
		winner.CorrectCount = 1

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("Get", ctx, session.ID, "alice").Return(nil, store.ErrResultNotFound).Once()
		stores.results.On("Create", ctx, mock.Anything).Return(store.ErrDuplicate).Once()
		stores.results.On("Get", ctx, session.ID, "alice").Return(winner, nil).Once()
		stores.results.On("UpdateVersioned", ctx, winner).Return(nil).Once()

		result, err := svc.SubmitAnswer(ctx, session.ID, "alice", uuid.New(), true, 1000)

		require.NoError(t, err)
		assert.Equal(t, 1980, result.Score)
		stores.results.AssertExpectations(t)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	teacherID := uuid.New()

	t.Run("reports the roster and leaderboard", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusActive, 10)
		session.Participants = []domain.Participant{
			{Nickname: "alice", JoinedAt: time.Now().UTC()},
			{Nickname: "bob", JoinedAt: time.Now().UTC()},
		}

		alice, err := domain.NewLiveSessionResult(session.ID, "alice")
		require.NoError(t, err)
		alice.Score = 1980
		alice.CorrectCount = 2
		bob, err := domain.NewLiveSessionResult(session.ID, "bob")
		require.NoError(t, err)
		bob.Score = 500
		bob.CorrectCount = 1
		bob.IncorrectCount = 2

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)
		stores.results.On("ListBySession", ctx, session.ID).
			Return([]*domain.LiveSessionResult{alice, bob}, nil)

		stats, err := svc.Stats(ctx, teacherID, session.ID)

		require.NoError(t, err)
		assert.Equal(t, session.SessionCode, stats.Code)
		assert.Equal(t, domain.SessionStatusActive, stats.Status)
		assert.Len(t, stats.Participants, 2)
		require.Len(t, stats.Leaderboard, 2)
		assert.Equal(t, LeaderboardEntry{Nickname: "alice", Score: 1980, Correct: 2}, stats.Leaderboard[0])
		assert.Equal(t, LeaderboardEntry{Nickname: "bob", Score: 500, Correct: 1, Incorrect: 2}, stats.Leaderboard[1])
	})

	t.Run("only the host can read stats", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(uuid.New(), domain.SessionStatusActive, 10)

		stores.sessions.On("GetByID", ctx, session.ID).Return(session, nil)

		_, err := svc.Stats(ctx, teacherID, session.ID)

		assert.ErrorIs(t, err, ErrNotSessionOwner)
		stores.results.AssertNotCalled(t, "ListBySession", mock.Anything, mock.Anything)
	})
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	teacherID := uuid.New()

	t.Run("caps the listing at twenty sessions", func(t *testing.T) {
		svc, stores := newTestService(t)

		deck := &domain.Deck{ID: uuid.New(), OwnerID: teacherID, Name: "Solar System"}
		sessions := make([]*domain.LiveSession, 0, 25)
		for i := 0; i < 25; i++ {
			session := newTestSession(teacherID, domain.SessionStatusCompleted, 10)
			session.DeckID = deck.ID
			sessions = append(sessions, session)
		}

		stores.sessions.On("ListByTeacher", ctx, teacherID).Return(sessions, nil)
		stores.decks.On("GetByID", ctx, deck.ID).Return(deck, nil)

		entries, err := svc.History(ctx, teacherID)

		require.NoError(t, err)
		assert.Len(t, entries, maxHistoryEntries)
		assert.Equal(t, "Solar System", entries[0].DeckName)
	})

	t.Run("a deleted deck leaves the name blank", func(t *testing.T) {
		svc, stores := newTestService(t)
		session := newTestSession(teacherID, domain.SessionStatusCompleted, 10)

		stores.sessions.On("ListByTeacher", ctx, teacherID).
			Return([]*domain.LiveSession{session}, nil)
		stores.decks.On("GetByID", ctx, session.DeckID).Return(nil, store.ErrDeckNotFound)

		entries, err := svc.History(ctx, teacherID)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].DeckName)
		assert.Zero(t, entries[0].Participants)
	})
}
