package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MockUserStore is a testify mock for store.UserStore.
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

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)
	return svc
}

func newTestAuthHandler(t *testing.T, users *MockUserStore) (*AuthHandler, auth.JWTService) {
	t.Helper()

	jwtService := newTestJWTService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewAuthHandler(users, jwtService, auth.NewBcryptVerifier(4), logger)
	return handler, jwtService
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates user and returns token pair", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, jwtService := newTestAuthHandler(t, users)

		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "alice@example.com" &&
				u.Role == domain.RoleTeacher &&
				u.HashedPassword != "" &&
				u.HashedPassword != "hunter2hunter2"
		})).Return(nil)

		rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "hunter2hunter2",
			Role:     domain.RoleTeacher,
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.Equal(t, domain.RoleTeacher, resp.Role)

		claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, claims.UserID)
		assert.Equal(t, domain.RoleTeacher, claims.Role)

		_, err = jwtService.ValidateRefreshToken(context.Background(), resp.RefreshToken)
		assert.NoError(t, err)

		users.AssertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists)

		rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "hunter2hunter2",
			Role:     domain.RoleStudent,
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid payload is rejected", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Username: "alice",
			Password: "hunter2hunter2",
			Role:     domain.RoleStudent,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "short",
			Role:     domain.RoleStudent,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	password := "hunter2hunter2"
	verifier := auth.NewBcryptVerifier(4)
	hashed, err := verifier.Hash(password)
	require.NoError(t, err)

	user := &domain.User{
		ID:             uuid.New(),
		Email:          "alice@example.com",
		Username:       "alice",
		HashedPassword: hashed,
		Role:           domain.RoleStudent,
	}

	t.Run("valid credentials return token pair", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Email:    user.Email,
			Password: password,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		users.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Email:    user.Email,
			Password: "wrong-password",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email is unauthorized", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		users.On("GetByEmail", mock.Anything, "ghost@example.com").
			Return(nil, store.ErrUserNotFound)

		rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
			Email:    "ghost@example.com",
			Password: password,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token yields a fresh pair", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, jwtService := newTestAuthHandler(t, users)

		userID := uuid.New()
		refresh, err := jwtService.GenerateRefreshToken(context.Background(), userID, domain.RoleStudent)
		require.NoError(t, err)

		rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
			RefreshToken: refresh,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("access token is not accepted as refresh token", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, jwtService := newTestAuthHandler(t, users)

		access, err := jwtService.GenerateToken(context.Background(), uuid.New(), domain.RoleStudent)
		require.NoError(t, err)

		rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
			RefreshToken: access,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		t.Parallel()

		users := &MockUserStore{}
		handler, _ := newTestAuthHandler(t, users)

		rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
			RefreshToken: "not.a.jwt",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
