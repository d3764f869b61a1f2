package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/identity-service/internal/config"
	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/models"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, credential, password string) (*models.User, *services.TokenPair, error) {
	args := m.Called(ctx, credential, password)
	user, _ := args.Get(0).(*models.User)
	pair, _ := args.Get(1).(*services.TokenPair)
	return user, pair, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testTokenPair(t *testing.T, uid uuid.UUID) *services.TokenPair {
	creator, err := jwt.NewCreator(config.Tokens{
		JWTSecretKey:    "test-secret-key",
		SigningMethod:   "HS256",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	})
	require.NoError(t, err)
	access, err := creator.CreateAccessToken(uid, nil)
	require.NoError(t, err)
	refresh, err := creator.CreateRefreshToken(uid)
	require.NoError(t, err)
	return &services.TokenPair{Access: access, Refresh: refresh}
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	authMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), authMock)

	uid := uuid.New()
	pair := testTokenPair(t, uid)
	user := &models.User{ID: uid, Email: "alice@example.com", Login: "alice"}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockPair       *services.TokenPair
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid login by email",
			requestBody:    Request{Credential: "alice@example.com", Password: "password123"},
			mockUser:       user,
			mockPair:       pair,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "valid login by login name",
			requestBody:    Request{Credential: "alice", Password: "password123"},
			mockUser:       user,
			mockPair:       pair,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Credential: "alice"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Password is a required field",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Credential: "alice", Password: "wrong-password"},
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "invalid credentials",
		},
		{
			name:           "cache unavailable",
			requestBody:    Request{Credential: "alice", Password: "password123"},
			mockErr:        services.ErrCacheWriteFailed,
			wantStatusCode: http.StatusServiceUnavailable,
			wantStatus:     "Error",
			wantError:      "failed to store session tokens",
		},
		{
			name:           "internal error",
			requestBody:    Request{Credential: "alice", Password: "password123"},
			mockErr:        errors.New("storage is down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock.ExpectedCalls = nil
			authMock.Calls = nil

			if tt.mockUser != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				authMock.On("Login", mock.Anything, req.Credential, req.Password).
					Return(tt.mockUser, tt.mockPair, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantStatus == "OK" {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "alice", data["login"])
				assert.Equal(t, pair.Access.Encoded(), data["token"])
			}

			authMock.AssertExpectations(t)
		})
	}
}
