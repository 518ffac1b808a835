package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"planner/internal/middleware"
	"planner/internal/models/user"
	"planner/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, rawToken string) (*user.User, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(caller.Username))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	t.Run("generated when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func TestLogging_PassesStatusThrough(t *testing.T) {
	handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "missing", rec.Body.String())
}

func TestAuthenticate(t *testing.T) {
	alice := &user.User{Username: "alice"}

	tests := []struct {
		name       string
		header     string
		setupMock  func(*MockAuthenticator)
		wantStatus int
		wantBody   string
	}{
		{
			name:   "valid bearer token",
			header: "Bearer good",
			setupMock: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(alice, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:   "scheme is case insensitive",
			header: "bearer good",
			setupMock: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(alice, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic YWxpY2U6c2VjcmV0", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer   ", wantStatus: http.StatusUnauthorized},
		{
			name:   "rejected token",
			header: "Bearer expired",
			setupMock: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "expired").
					Return(nil, service.NewUnauthenticated(errors.New("token expired")))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "backend failure",
			header: "Bearer good",
			setupMock: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, "good").Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(MockAuthenticator)
			if tt.setupMock != nil {
				tt.setupMock(auth)
			}
			handler := middleware.Authenticate(auth)(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, service.CodeUnauthenticated, body["error"])
			}
			auth.AssertExpectations(t)
		})
	}
}
