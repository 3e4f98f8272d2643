package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ratecast/ratecast/pkg/storage/storagemock"
	"github.com/ratecast/ratecast/pkg/types"
)

// fakeVerifier accepts tokens of the form "good-<userID>".
func fakeVerifier(ctx context.Context, rawToken string) (types.User, error) {
	id, ok := strings.CutPrefix(rawToken, "good-")
	if !ok || id == "" {
		return types.User{}, errors.New("bad token")
	}
	return types.User{ID: id, Email: id + "@example.com"}, nil
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"NoHeader", "", http.StatusUnauthorized, `{"error": "unauthorized"}`},
		{"Basic", "Basic dXNlcjpwYXNz", http.StatusBadRequest, `{"error": "invalid auth header"}`},
		{"BadToken", "Bearer nope", http.StatusUnauthorized, `{"error": "invalid auth token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// storage must not be reached
			srv := &Server{storage: &storagemock.MockDatabase{}, verifyToken: fakeVerifier}
			req := httptest.NewRequest("GET", "/api/projects", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			srv.setupHandler().ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}

	t.Run("ValidToken", func(t *testing.T) {
		mockS := &storagemock.MockDatabase{}
		mockS.On("ListProjects", mock.Anything, "user1", 0).Return([]types.Project{{ID: "p1", UserID: "user1"}}, nil).Once()

		srv := &Server{storage: mockS, verifyToken: fakeVerifier}
		req := httptest.NewRequest("GET", "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer good-user1")
		w := httptest.NewRecorder()
		srv.setupHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockS.AssertExpectations(t)
	})

	t.Run("Disabled", func(t *testing.T) {
		mockS := &storagemock.MockDatabase{}
		mockS.On("ListProjects", mock.Anything, "", 0).Return(nil, nil).Once()

		srv := &Server{storage: mockS}
		req := httptest.NewRequest("GET", "/api/projects", nil)
		req.Header.Set("Authorization", "Bearer whatever")
		w := httptest.NewRecorder()
		srv.setupHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockS.AssertExpectations(t)
	})

	t.Run("HealthzIsPublic", func(t *testing.T) {
		srv := &Server{verifyToken: fakeVerifier}
		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		srv.setupHandler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("BodyTooLarge", func(t *testing.T) {
		srv := &Server{storage: &storagemock.MockDatabase{}, notifier: &mockNotifier{}}
		big := `{"name": "` + strings.Repeat("a", maxBodyBytes) + `"}`
		req := httptest.NewRequest("POST", "/api/projects", strings.NewReader(big))
		w := httptest.NewRecorder()
		srv.setupHandler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
