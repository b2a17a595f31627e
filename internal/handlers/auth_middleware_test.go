package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/models"
)

// stubAuthService implements interfaces.AuthService with canned results
type stubAuthService struct {
	payload   *models.TokenPayload
	principal *models.Principal
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	return nil, common.ErrInvalidCredentials
}

func (s *stubAuthService) VerifyToken(token string) (*models.TokenPayload, error) {
	if s.payload == nil || token != "valid-token" {
		return nil, common.ErrInvalidToken
	}
	return s.payload, nil
}

func (s *stubAuthService) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	if s.principal == nil || s.principal.ID != id {
		return nil, common.ErrUserNotFound
	}
	return s.principal, nil
}

func (s *stubAuthService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	return nil
}

func adminStub() *stubAuthService {
	return &stubAuthService{
		payload:   &models.TokenPayload{ID: "usr_1", Email: "admin@example.com", Role: models.RoleAdmin},
		principal: &models.Principal{ID: "usr_1", Email: "admin@example.com", Name: "Admin User", Role: models.RoleAdmin},
	}
}

func protectedEndpoint(t *testing.T, auth *stubAuthService, roles ...string) http.Handler {
	t.Helper()

	middleware := NewAuthMiddleware(auth, arbor.NewLogger())
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := PrincipalFromContext(r.Context())
		require.NotNil(t, principal)
		WriteJSON(w, http.StatusOK, map[string]string{"user": principal.Email})
	})

	if len(roles) > 0 {
		return middleware.Authenticate(middleware.Authorize(roles...)(inner))
	}
	return middleware.Authenticate(inner)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := protectedEndpoint(t, adminStub())

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"bare token", "valid-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "No token provided", errorBody(t, rec))
		})
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	handler := protectedEndpoint(t, adminStub())

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", errorBody(t, rec))
}

func TestAuthenticateDeletedUser(t *testing.T) {
	auth := adminStub()
	auth.principal = nil
	handler := protectedEndpoint(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", errorBody(t, rec))
}

func TestAuthorizeRoles(t *testing.T) {
	t.Run("admin allowed", func(t *testing.T) {
		handler := protectedEndpoint(t, adminStub(), models.RoleAdmin)

		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("any listed role allowed", func(t *testing.T) {
		auth := adminStub()
		auth.payload.Role = "editor"
		auth.principal.Role = "editor"
		handler := protectedEndpoint(t, auth, models.RoleAdmin, "editor")

		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role forbidden", func(t *testing.T) {
		auth := adminStub()
		auth.payload.Role = "editor"
		auth.principal.Role = "editor"
		handler := protectedEndpoint(t, auth, models.RoleAdmin)

		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Not authorized to access this route", errorBody(t, rec))
	})
}
