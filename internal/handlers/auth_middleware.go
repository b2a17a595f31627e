package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
)

type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalFromContext returns the authenticated principal attached by
// the Authenticate middleware, or nil when the request is anonymous.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	principal, _ := ctx.Value(principalContextKey).(*models.Principal)
	return principal
}

// AuthMiddleware gates protected routes behind bearer-token authentication
// and role checks.
type AuthMiddleware struct {
	authService interfaces.AuthService
	logger      arbor.ILogger
}

func NewAuthMiddleware(authService interfaces.AuthService, logger arbor.ILogger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate verifies the Authorization header, resolves the token's
// user against storage and stores the principal on the request context.
// Token verification alone is not enough: a deleted user with a live
// token must be rejected.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			WriteClassifiedError(w, m.logger, common.ErrNoTokenProvided)
			return
		}

		payload, err := m.authService.VerifyToken(token)
		if err != nil {
			WriteClassifiedError(w, m.logger, err)
			return
		}

		principal, err := m.authService.GetPrincipal(r.Context(), payload.ID)
		if err != nil {
			WriteClassifiedError(w, m.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize restricts a route to principals holding one of the given
// roles. Must run after Authenticate.
func (m *AuthMiddleware) Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				WriteClassifiedError(w, m.logger, common.ErrNotAuthorized)
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			m.logger.Warn().
				Str("user_id", principal.ID).
				Str("role", principal.Role).
				Str("path", r.URL.Path).
				Msg("Role not permitted for route")
			WriteClassifiedError(w, m.logger, common.ErrForbidden)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
