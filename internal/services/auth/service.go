package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Service verifies login credentials and issues signed session tokens.
// Tokens are stateless; there is no server-side revocation list.
type Service struct {
	userStorage interfaces.UserStorage
	secret      []byte
	tokenTTL    time.Duration
	logger      arbor.ILogger
}

// NewService creates a new authentication service
func NewService(userStorage interfaces.UserStorage, cfg *common.AuthConfig, logger arbor.ILogger) interfaces.AuthService {
	ttlHours := cfg.TokenTTLHours
	if ttlHours <= 0 {
		ttlHours = 24
	}

	return &Service{
		userStorage: userStorage,
		secret:      []byte(cfg.Secret),
		tokenTTL:    time.Duration(ttlHours) * time.Hour,
		logger:      logger,
	}
}

type tokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Login verifies an admin's credentials and issues a session token.
// Unknown email and wrong password produce the same error so callers
// cannot probe which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}
	if user == nil || user.Role != models.RoleAdmin {
		return nil, common.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Admin login")

	return &models.LoginResponse{
		Token: token,
		User: models.LoginUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
	}, nil
}

// VerifyToken validates a session token's signature and expiry and
// returns the embedded payload. Pure validation, no side effects.
func (s *Service) VerifyToken(token string) (*models.TokenPayload, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.TokenPayload{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

// GetPrincipal resolves a user id to a live principal with credential
// fields excluded
func (s *Service) GetPrincipal(ctx context.Context, id string) (*models.Principal, error) {
	user, err := s.userStorage.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("principal lookup failed: %w", err)
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user.ToPrincipal(), nil
}

// EnsureAdmin creates the seed admin account if no account with the seed
// email exists. Idempotent; invoked once at process start by the
// composition root with seed values passed in explicitly.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	existing, err := s.userStorage.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("admin lookup failed: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hash,
		Name:     name,
		Role:     models.RoleAdmin,
	}

	if err := s.userStorage.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("Admin user created")
	return nil
}

// HashPassword hashes a plaintext password before it is persisted. Called
// whenever a credential is created or changed, never from the storage
// layer's write path.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
