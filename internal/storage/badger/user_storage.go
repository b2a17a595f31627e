package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// UserStorage implements the UserStorage interface for Badger
type UserStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewUserStorage creates a new UserStorage instance
func NewUserStorage(db *BadgerDB, logger arbor.ILogger) interfaces.UserStorage {
	return &UserStorage{
		db:     db,
		logger: logger,
	}
}

// SaveUser persists a user. Emails are unique case-insensitively; the
// address is lowercased on the way in and a second account with the same
// address is rejected as a duplicate-field violation.
func (s *UserStorage) SaveUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = common.NewUserID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	existing, err := s.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != user.ID {
		return &common.DuplicateFieldError{Field: "email"}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if err := s.db.Store().Upsert(user.ID, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *UserStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.Store().Get(id, &user); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks up a user by exact (lowercased) email. Returns nil
// without error when no account matches.
func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	err := s.db.Store().Find(&users, badgerhold.Where("Email").Eq(strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}
