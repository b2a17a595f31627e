package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/models"
)

func TestUserPersistence(t *testing.T) {
	db := newTestDB(t)
	storage := NewUserStorage(db, arbor.NewLogger())

	ctx := context.Background()

	user := &models.User{
		Email:    "Admin@Example.com",
		Password: "$2a$10$hash",
		Name:     "Admin User",
		Role:     models.RoleAdmin,
	}
	if err := storage.SaveUser(ctx, user); err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Errorf("Expected lowercased email, got %q", user.Email)
	}

	loaded, err := storage.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	if loaded == nil || loaded.Role != models.RoleAdmin {
		t.Fatalf("Expected admin user, got %+v", loaded)
	}

	// Email lookup is case-insensitive
	byEmail, err := storage.GetUserByEmail(ctx, "ADMIN@example.COM")
	if err != nil {
		t.Fatalf("Failed to look up user by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("Expected user %s by email, got %+v", user.ID, byEmail)
	}

	// Unknown lookups return nil without error
	missing, err := storage.GetUser(ctx, "usr_missing")
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for unknown ID, got (%+v, %v)", missing, err)
	}
	missing, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("Expected (nil, nil) for unknown email, got (%+v, %v)", missing, err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	storage := NewUserStorage(db, arbor.NewLogger())

	ctx := context.Background()

	first := &models.User{Email: "admin@example.com", Password: "x", Name: "First", Role: models.RoleAdmin}
	if err := storage.SaveUser(ctx, first); err != nil {
		t.Fatalf("Failed to save first user: %v", err)
	}

	second := &models.User{Email: "admin@example.com", Password: "y", Name: "Second", Role: models.RoleAdmin}
	err := storage.SaveUser(ctx, second)
	if err == nil {
		t.Fatal("Expected duplicate email error")
	}

	var dup *common.DuplicateFieldError
	if !errors.As(err, &dup) || dup.Field != "email" {
		t.Errorf("Expected DuplicateFieldError on email, got %v", err)
	}

	// Re-saving the same user is an update, not a duplicate
	first.Name = "Renamed"
	if err := storage.SaveUser(ctx, first); err != nil {
		t.Errorf("Expected update of existing user to succeed, got %v", err)
	}
}
