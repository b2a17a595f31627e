package interfaces

import (
	"context"

	"github.com/ternarybob/satchel/internal/models"
)

// DocumentStorage - interface for document record persistence
type DocumentStorage interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetAllDocuments(ctx context.Context) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int, error)
}

// ExtractionStorage - interface for extraction set persistence.
// Sets are looked up by the owning document's id (indexed back-reference).
type ExtractionStorage interface {
	SaveExtractionSet(ctx context.Context, set *models.ExtractionSet) error
	GetExtractionSetByDocument(ctx context.Context, documentID string) (*models.ExtractionSet, error)
	DeleteExtractionSetByDocument(ctx context.Context, documentID string) error
}

// UserStorage - interface for administrative account persistence
type UserStorage interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	DocumentStorage() DocumentStorage
	ExtractionStorage() ExtractionStorage
	UserStorage() UserStorage
	Close() error
}
