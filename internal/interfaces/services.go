package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/satchel/internal/models"
)

// AuthService verifies credentials, issues session tokens and resolves
// token claims back to live principals.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	VerifyToken(token string) (*models.TokenPayload, error)
	GetPrincipal(ctx context.Context, id string) (*models.Principal, error)
	EnsureAdmin(ctx context.Context, email, password, name string) error
}

// UploadedFile describes a file artifact already written to local storage
// by the upload-parsing boundary.
type UploadedFile struct {
	OriginalName string
	StoredName   string // Base name inside the uploads directory
	MimeType     string
	Size         int64
}

// DocumentService orchestrates the document lifecycle
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]*models.DocumentMetadata, error)
	CreateDocument(ctx context.Context, file *UploadedFile) (*models.DocumentMetadata, error)
	GetDocumentMetadata(ctx context.Context, id string) (*models.DocumentMetadata, error)
	GetDocumentExtractions(ctx context.Context, id string) (*models.ExtractionResult, error)
	DeleteDocument(ctx context.Context, id string) error
	OpenDocumentFile(ctx context.Context, id string) (io.ReadCloser, *models.DocumentMetadata, error)
}

// ExtractionGenerator produces placeholder extraction sets for new
// documents. Treated as a black-box data source.
type ExtractionGenerator interface {
	Generate(documentID string) *models.ExtractionSet
}

// CleanupService reconciles document records against on-disk files
type CleanupService interface {
	CleanupOrphanedDocuments(ctx context.Context) int
}
