package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
)

// Service implements the DocumentService interface. It orchestrates
// upload acceptance, metadata projection, extraction retrieval and
// cascading delete on top of the document and extraction stores.
type Service struct {
	documentStorage   interfaces.DocumentStorage
	extractionStorage interfaces.ExtractionStorage
	generator         interfaces.ExtractionGenerator
	uploadsDir        string
	logger            arbor.ILogger
}

// NewService creates a new document lifecycle service
func NewService(
	documentStorage interfaces.DocumentStorage,
	extractionStorage interfaces.ExtractionStorage,
	generator interfaces.ExtractionGenerator,
	uploadsDir string,
	logger arbor.ILogger,
) interfaces.DocumentService {
	return &Service{
		documentStorage:   documentStorage,
		extractionStorage: extractionStorage,
		generator:         generator,
		uploadsDir:        uploadsDir,
		logger:            logger,
	}
}

// ListDocuments returns the metadata projection of every stored document
func (s *Service) ListDocuments(ctx context.Context) ([]*models.DocumentMetadata, error) {
	docs, err := s.documentStorage.GetAllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*models.DocumentMetadata, len(docs))
	for i, doc := range docs {
		result[i] = doc.ToMetadata()
	}
	return result, nil
}

// CreateDocument accepts a validated upload artifact and creates the
// document record plus its placeholder extraction set. The two writes are
// sequential and not atomic; a failure between them leaves a document
// without extractions until it is deleted manually.
func (s *Service) CreateDocument(ctx context.Context, file *interfaces.UploadedFile) (*models.DocumentMetadata, error) {
	if file == nil {
		return nil, common.ErrNoFileUploaded
	}
	if file.MimeType != "application/pdf" {
		return nil, common.ErrOnlyPDFAllowed
	}

	doc := &models.Document{
		Title:       file.OriginalName,
		Description: "Uploaded document",
		FileName:    file.OriginalName,
		FilePath:    "/uploads/" + file.StoredName,
		FileType:    file.MimeType,
		Metadata: models.DocumentFileMetadata{
			Size:       file.Size,
			UploadedBy: "system",
			Version:    1,
			PageCount:  0,
		},
	}

	if err := s.documentStorage.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	set := s.generator.Generate(doc.ID)
	if err := s.extractionStorage.SaveExtractionSet(ctx, set); err != nil {
		s.logger.Error().Err(err).Str("doc_id", doc.ID).Msg("Failed to save extraction set for new document")
		return nil, err
	}

	s.logger.Info().
		Str("doc_id", doc.ID).
		Str("file_name", doc.FileName).
		Int64("size", doc.Metadata.Size).
		Msg("Document created")

	return doc.ToMetadata(), nil
}

// GetDocumentMetadata returns the metadata projection for one document
func (s *Service) GetDocumentMetadata(ctx context.Context, id string) (*models.DocumentMetadata, error) {
	doc, err := s.documentStorage.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.ToMetadata(), nil
}

// GetDocumentExtractions returns a document's extractions sorted ascending
// by page number. A document with no declared page count is treated as at
// least one page.
func (s *Service) GetDocumentExtractions(ctx context.Context, id string) (*models.ExtractionResult, error) {
	doc, err := s.documentStorage.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	set, err := s.extractionStorage.GetExtractionSetByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	items := make([]models.Extraction, len(set.Extractions))
	copy(items, set.Extractions)
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].PageNumber < items[b].PageNumber
	})

	totalPages := doc.Metadata.PageCount
	if totalPages < 1 {
		totalPages = 1
	}

	return &models.ExtractionResult{
		DocumentID:  doc.ID,
		Extractions: items,
		TotalPages:  totalPages,
	}, nil
}

// DeleteDocument removes a document and its extraction set. Extractions
// go first; a missing extraction set is not an error.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.documentStorage.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.extractionStorage.DeleteExtractionSetByDocument(ctx, doc.ID); err != nil {
		return err
	}

	if err := s.documentStorage.DeleteDocument(ctx, doc.ID); err != nil {
		return err
	}

	s.logger.Info().Str("doc_id", doc.ID).Msg("Document deleted")
	return nil
}

// OpenDocumentFile resolves a document's stored file and opens it for
// streaming. The stored path is reduced to its base name before joining
// with the uploads directory, so a path component smuggled into the record
// can never escape it.
func (s *Service) OpenDocumentFile(ctx context.Context, id string) (io.ReadCloser, *models.DocumentMetadata, error) {
	doc, err := s.documentStorage.GetDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if doc.FilePath == "" {
		return nil, nil, common.ErrFilePathNotFound
	}

	absolutePath := filepath.Join(s.uploadsDir, filepath.Base(doc.FilePath))

	f, err := os.Open(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, common.ErrFileNotFoundOnDisk
		}
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}

	return f, doc.ToMetadata(), nil
}
