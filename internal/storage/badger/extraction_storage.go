package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ExtractionStorage implements the ExtractionStorage interface for Badger.
// Sets are keyed by their own id and found through the indexed DocumentID
// back-reference.
type ExtractionStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewExtractionStorage creates a new ExtractionStorage instance
func NewExtractionStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ExtractionStorage {
	return &ExtractionStorage{
		db:     db,
		logger: logger,
	}
}

func (s *ExtractionStorage) SaveExtractionSet(ctx context.Context, set *models.ExtractionSet) error {
	if set.DocumentID == "" {
		return fmt.Errorf("extraction set requires a document id")
	}
	if set.ID == "" {
		set.ID = common.NewExtractionSetID()
	}

	now := time.Now()
	if set.CreatedAt.IsZero() {
		set.CreatedAt = now
	}
	set.UpdatedAt = now

	if err := s.db.Store().Upsert(set.ID, set); err != nil {
		return fmt.Errorf("failed to save extraction set: %w", err)
	}
	return nil
}

func (s *ExtractionStorage) GetExtractionSetByDocument(ctx context.Context, documentID string) (*models.ExtractionSet, error) {
	var sets []models.ExtractionSet
	err := s.db.Store().Find(&sets, badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID"))
	if err != nil {
		return nil, fmt.Errorf("failed to find extraction set: %w", err)
	}
	if len(sets) == 0 {
		return nil, common.ErrNoExtractionsFound
	}
	return &sets[0], nil
}

// DeleteExtractionSetByDocument removes the set referencing the document.
// Deleting when no set exists is not an error.
func (s *ExtractionStorage) DeleteExtractionSetByDocument(ctx context.Context, documentID string) error {
	err := s.db.Store().DeleteMatching(&models.ExtractionSet{}, badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID"))
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete extraction set: %w", err)
	}
	return nil
}
