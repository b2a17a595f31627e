package cleanup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/interfaces"
)

// Service removes document records whose files no longer exist on disk.
// It is best-effort: failures are logged and never surfaced, because the
// job has no caller awaiting a result.
type Service struct {
	documentStorage   interfaces.DocumentStorage
	extractionStorage interfaces.ExtractionStorage
	uploadsDir        string
	cron              *cron.Cron
	logger            arbor.ILogger
}

// NewService creates a new reconciliation service
func NewService(
	documentStorage interfaces.DocumentStorage,
	extractionStorage interfaces.ExtractionStorage,
	uploadsDir string,
	logger arbor.ILogger,
) *Service {
	return &Service{
		documentStorage:   documentStorage,
		extractionStorage: extractionStorage,
		uploadsDir:        uploadsDir,
		logger:            logger,
	}
}

// CleanupOrphanedDocuments sweeps all document records against on-disk
// file presence and removes those whose file is missing, extraction set
// included. Returns the number of document records removed; any internal
// failure is swallowed and reported as 0.
func (s *Service) CleanupOrphanedDocuments(ctx context.Context) int {
	docs, err := s.documentStorage.GetAllDocuments(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Document cleanup failed to load records")
		return 0
	}

	removed := 0
	for _, doc := range docs {
		path := filepath.Join(s.uploadsDir, filepath.Base(doc.FilePath))
		if doc.FilePath != "" && fileExists(path) {
			continue
		}

		s.logger.Info().
			Str("doc_id", doc.ID).
			Str("file_name", doc.FileName).
			Msg("File not found for document, removing record")

		if err := s.extractionStorage.DeleteExtractionSetByDocument(ctx, doc.ID); err != nil {
			s.logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Failed to delete extraction set for orphaned document")
		}

		if err := s.documentStorage.DeleteDocument(ctx, doc.ID); err != nil {
			s.logger.Error().Err(err).Str("doc_id", doc.ID).Msg("Failed to delete orphaned document")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("Removed orphaned documents")
	} else {
		s.logger.Debug().Msg("No orphaned documents found")
	}

	return removed
}

// StartSchedule begins recurring cleanup runs on the given cron schedule.
// An empty schedule disables recurring runs.
func (s *Service) StartSchedule(schedule string) error {
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		s.CleanupOrphanedDocuments(context.Background())
	})
	if err != nil {
		return err
	}

	c.Start()
	s.cron = c
	s.logger.Info().Str("schedule", schedule).Msg("Recurring document cleanup scheduled")
	return nil
}

// Stop halts any recurring cleanup schedule
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
