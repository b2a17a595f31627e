package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	document   interfaces.DocumentStorage
	extraction interfaces.ExtractionStorage
	user       interfaces.UserStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		document:   NewDocumentStorage(db, logger),
		extraction: NewExtractionStorage(db, logger),
		user:       NewUserStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// ExtractionStorage returns the Extraction storage interface
func (m *Manager) ExtractionStorage() interfaces.ExtractionStorage {
	return m.extraction
}

// UserStorage returns the User storage interface
func (m *Manager) UserStorage() interfaces.UserStorage {
	return m.user
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
