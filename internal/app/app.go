package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/handlers"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/services/auth"
	"github.com/ternarybob/satchel/internal/services/cleanup"
	"github.com/ternarybob/satchel/internal/services/documents"
	"github.com/ternarybob/satchel/internal/services/extractions"
	"github.com/ternarybob/satchel/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	AuthService     interfaces.AuthService
	DocumentService interfaces.DocumentService
	CleanupService  *cleanup.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	AuthHandler     *handlers.AuthHandler
	DocumentHandler *handlers.DocumentHandler
	AuthMiddleware  *handlers.AuthMiddleware
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	// Seed the admin account before the server accepts logins
	if err := app.AuthService.EnsureAdmin(
		context.Background(),
		cfg.Auth.AdminEmail,
		cfg.Auth.AdminPassword,
		cfg.Auth.AdminName,
	); err != nil {
		return nil, fmt.Errorf("failed to ensure admin user: %w", err)
	}

	if cfg.Cleanup.RunOnStartup {
		removed := app.CleanupService.CleanupOrphanedDocuments(context.Background())
		logger.Info().Int("removed", removed).Msg("Startup document cleanup complete")
	}

	if err := app.CleanupService.StartSchedule(cfg.Cleanup.Schedule); err != nil {
		return nil, fmt.Errorf("failed to start cleanup schedule: %w", err)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger) and the uploads directory
func (a *App) initStorage() error {
	if err := os.MkdirAll(a.Config.Storage.Uploads, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}

	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}
	a.StorageManager = storageManager

	return nil
}

// initServices wires the service layer
func (a *App) initServices() error {
	a.AuthService = auth.NewService(
		a.StorageManager.UserStorage(),
		&a.Config.Auth,
		a.Logger,
	)

	a.DocumentService = documents.NewService(
		a.StorageManager.DocumentStorage(),
		a.StorageManager.ExtractionStorage(),
		extractions.NewGenerator(),
		a.Config.Storage.Uploads,
		a.Logger,
	)

	a.CleanupService = cleanup.NewService(
		a.StorageManager.DocumentStorage(),
		a.StorageManager.ExtractionStorage(),
		a.Config.Storage.Uploads,
		a.Logger,
	)

	return nil
}

// initHandlers wires the HTTP layer
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.AuthHandler = handlers.NewAuthHandler(a.AuthService, a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, a.Config.Storage.Uploads, a.Logger)
	a.AuthMiddleware = handlers.NewAuthMiddleware(a.AuthService, a.Logger)
}

// Close releases application resources
func (a *App) Close() error {
	a.CleanupService.Stop()

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
