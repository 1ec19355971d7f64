package app

import (
	"bikebuilders/backup"
	"bikebuilders/database"
	"bikebuilders/services"
	"bikebuilders/sync"
	"bikebuilders/validator"
	"log/slog"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo        *database.Repository
	Vehicles    *services.VehicleService
	ServiceLogs *services.ServiceLogService
	Catalog     *services.CatalogService
	Profile     *services.ProfileService
	Sync        *sync.Orchestrator
	LocalBackup *backup.Service
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, orch *sync.Orchestrator, localBackup *backup.Service, logger *slog.Logger) *App {
	return &App{
		Repo:        repo,
		Vehicles:    services.NewVehicleService(repo, orch),
		ServiceLogs: services.NewServiceLogService(repo, orch),
		Catalog:     services.NewCatalogService(repo, orch),
		Profile:     services.NewProfileService(repo, orch),
		Sync:        orch,
		LocalBackup: localBackup,
		Validator:   validator.New(),
		Logger:      logger,
	}
}
