package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonkeep/salonkeep/internal/audit"
	"github.com/salonkeep/salonkeep/internal/backup"
	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/database"
	"github.com/salonkeep/salonkeep/internal/exchange"
	"github.com/salonkeep/salonkeep/internal/logger"
	"github.com/salonkeep/salonkeep/internal/records"
	"github.com/salonkeep/salonkeep/migrations"
)

// App holds all application dependencies
type App struct {
	ctx           context.Context
	Config        *config.Config
	configService *config.ConfigService
	logger        logger.Logger
	dbService     *database.DatabaseService
	db            *gorm.DB
	lock          *database.StoreLock
	router        *gin.Engine
	BackupService *backup.Service
	scheduler     *backup.Scheduler
	schedulerStop context.CancelFunc
	Records       records.Repository
	AuditService  audit.Service
	Exchange      exchange.Service
}

// NewApp creates a new application instance with all dependencies. Pending
// schema migrations run before any route is served; the store is never
// exposed at the wrong version.
func NewApp(ctx context.Context, cfg *config.Config, configService *config.ConfigService, log logger.Logger, confirm migrations.ConfirmFunc) (*App, error) {
	dbService := database.NewDatabaseService(&cfg.Database, log)
	db, err := dbService.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %v", err)
	}

	lock := &database.StoreLock{}

	var offsite backup.Uploader
	if cfg.Backup.Offsite.Enabled {
		offsite, err = backup.NewS3Uploader(&cfg.Backup.Offsite, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize offsite replication: %v", err)
		}
	}

	backupService := backup.NewService(cfg.Database.Path, cfg.Backup.Dir, lock, log, backup.SystemClock{}, offsite)

	runner := migrations.NewRunner(db, lock, log, migrations.All(), func() error {
		_, err := backupService.CreatePreMigration()
		return err
	}, confirm)

	result, err := runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate store: %v", err)
	}
	if result.Skipped {
		return nil, fmt.Errorf("store schema is behind and migration was declined")
	}

	scheduler := backup.NewScheduler(backupService, configService, lock, log, backup.SystemClock{}, backup.DefaultTick)

	repo := records.NewRepository(db)
	auditService := audit.NewService(audit.NewRepository(db), log)
	exchangeService := exchange.NewService(repo, auditService, log)

	app := &App{
		ctx:           ctx,
		Config:        cfg,
		configService: configService,
		logger:        log,
		dbService:     dbService,
		db:            db,
		lock:          lock,
		router:        gin.New(),
		BackupService: backupService,
		scheduler:     scheduler,
		Records:       repo,
		AuditService:  auditService,
		Exchange:      exchangeService,
	}

	app.setupRoutes()
	return app, nil
}

// Run starts the scheduler and the HTTP server
func (a *App) Run() error {
	schedulerCtx, stop := context.WithCancel(a.ctx)
	a.schedulerStop = stop
	a.scheduler.Start(schedulerCtx)

	port := a.Config.Server.Port
	a.logger.LogInfo("Starting server", map[string]interface{}{"port": port})
	if err := a.router.Run(fmt.Sprintf(":%d", port)); err != nil {
		return a.logger.LogError(err, "server failed to start")
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.logger.LogInfo("Initiating graceful shutdown", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.schedulerStop != nil {
		a.schedulerStop()
	}

	// Close database connections
	if err := a.dbService.Close(); err != nil {
		a.logger.LogWarn("Error closing database connections", map[string]interface{}{
			"error": err.Error(),
		})
	}

	select {
	case <-ctx.Done():
		if err := ctx.Err(); err != context.Canceled {
			a.logger.LogWarn("Shutdown timed out", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	default:
	}

	a.logger.LogInfo("Application shutdown complete", nil)
	return nil
}
