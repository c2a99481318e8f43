package main

import (
	"github.com/gin-gonic/gin"

	"github.com/salonkeep/salonkeep/internal/audit"
	"github.com/salonkeep/salonkeep/internal/backup"
	"github.com/salonkeep/salonkeep/internal/config"
	"github.com/salonkeep/salonkeep/internal/exchange"
	"github.com/salonkeep/salonkeep/internal/health"
	apphttp "github.com/salonkeep/salonkeep/internal/http"
	"github.com/salonkeep/salonkeep/internal/http/middleware"
	"github.com/salonkeep/salonkeep/migrations"
)

// setupRoutes wires all HTTP handlers onto the router
func (a *App) setupRoutes() {
	responseHandler := apphttp.NewResponseHandler(a.logger)

	a.router.Use(middleware.RequestLoggerMiddleware(a.logger))
	a.router.Use(apphttp.RecoveryMiddleware(responseHandler, a.logger))
	a.router.Use(apphttp.CORSMiddleware())

	// Health check
	healthHandler := health.NewHandler(a.db, responseHandler)
	a.router.GET("/health", healthHandler.HandleHealthCheck)

	api := a.router.Group("/api/v1")

	// Backup manager surface
	backupHandler := backup.NewHandler(a.BackupService, a.configService, responseHandler)
	backupHandler.RegisterRoutes(api)

	// Settings surface
	settingsHandler := config.NewHandler(a.configService, responseHandler)
	settingsHandler.RegisterRoutes(api)

	// Audit trail
	auditHandler := audit.NewHandler(a.AuditService, responseHandler)
	auditHandler.RegisterRoutes(api)

	// CSV exchange
	exchangeHandler := exchange.NewHandler(a.Exchange, responseHandler)
	exchangeHandler.RegisterRoutes(api)

	// Schema status: applied versions plus what the shipped registry knows
	api.GET("/migrations", func(c *gin.Context) {
		applied, err := migrations.AppliedVersions(a.db.WithContext(c.Request.Context()))
		if err != nil {
			responseHandler.InternalErrorResponse(c, "Failed to read schema state", err)
			return
		}

		registry := make([]gin.H, 0, len(migrations.All()))
		appliedSet := make(map[string]bool, len(applied))
		for _, version := range applied {
			appliedSet[version] = true
		}
		for _, unit := range migrations.All() {
			registry = append(registry, gin.H{
				"version":     unit.Version,
				"description": unit.Description,
				"applied":     appliedSet[unit.Version],
			})
		}

		responseHandler.SuccessResponse(c, gin.H{
			"applied":  applied,
			"registry": registry,
		}, "Schema state retrieved")
	})
}
