package config

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
	ValidationErrorResponse(c *gin.Context, field, message string)
}

// Handler exposes the backup settings over HTTP. It is the headless
// counterpart of the desktop Settings dialog. All reads and writes go
// through the service, which serializes them against the scheduler.
type Handler struct {
	service         Service
	responseHandler ResponseHandler
}

// NewHandler creates a new settings handler
func NewHandler(service Service, responseHandler ResponseHandler) *Handler {
	return &Handler{
		service:         service,
		responseHandler: responseHandler,
	}
}

// RegisterRoutes registers the settings endpoints
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/settings/backup", h.handleGetBackupSettings)
	router.PUT("/settings/backup", h.handleUpdateBackupSettings)
}

func (h *Handler) handleGetBackupSettings(c *gin.Context) {
	backup := h.service.BackupSnapshot()
	settings := BackupSettings{
		Auto:            backup.Auto,
		IntervalMinutes: backup.IntervalMinutes,
		RetentionCount:  backup.RetentionCount,
		RetentionDays:   backup.RetentionDays,
	}
	h.responseHandler.SuccessResponse(c, settings, "Backup settings retrieved")
}

func (h *Handler) handleUpdateBackupSettings(c *gin.Context) {
	var settings BackupSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid settings payload", err)
		return
	}

	if settings.IntervalMinutes <= 0 {
		h.responseHandler.ValidationErrorResponse(c, "intervalMinutes", "must be a positive number of minutes")
		return
	}
	if settings.RetentionCount <= 0 {
		h.responseHandler.ValidationErrorResponse(c, "retentionCount", "must keep at least one backup")
		return
	}
	if settings.RetentionDays < 0 {
		h.responseHandler.ValidationErrorResponse(c, "retentionDays", "must not be negative")
		return
	}

	if err := h.service.UpdateBackupSettings(settings); err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "SETTINGS_SAVE_FAILED", "Failed to persist settings", err)
		return
	}

	h.responseHandler.SuccessResponse(c, settings, "Backup settings updated")
}
