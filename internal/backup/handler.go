package backup

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/salonkeep/salonkeep/internal/errors"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
	NotFoundResponse(c *gin.Context, message string)
}

// Handler exposes the backup manager over HTTP, the surface the Settings
// screen of the frontend calls
type Handler struct {
	service         *Service
	settings        SettingsReader
	responseHandler ResponseHandler
}

// NewHandler creates a new backup handler
func NewHandler(service *Service, settings SettingsReader, responseHandler ResponseHandler) *Handler {
	return &Handler{
		service:         service,
		settings:        settings,
		responseHandler: responseHandler,
	}
}

// RegisterRoutes registers the backup endpoints
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/backups", h.handleList)
	router.POST("/backups", h.handleCreate)
	router.POST("/backups/restore", h.handleRestore)
	router.POST("/backups/prune", h.handlePrune)
}

func (h *Handler) handleList(c *gin.Context) {
	snapshots, err := h.service.List()
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "BACKUP_LIST_FAILED", "Failed to list backups", err)
		return
	}
	h.responseHandler.SuccessResponse(c, snapshots, "Backups retrieved")
}

func (h *Handler) handleCreate(c *gin.Context) {
	snapshot, err := h.service.Create(ReasonManual)
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "BACKUP_CREATE_FAILED", "Failed to create backup", err)
		return
	}
	h.responseHandler.SuccessResponse(c, snapshot, "Backup created")
}

type restoreRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) handleRestore(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Snapshot name is required", err)
		return
	}

	snapshot, err := h.service.SnapshotByName(req.Name)
	if err != nil {
		h.responseHandler.NotFoundResponse(c, "Snapshot not found")
		return
	}

	if err := h.service.Restore(snapshot); err != nil {
		var corrupt *apperrors.CorruptBackupError
		if errors.As(err, &corrupt) {
			h.responseHandler.ErrorResponse(c, http.StatusUnprocessableEntity, "CORRUPT_BACKUP", "Snapshot failed verification, live store untouched", err)
			return
		}
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "RESTORE_FAILED", "Failed to restore backup", err)
		return
	}

	h.responseHandler.SuccessResponse(c, snapshot, "Store restored; restart the application to reopen the database")
}

func (h *Handler) handlePrune(c *gin.Context) {
	cfg := h.settings.BackupSnapshot()
	deleted, err := h.service.ApplyRetention(PolicyFromConfig(&cfg))
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "PRUNE_FAILED", "Failed to apply retention", err)
		return
	}
	h.responseHandler.SuccessResponse(c, deleted, "Retention applied")
}
