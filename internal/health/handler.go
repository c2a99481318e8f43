package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonkeep/salonkeep/migrations"
	"gorm.io/gorm"
)

// Handler handles health check related endpoints
type Handler struct {
	db              *gorm.DB
	responseHandler ResponseHandler
}

// NewHandler creates a new health check handler
func NewHandler(db *gorm.DB, responseHandler ResponseHandler) *Handler {
	return &Handler{
		db:              db,
		responseHandler: responseHandler,
	}
}

// HandleHealthCheck reports whether the store is reachable and which schema
// version it is at
func (h *Handler) HandleHealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Store is not reachable", err)
		return
	}

	applied, err := migrations.AppliedVersions(h.db.WithContext(c.Request.Context()))
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Failed to read schema version", err)
		return
	}

	version := "none"
	if len(applied) > 0 {
		version = applied[len(applied)-1]
	}

	h.responseHandler.SuccessResponse(c, gin.H{
		"status":         "healthy",
		"schema_version": version,
	}, "Health check successful")
}
