package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
}

// Handler exposes CSV export and import over HTTP
type Handler struct {
	service         Service
	responseHandler ResponseHandler
}

// NewHandler creates a new exchange handler
func NewHandler(service Service, responseHandler ResponseHandler) *Handler {
	return &Handler{service: service, responseHandler: responseHandler}
}

// RegisterRoutes registers the exchange endpoints
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/export/clients", h.handleExportClients)
	router.GET("/export/treatments", h.handleExportTreatments)
	router.POST("/import/clients", h.handleImportClients)
}

func (h *Handler) handleExportClients(c *gin.Context) {
	h.export(c, "clients", h.service.ExportClients)
}

func (h *Handler) handleExportTreatments(c *gin.Context) {
	h.export(c, "treatments", h.service.ExportTreatments)
}

// export streams CSV straight to the response; any failure after the first
// byte surfaces as a truncated download rather than a JSON error
func (h *Handler) export(c *gin.Context, name string, write func(context.Context, io.Writer) (int, error)) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := write(c.Request.Context(), c.Writer); err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export "+name, err)
	}
}

func (h *Handler) handleImportClients(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "Multipart field 'file' is required", err)
		return
	}
	defer file.Close()

	result, err := h.service.ImportClients(c.Request.Context(), file)
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusUnprocessableEntity, "IMPORT_FAILED", "Failed to import clients", err)
		return
	}

	h.responseHandler.SuccessResponse(c, result, fmt.Sprintf("Imported %d clients", result.Imported))
}
