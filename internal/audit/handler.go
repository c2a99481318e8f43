package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
}

// Handler exposes the audit trail over HTTP, the surface the history view
// of the frontend reads
type Handler struct {
	service         Service
	responseHandler ResponseHandler
}

// NewHandler creates a new audit handler
func NewHandler(service Service, responseHandler ResponseHandler) *Handler {
	return &Handler{service: service, responseHandler: responseHandler}
}

// RegisterRoutes registers the audit endpoints
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/audit", h.handleList)
}

type listEntry struct {
	Entry
	Summary string `json:"summary"`
}

func (h *Handler) handleList(c *gin.Context) {
	options := FilterOptions{
		TableName: c.Query("table"),
	}
	if v := c.Query("record_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responseHandler.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "record_id must be an integer", err)
			return
		}
		options.RecordID = id
	}
	if v := c.Query("client_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.responseHandler.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id must be an integer", err)
			return
		}
		options.ClientID = &id
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			options.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			options.Offset = offset
		}
	}

	entries, err := h.service.List(c.Request.Context(), options)
	if err != nil {
		h.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "AUDIT_LIST_FAILED", "Failed to list audit entries", err)
		return
	}

	out := make([]listEntry, len(entries))
	for i, entry := range entries {
		out[i] = listEntry{Entry: entry, Summary: Describe(entry)}
	}
	h.responseHandler.SuccessResponse(c, out, "Audit entries retrieved")
}
