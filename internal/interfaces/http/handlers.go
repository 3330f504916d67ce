package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/application/validation"
	"github.com/garyjia/invoice-wizard/internal/application/wizard"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/domain/workflow"
	"github.com/garyjia/invoice-wizard/internal/export"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   port.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger port.Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// DocumentResponse is the current snapshot with what a client needs to render it
type DocumentResponse struct {
	Snapshot  entity.Snapshot       `json:"snapshot"`
	Labels    entity.DocumentLabels `json:"labels"`
	Link      string                `json:"link"`
	Permitted []workflow.Trigger    `json:"permitted"`
}

// HealthCheck handles GET /health. It answers 503 until the process is ready.
func (h *Handlers) HealthCheck(c *gin.Context) {
	if h.services.Ready != nil && !h.services.Ready() {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Data: HealthResponse{
				Status:    "unavailable",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Version:   "1.0.0",
			},
			Error: "service not ready",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// GetDocument handles GET /api/document. Link parameters in the query are
// adopted first, the way an opened shared link would be.
func (h *Handlers) GetDocument(c *gin.Context) {
	query := c.Request.URL.Query()
	if sharelink.Recognizable(query) {
		if h.services.Reconciler.Reconcile(c.Request.Context(), query) {
			h.logger.Info("Adopted document from link")
		}
	}
	h.respondDocument(c, http.StatusOK)
}

// ValidateDocument handles GET /api/document/validation
func (h *Handlers) ValidateDocument(c *gin.Context) {
	errs := h.services.Validator.ValidateDocument(h.services.Store.Snapshot())
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"valid":  errs.Empty(),
			"fields": errs,
		},
	})
}

// ExportWorkbook handles GET /api/document/export.xlsx
func (h *Handlers) ExportWorkbook(c *gin.Context) {
	res, err := h.services.Exporter.Export(c.Request.Context(), h.services.Store.Snapshot())
	if err != nil {
		h.logger.Error("Failed to export workbook", "error", err)
		h.fail(c, http.StatusInternalServerError, "failed to export workbook")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, res.Content)
}

// ListExports handles GET /api/exports
func (h *Handlers) ListExports(c *gin.Context) {
	if h.services.Exports == nil {
		h.fail(c, http.StatusNotFound, "export log is not configured")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.services.Exports.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list exports", "error", err)
		h.fail(c, http.StatusInternalServerError, "failed to retrieve exports")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// NextStep handles POST /api/wizard/next
func (h *Handlers) NextStep(c *gin.Context) {
	res, err := h.services.Navigator.Next(c.Request.Context())
	h.respondNavigation(c, res, err)
}

// PreviousStep handles POST /api/wizard/back
func (h *Handlers) PreviousStep(c *gin.Context) {
	res, err := h.services.Navigator.Back(c.Request.Context())
	h.respondNavigation(c, res, err)
}

// StepRequest selects a wizard step
type StepRequest struct {
	Step *int `json:"step" binding:"required"`
}

// EditStep handles POST /api/wizard/edit
func (h *Handlers) EditStep(c *gin.Context) {
	var req StepRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.services.Navigator.Edit(c.Request.Context(), entity.Step(*req.Step))
	h.respondNavigation(c, res, err)
}

// HistoryBack handles POST /api/history/back
func (h *Handlers) HistoryBack(c *gin.Context) {
	h.travel(c, h.services.History.Back)
}

// HistoryForward handles POST /api/history/forward
func (h *Handlers) HistoryForward(c *gin.Context) {
	h.travel(c, h.services.History.Forward)
}

func (h *Handlers) travel(c *gin.Context, move func() (url.Values, bool)) {
	values, ok := move()
	if !ok {
		h.fail(c, http.StatusConflict, "no history entry in that direction")
		return
	}
	h.services.Reconciler.Reconcile(c.Request.Context(), values)
	h.respondDocument(c, http.StatusOK)
}

func (h *Handlers) respondNavigation(c *gin.Context, res wizard.Result, err error) {
	switch {
	case err == nil:
		h.respondDocument(c, http.StatusOK)
	case errors.Is(err, wizard.ErrStepInvalid):
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "current step has invalid fields",
			Fields:  res.Errors,
		})
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, store.ErrInvalidStep):
		h.fail(c, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Navigation failed", "error", err)
		h.fail(c, http.StatusInternalServerError, "navigation failed")
	}
}

func (h *Handlers) respondDocument(c *gin.Context, status int) {
	snap := h.services.Store.Snapshot()
	c.JSON(status, Response{
		Success: true,
		Data: DocumentResponse{
			Snapshot:  snap,
			Labels:    snap.DocumentType.Labels(),
			Link:      h.services.Codec.Encode(snap).Encode(),
			Permitted: h.services.Navigator.Permitted(),
		},
	})
}

// bind decodes the JSON body into req, answering 400 on failure
func (h *Handlers) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Error("Invalid request body", "path", c.FullPath(), "error", err)
		h.fail(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handlers) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{
		Success: false,
		Error:   msg,
	})
}
