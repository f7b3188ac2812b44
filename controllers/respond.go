package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/normalize"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
	"github.com/kendall-kelly/garment-crm/tasks"
	"github.com/kendall-kelly/garment-crm/utils"
	"github.com/kendall-kelly/garment-crm/views"
)

// requestSink logs notifications at the configured LOG_LEVEL and keeps them for the response body
type requestSink struct {
	mu    sync.Mutex
	items []session.Notification
}

func (s *requestSink) Notify(level session.Level, message string) {
	session.LogSinkFor(config.GetConfig().LogLevel).Notify(level, message)
	s.mu.Lock()
	s.items = append(s.items, session.Notification{Level: level, Message: message})
	s.mu.Unlock()
}

func (s *requestSink) notifications() []gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]gin.H, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, gin.H{"level": n.Level, "message": n.Message})
	}
	return out
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data any, sink *requestSink) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	if sink != nil {
		body["notifications"] = sink.notifications()
	}
	c.JSON(status, body)
}

// respondServiceError maps domain and service errors onto the error envelope
func respondServiceError(c *gin.Context, err error) {
	var validation *session.ValidationError
	var upload *utils.FileUploadError

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Code, validation.Message)
	case errors.As(err, &upload):
		respondError(c, http.StatusBadRequest, upload.Code, upload.Message)
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, tasks.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	case errors.Is(err, session.ErrNoDocument):
		respondError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document not found")
	case errors.Is(err, tasks.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown task status")
	case errors.Is(err, tasks.ErrInvalidPriority):
		respondError(c, http.StatusBadRequest, "INVALID_PRIORITY", "Unknown task priority")
	case errors.Is(err, session.ErrUnknownStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown order status")
	case errors.Is(err, tasks.ErrInvalidMove), errors.Is(err, tasks.ErrUnknownDragMode):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, tasks.ErrNoSchedule):
		respondError(c, http.StatusUnprocessableEntity, "TASK_NOT_SCHEDULED", "Task has no planned dates")
	case errors.Is(err, views.ErrReadOnly):
		respondError(c, http.StatusForbidden, "READ_ONLY", "Schedule is read-only")
	case errors.Is(err, session.ErrNoStorage):
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Document storage is not configured")
	case errors.Is(err, services.ErrSummaryUnavailable):
		respondError(c, http.StatusServiceUnavailable, "SUMMARY_UNAVAILABLE", "AI summary is not available")
	default:
		log.Printf("[ORDERS] request failed: %v", err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to complete the request")
	}
}

// loadOrder fetches and normalizes the order named by the :id path parameter
func loadOrder(c *gin.Context) (models.Order, bool) {
	id := c.Param("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "INVALID_ORDER_ID", "Order ID is required")
		return models.Order{}, false
	}
	raw, err := services.GetOrderService().Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return models.Order{}, false
	}
	return normalize.Normalize(raw), true
}

// openSession loads the order and selects it in a fresh edit session
func openSession(c *gin.Context, sink *requestSink) (*session.OrderSession, bool) {
	o, ok := loadOrder(c)
	if !ok {
		return nil, false
	}
	s := session.NewOrderSession(newDeps(o.ClientID, sink))
	s.Select(o)
	return s, true
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_TASK_ID", "Invalid task ID format")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return false
	}
	return true
}

func selected(s *session.OrderSession) models.Order {
	o, _ := s.Selected()
	return o
}
