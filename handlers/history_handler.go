package handlers

import (
	"net/http"
	"strconv"

	"legalinsight-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryHandler handles HTTP requests for saved queries
type HistoryHandler struct {
	historyService *service.HistoryService
	logger         *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// ListHistory handles GET /api/history
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.historyService.List(c.Request.Context(), sessionFrom(c), limit)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items": items,
		},
	})
}

// DeleteHistory handles DELETE /api/history/:id
func (h *HistoryHandler) DeleteHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid history item id format")
		return
	}

	if err := h.historyService.Delete(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id": id,
		},
	})
}
