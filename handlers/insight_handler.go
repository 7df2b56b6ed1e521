package handlers

import (
	"net/http"
	"strings"

	"legalinsight-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InsightHandler handles HTTP requests for legal insights
type InsightHandler struct {
	insightService *service.InsightService
	logger         *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *service.InsightService, logger *zap.Logger) *InsightHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// GetInsightsRequest represents the request body for getting insights
type GetInsightsRequest struct {
	Query            string `json:"query"`
	UseCustomLibrary bool   `json:"useCustomLibrary"`
	Jurisdiction     string `json:"jurisdiction"`
}

// GetInsights handles POST /api/insights
func (h *InsightHandler) GetInsights(c *gin.Context) {
	var req GetInsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondError(c, http.StatusBadRequest, "EMPTY_QUERY", "Query cannot be empty")
		return
	}

	insights, err := h.insightService.GetInsights(c.Request.Context(), service.InsightRequest{
		Query:            req.Query,
		UseCustomLibrary: req.UseCustomLibrary,
		Jurisdiction:     req.Jurisdiction,
		Session:          sessionFrom(c),
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    insights,
	})
}
