package handlers

import (
	"net/http"

	"legalinsight-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler handles summarization and client advice requests
type AssistantHandler struct {
	assistantService *service.AssistantService
	logger           *zap.Logger
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *service.AssistantService, logger *zap.Logger) *AssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantHandler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// SummarizeRequest represents the request body for summarizing a document
type SummarizeRequest struct {
	DocumentText string `json:"documentText"`
}

// AdviceRequest represents the request body for client advice
type AdviceRequest struct {
	LegalQuestion string `json:"legalQuestion"`
}

// Summarize handles POST /api/documents/summarize
func (h *AssistantHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	summary, err := h.assistantService.Summarize(c.Request.Context(), req.DocumentText)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

// Advise handles POST /api/advice
func (h *AssistantHandler) Advise(c *gin.Context) {
	var req AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	advice, err := h.assistantService.Advise(c.Request.Context(), req.LegalQuestion)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    advice,
	})
}
