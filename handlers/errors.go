package handlers

import (
	"errors"
	"net/http"

	"legalinsight-backend/autorag"
	"legalinsight-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details any) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// respondServiceError maps a service error onto the HTTP error envelope
func respondServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var ragErr *autorag.Error
	if errors.As(err, &ragErr) {
		status, code := retrievalStatus(ragErr.Kind)
		logger.Warn("hosted retrieval failed",
			zap.String("kind", string(ragErr.Kind)),
			zap.Error(err))
		details := gin.H{"kind": ragErr.Kind}
		if ragErr.StatusCode != 0 {
			details["status"] = ragErr.StatusCode
			details["statusText"] = ragErr.Status
		}
		if len(ragErr.Details) > 0 {
			details["messages"] = ragErr.Details
		}
		respondErrorDetails(c, status, code, ragErr.Message, details)
		return
	}

	var extractErr *service.ExtractionError
	if errors.As(err, &extractErr) {
		logger.Warn("structured extraction failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "EXTRACTION_FAILED",
			"Failed to extract legal insights from the retrieval response")
		return
	}

	switch {
	case errors.Is(err, service.ErrEmptyQuery):
		respondError(c, http.StatusBadRequest, "EMPTY_QUERY", "Query cannot be empty")
	case errors.Is(err, service.ErrEmptyDocument):
		respondError(c, http.StatusBadRequest, "EMPTY_DOCUMENT", "Document text cannot be empty")
	case errors.Is(err, service.ErrSuperseded):
		respondError(c, http.StatusConflict, "SUPERSEDED", "A newer query from this session replaced this one")
	case errors.Is(err, service.ErrSummarizationFailed):
		logger.Error("summarization failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "SUMMARIZATION_FAILED", "Failed to summarize document")
	case errors.Is(err, service.ErrAdviceFailed):
		logger.Error("client advice failed", zap.Error(err))
		respondError(c, http.StatusBadGateway, "ADVICE_FAILED", "Failed to generate client advice")
	case errors.Is(err, service.ErrUnsupportedFile):
		respondError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "An authenticated session is required")
	case errors.Is(err, service.ErrHistoryUnavailable):
		respondError(c, http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", "Query history is not configured")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrLibraryUnavailable):
		logger.Error("custom library unavailable", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "LIBRARY_FAILED", "Custom library is unavailable")
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

func retrievalStatus(kind autorag.ErrorKind) (int, string) {
	switch kind {
	case autorag.KindConfiguration:
		return http.StatusServiceUnavailable, "RETRIEVAL_CONFIGURATION"
	case autorag.KindNetwork:
		return http.StatusBadGateway, "RETRIEVAL_NETWORK"
	case autorag.KindHTTPStatus:
		return http.StatusBadGateway, "RETRIEVAL_HTTP_STATUS"
	case autorag.KindUnsuccessful:
		return http.StatusBadGateway, "RETRIEVAL_UNSUCCESSFUL"
	default:
		return http.StatusBadGateway, "RETRIEVAL_MALFORMED"
	}
}
