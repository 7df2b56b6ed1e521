package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"legalinsight-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// multipart framing allowance on top of the file itself
const uploadOverheadBytes = 1 << 20

// LibraryHandler handles HTTP requests for the custom document library
type LibraryHandler struct {
	libraryService *service.LibraryService
	logger         *zap.Logger
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(libraryService *service.LibraryService, logger *zap.Logger) *LibraryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryHandler{
		libraryService: libraryService,
		logger:         logger,
	}
}

// AddDocumentRequest represents the request body for adding pasted text
type AddDocumentRequest struct {
	DocumentText string `json:"documentText"`
}

// AddDocument handles POST /api/library/documents
func (h *LibraryHandler) AddDocument(c *gin.Context) {
	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	size, err := h.libraryService.AddDocument(c.Request.Context(), sessionFrom(c), req.DocumentText)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"message":     "Document successfully added to your custom library.",
			"librarySize": size,
		},
	})
}

// ListDocuments handles GET /api/library/documents
func (h *LibraryHandler) ListDocuments(c *gin.Context) {
	docs, err := h.libraryService.ListDocuments(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"documents":   docs,
			"librarySize": len(docs),
		},
	})
}

// ClearDocuments handles DELETE /api/library/documents
func (h *LibraryHandler) ClearDocuments(c *gin.Context) {
	if err := h.libraryService.Clear(c.Request.Context(), sessionFrom(c)); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"librarySize": 0,
		},
	})
}

// UploadFile handles POST /api/library/upload
func (h *LibraryHandler) UploadFile(c *gin.Context) {
	maxSize := h.libraryService.MaxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+uploadOverheadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("File size exceeds maximum of %d bytes", maxSize))
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	if fileHeader.Size > maxSize {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds maximum of %d bytes", maxSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	res, err := h.libraryService.Upload(c.Request.Context(), service.UploadRequest{
		Session:  sessionFrom(c),
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  file,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"file":        res.File,
			"librarySize": res.LibrarySize,
		},
	})
}

// ListFiles handles GET /api/library/files
func (h *LibraryHandler) ListFiles(c *gin.Context) {
	files, err := h.libraryService.ListFiles(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"files": files,
		},
	})
}

// GetFile handles GET /api/library/files/:id
func (h *LibraryHandler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid file ID format")
		return
	}

	file, reader, err := h.libraryService.OpenFile(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, nil)
}
