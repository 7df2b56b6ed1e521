package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrInvalidPath  = errors.New("invalid storage path")
)

// Storage keeps the raw bytes of uploaded library documents
type Storage interface {
	// Upload stores a file under the library scope and returns the storage path
	Upload(ctx context.Context, scope string, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a file by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a file by storage path. Missing files are not an error.
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 bucket is required for s3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

var pathReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "..", "_")

// generateStoragePath builds "<scope>/<id prefix>/<id>_<name><ext>"
func generateStoragePath(scope string, fileID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := pathReplacer.Replace(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	id := fileID.String()
	return fmt.Sprintf("%s/%s/%s_%s%s", pathReplacer.Replace(scope), id[:2], id, baseName, ext)
}

// ContentType determines content type from filename
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".md", ".markdown":
		return "text/markdown"
	case ".html", ".htm":
		return "text/html"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
