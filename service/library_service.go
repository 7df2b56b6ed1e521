package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"legalinsight-backend/metrics"
	"legalinsight-backend/models"
	"legalinsight-backend/parser"
	"legalinsight-backend/repository"
	"legalinsight-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore records uploaded library files
type FileStore interface {
	Create(ctx context.Context, file *models.LibraryFile) error
	GetByID(ctx context.Context, scope string, id uuid.UUID) (*models.LibraryFile, error)
	ListByScope(ctx context.Context, scope string) ([]*models.LibraryFile, error)
	DeleteByScope(ctx context.Context, scope string) ([]string, error)
}

const defaultMaxUploadBytes = 10 << 20

// LibraryService manages the custom library of each session
type LibraryService struct {
	store          repository.DocumentStore
	files          FileStore
	storage        storage.Storage
	maxUploadBytes int64
	logger         *zap.Logger
}

// LibraryServiceOption is a functional option for LibraryService
type LibraryServiceOption func(*LibraryService)

// LibraryWithFileStore sets the file record store
func LibraryWithFileStore(files FileStore) LibraryServiceOption {
	return func(s *LibraryService) {
		s.files = files
	}
}

// LibraryWithStorage sets where raw uploads are kept
func LibraryWithStorage(st storage.Storage) LibraryServiceOption {
	return func(s *LibraryService) {
		s.storage = st
	}
}

// LibraryWithMaxUploadBytes sets the upload size limit
func LibraryWithMaxUploadBytes(n int64) LibraryServiceOption {
	return func(s *LibraryService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// LibraryWithLogger sets the logger
func LibraryWithLogger(logger *zap.Logger) LibraryServiceOption {
	return func(s *LibraryService) {
		s.logger = logger
	}
}

// NewLibraryService creates a new library service
func NewLibraryService(store repository.DocumentStore, opts ...LibraryServiceOption) *LibraryService {
	s := &LibraryService{
		store:          store,
		maxUploadBytes: defaultMaxUploadBytes,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxUploadBytes returns the configured upload limit
func (s *LibraryService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// AddDocument appends pasted text to the session's library and returns the new size
func (s *LibraryService) AddDocument(ctx context.Context, session models.Session, text string) (int, error) {
	size, err := s.store.Append(ctx, session.Scope(), text)
	if err != nil {
		if errors.Is(err, ErrEmptyDocument) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	metrics.LibraryAppends.WithLabelValues("text").Inc()
	return size, nil
}

// ListDocuments returns a snapshot of the session's library
func (s *LibraryService) ListDocuments(ctx context.Context, session models.Session) ([]string, error) {
	docs, err := s.store.ReadAll(ctx, session.Scope())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	return docs, nil
}

// Clear empties the session's library along with its uploaded files
func (s *LibraryService) Clear(ctx context.Context, session models.Session) error {
	scope := session.Scope()
	if err := s.store.Clear(ctx, scope); err != nil {
		return fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}

	if s.files == nil {
		return nil
	}
	paths, err := s.files.DeleteByScope(ctx, scope)
	if err != nil {
		s.logger.Warn("failed to delete library file records", zap.String("scope", scope), zap.Error(err))
		return nil
	}
	if s.storage == nil {
		return nil
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.Warn("failed to delete stored file", zap.String("path", p), zap.Error(err))
		}
	}
	return nil
}

// UploadRequest represents a file uploaded into a library
type UploadRequest struct {
	Session  models.Session
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadResult represents the result of an upload
type UploadResult struct {
	File        *models.LibraryFile
	LibrarySize int
}

// Upload extracts the text of a document, keeps the raw file and appends the
// text to the session's library.
func (s *LibraryService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if !parser.IsSupportedExtension(req.Filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, req.Filename)
	}
	if req.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(req.Content, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	text, err := parser.ExtractText(bytes.NewReader(data), req.Filename)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrNoText):
			return nil, ErrEmptyDocument
		case errors.Is(err, parser.ErrUnsupportedFormat):
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, req.Filename)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	}

	scope := req.Session.Scope()
	file := &models.LibraryFile{
		ID:         uuid.New(),
		Scope:      scope,
		Filename:   req.Filename,
		MimeType:   storage.ContentType(req.Filename),
		Size:       int64(len(data)),
		TextLength: len(text),
		CreatedAt:  time.Now().UTC(),
	}

	if s.storage != nil {
		path, err := s.storage.Upload(ctx, scope, file.ID, req.Filename, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
		}
		file.StoragePath = path
	}

	size, err := s.store.Append(ctx, scope, text)
	if err != nil {
		s.removeStored(ctx, file.StoragePath)
		return nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	metrics.LibraryAppends.WithLabelValues("upload").Inc()

	if s.files != nil {
		if err := s.files.Create(ctx, file); err != nil {
			s.logger.Warn("failed to record library file",
				zap.String("scope", scope),
				zap.String("filename", req.Filename),
				zap.Error(err))
		}
	}

	s.logger.Info("library document uploaded",
		zap.String("scope", scope),
		zap.String("filename", req.Filename),
		zap.Int64("size", file.Size),
		zap.Int("library_size", size))

	return &UploadResult{File: file, LibrarySize: size}, nil
}

// ListFiles returns the uploaded files of the session's library. Without a
// file store there is nothing recorded and the list is empty.
func (s *LibraryService) ListFiles(ctx context.Context, session models.Session) ([]*models.LibraryFile, error) {
	if s.files == nil {
		return []*models.LibraryFile{}, nil
	}
	files, err := s.files.ListByScope(ctx, session.Scope())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	return files, nil
}

// OpenFile returns an uploaded file of the session's library with a reader
// over its raw bytes. The caller closes the reader.
func (s *LibraryService) OpenFile(ctx context.Context, session models.Session, id uuid.UUID) (*models.LibraryFile, io.ReadCloser, error) {
	if s.files == nil || s.storage == nil {
		return nil, nil, ErrNotFound
	}
	file, err := s.files.GetByID(ctx, session.Scope(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	if file.StoragePath == "" {
		return nil, nil, ErrNotFound
	}

	rc, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrLibraryUnavailable, err)
	}
	return file, rc, nil
}

func (s *LibraryService) removeStored(ctx context.Context, path string) {
	if s.storage == nil || path == "" {
		return
	}
	if err := s.storage.Delete(ctx, path); err != nil {
		s.logger.Warn("failed to clean up stored file", zap.String("path", path), zap.Error(err))
	}
}
