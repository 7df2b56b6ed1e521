package service

import (
	"errors"

	"legalinsight-backend/repository"
)

var (
	ErrEmptyQuery          = errors.New("query is empty")
	ErrEmptyDocument       = repository.ErrEmptyDocument
	ErrSuperseded          = errors.New("result superseded by a newer query")
	ErrLibraryUnavailable  = errors.New("custom library is unavailable")
	ErrUnsupportedFile     = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds the upload limit")
	ErrUnauthenticated     = errors.New("an authenticated session is required")
	ErrHistoryUnavailable  = errors.New("query history is not configured")
	ErrNotFound            = repository.ErrNotFound
	ErrSummarizationFailed = errors.New("failed to summarize document")
	ErrAdviceFailed        = errors.New("failed to generate client advice")
)

// ExtractionError reports that raw retrieval text could not be turned into
// structured legal information. There is no partial result.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "failed to extract structured legal information: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
