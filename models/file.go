package models

import (
	"time"

	"github.com/google/uuid"
)

// LibraryFile records a document uploaded into a custom library
type LibraryFile struct {
	ID          uuid.UUID `json:"id"`
	Scope       string    `json:"scope"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	TextLength  int       `json:"text_length"`
	StoragePath string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
