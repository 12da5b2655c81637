package documents

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)

// Document is one ingested file: the stored bytes' metadata plus whatever
// processing produced. AnalysisResult holds the serialized analyzer output
// for analyzed files, or the import summary line for bulk imports.
type Document struct {
	ID             string
	UserID         string
	FileName       string
	ContentType    string
	FileSize       int64
	StorageKey     string
	IsProcessed    bool
	AnalysisResult *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
