package documents

import "time"

// Dto is the wire shape of a document. ValidationErrors carries the
// row-level failures of a bulk import back to the uploader; it is empty for
// every other processing type.
type Dto struct {
	ID               string   `json:"id"`
	FileName         string   `json:"fileName"`
	ContentType      string   `json:"contentType"`
	FileSize         int64    `json:"fileSize"`
	IsProcessed      bool     `json:"isProcessed"`
	AnalysisResult   *string  `json:"analysisResult"`
	UserID           string   `json:"userId"`
	CreationDate     string   `json:"creationDate"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

func toDto(doc Document, validationErrors []string) Dto {
	return Dto{
		ID:               doc.ID,
		FileName:         doc.FileName,
		ContentType:      doc.ContentType,
		FileSize:         doc.FileSize,
		IsProcessed:      doc.IsProcessed,
		AnalysisResult:   doc.AnalysisResult,
		UserID:           doc.UserID,
		CreationDate:     doc.CreatedAt.UTC().Format(time.RFC3339),
		ValidationErrors: validationErrors,
	}
}
