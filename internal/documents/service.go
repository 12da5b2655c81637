package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/analysis"
	"docvault-backend/internal/buffer"
	"docvault-backend/internal/importer"
	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
	"docvault-backend/internal/users"
)

// Processing types accepted on upload. Anything else stores the file
// without processing it.
const (
	ProcessBulkImport = "BulkImport"
	ProcessAnalyze    = "Analyze"
)

// EventSink appends one audit event per ingestion.
type EventSink interface {
	LogEvent(ctx context.Context, eventType, description string, userID *string) error
}

// Service coordinates one ingestion: buffer the stream, run the requested
// processing over the buffered copy, persist the bytes, then record the
// fully-formed document. The record is written once, never patched.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	Importer *importer.Service
	Analyzer *analysis.Analyzer
	Events   EventSink
}

// UploadInput is one upload request.
type UploadInput struct {
	Name        string
	ContentType string
	Body        io.Reader
	UserID      string
	Role        users.Role
	ProcessType string
}

// Upload ingests one file. Row-level failures of a bulk import come back in
// the second return value; the error return is reserved for fatal failures
// (storage, persistence, batch commit, permission).
func (s *Service) Upload(ctx context.Context, in UploadInput) (Document, []string, error) {
	if in.Name == "" || in.Body == nil {
		return Document{}, nil, ErrInvalidInput
	}

	payload, err := buffer.ReadAll(in.Body, in.Name, in.ContentType)
	if err != nil {
		return Document{}, nil, err
	}

	var (
		processed        bool
		analysisResult   *string
		validationErrors []string
	)

	switch {
	case in.ProcessType == ProcessBulkImport && in.ContentType == "text/csv":
		if in.Role != users.RoleAdmin {
			return Document{}, nil, fmt.Errorf("bulk import: %w", ErrPermissionDenied)
		}
		outcome, err := s.Importer.ProcessUserBulk(ctx, payload.Bytes())
		if err != nil {
			return Document{}, nil, fmt.Errorf("bulk import: %w", err)
		}
		summary := fmt.Sprintf("Processed: %d success, %d failed.", outcome.SuccessCount, outcome.FailureCount)
		analysisResult = &summary
		validationErrors = outcome.Errors
		processed = true

	case in.ProcessType == ProcessAnalyze:
		result := s.Analyzer.Analyze(ctx, payload.Bytes(), in.Name)
		raw, err := json.Marshal(result)
		if err != nil {
			return Document{}, nil, fmt.Errorf("serialize analysis result: %w", err)
		}
		serialized := string(raw)
		analysisResult = &serialized
		processed = true
	}

	storageKey, size, err := s.Store.Save(ctx, in.Name, in.ContentType, payload.Reader())
	if err != nil {
		return Document{}, nil, fmt.Errorf("store %s: %w", in.Name, err)
	}
	if size != payload.Size() {
		telemetry.Warn("documents.size_mismatch", map[string]any{
			"file_name": in.Name,
			"buffered":  payload.Size(),
			"stored":    size,
		})
	}

	now := time.Now().UTC()
	doc := Document{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		FileName:       in.Name,
		ContentType:    in.ContentType,
		FileSize:       payload.Size(),
		StorageKey:     storageKey,
		IsProcessed:    processed,
		AnalysisResult: analysisResult,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, nil, fmt.Errorf("record %s: %w", in.Name, err)
	}
	metrics.IncDocumentIngested()

	if s.Events != nil {
		uid := in.UserID
		// Audit append is best-effort for the uploader; failures are already
		// logged by the sink.
		_ = s.Events.LogEvent(ctx, "Document Upload", fmt.Sprintf("Document '%s' uploaded.", in.Name), &uid)
	}

	return doc, validationErrors, nil
}

// ListByUser returns the caller's documents newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Download opens the stored bytes of one document. Only the owner may
// download; there is no admin override.
func (s *Service) Download(ctx context.Context, documentID, callerID string) (Document, io.ReadCloser, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	if doc.UserID != callerID {
		return Document{}, nil, ErrPermissionDenied
	}

	body, _, err := s.Store.Open(ctx, doc.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open %s: %w", doc.StorageKey, err)
	}
	return doc, body, nil
}

// Delete removes a document's bytes and record. Only the owner may delete.
func (s *Service) Delete(ctx context.Context, documentID, callerID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UserID != callerID {
		return ErrPermissionDenied
	}

	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil && !errors.Is(err, object.ErrNotFound) {
		return fmt.Errorf("delete blob %s: %w", doc.StorageKey, err)
	}
	return s.Repo.Delete(ctx, documentID)
}
