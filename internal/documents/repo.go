package documents

import "context"

type Repo interface {
	Create(ctx context.Context, doc Document) error
	// GetByID fetches a document regardless of owner; ownership checks
	// belong to the service layer.
	GetByID(ctx context.Context, documentID string) (Document, error)
	// ListByUser returns the owner's documents newest first.
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	Delete(ctx context.Context, documentID string) error
}
