package ports

import (
	"context"

	"github.com/savage13/fern/internal/domain"
)

// Checkpointer persists the request document for resumption.
type Checkpointer interface {
	// Load returns the saved document, or nil and no error if none exists.
	Load(ctx context.Context) (*domain.Document, error)

	// Save overwrites the checkpoint with doc. Implementations must write
	// atomically so an interrupted save never leaves a partial file.
	Save(ctx context.Context, doc *domain.Document) error
}
