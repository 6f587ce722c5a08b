package ports

import (
	"context"

	"github.com/savage13/fern/internal/domain"
)

// Journal records download attempts.
type Journal interface {
	Record(ctx context.Context, a domain.Attempt) error
}
