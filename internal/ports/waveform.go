package ports

import (
	"context"

	"github.com/savage13/fern/internal/domain"
)

// WaveformCodec decodes a downloaded payload into an aggregate.
type WaveformCodec interface {
	Decode(dataCenter string, payload []byte, dst *domain.Aggregate) error
}

// PayloadStore saves raw payloads under a name, returning the key used.
// The key may differ from name when name is already taken.
type PayloadStore interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}
