// Package waveform provides codecs that turn downloaded payloads into an
// aggregate. Decoding miniseed records is left to external tools; RawCodec
// keeps payloads as received.
package waveform

import (
	"errors"

	"github.com/savage13/fern/internal/domain"
)

// ErrNilAggregate is returned when Decode has nowhere to put data.
var ErrNilAggregate = errors.New("waveform: nil aggregate")

// RawCodec implements ports.WaveformCodec by appending payloads unchanged.
type RawCodec struct{}

// Decode appends payload to dst. Empty payloads are ignored.
func (RawCodec) Decode(dataCenter string, payload []byte, dst *domain.Aggregate) error {
	if dst == nil {
		return ErrNilAggregate
	}
	if len(payload) == 0 {
		return nil
	}
	dst.Add(dataCenter, payload)
	return nil
}
