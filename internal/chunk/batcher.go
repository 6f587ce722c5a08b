package chunk

import "github.com/savage13/fern/internal/domain"

// batcher accumulates lines for one data center until the budget is reached.
type batcher struct {
	urls     map[string]string
	maxBytes int64
	policy   Overflow

	open  *domain.DataCenterRequest
	total int64
	out   []*domain.DataCenterRequest
}

func newBatcher(urls map[string]string, maxBytes int64, policy Overflow) *batcher {
	b := &batcher{urls: urls, maxBytes: maxBytes, policy: policy}
	b.reset()
	return b
}

// add places a line whose size fits the budget into the open batch.
func (b *batcher) add(l domain.Line, size int64) {
	if b.policy == OverflowBefore && !b.open.Empty() && b.total+size > b.maxBytes {
		b.flush()
	}
	b.open.Add(l)
	b.total += size
	if b.policy == OverflowAfter && b.total > b.maxBytes {
		b.flush()
	}
}

// emit appends a finished request to the output without touching the open batch.
func (b *batcher) emit(r *domain.DataCenterRequest) {
	b.out = append(b.out, r)
}

// flush closes the open batch if it has lines.
func (b *batcher) flush() {
	if b.open.Empty() {
		return
	}
	b.out = append(b.out, b.open)
	b.reset()
}

func (b *batcher) reset() {
	b.open = domain.NewDataCenterRequest(b.urls)
	b.total = 0
}

// requests flushes any pending lines and returns every emitted request.
func (b *batcher) requests() []*domain.DataCenterRequest {
	b.flush()
	return b.out
}
