package domain

// Segment is one waveform payload returned by a data center.
type Segment struct {
	DataCenter string
	Payload    []byte
}

// Aggregate collects waveform payloads across data center requests.
type Aggregate struct {
	Segments   []Segment
	TotalBytes int64
}

// NewAggregate creates an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{Segments: make([]Segment, 0)}
}

// Add appends a payload to the aggregate.
func (a *Aggregate) Add(dataCenter string, payload []byte) {
	a.Segments = append(a.Segments, Segment{DataCenter: dataCenter, Payload: payload})
	a.TotalBytes += int64(len(payload))
}

// Empty returns true if no payload was collected.
func (a *Aggregate) Empty() bool {
	return len(a.Segments) == 0
}
