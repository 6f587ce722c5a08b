package domain

import "strings"

// Service URL keys used in DATACENTER blocks.
const (
	KeyDataCenter = "DATACENTER"
	KeyDataSelect = "DATASELECTSERVICE"
)

// DataCenterRequest is the set of lines requested from one data center.
// URLs always carries the DATACENTER identity key.
type DataCenterRequest struct {
	// URLs maps service names (DATACENTER, DATASELECTSERVICE, ...) to values.
	URLs map[string]string

	// Lines are the requested channels in their original order.
	Lines []Line

	// Done is true once the request has been fetched (or definitively empty).
	Done bool
}

// NewDataCenterRequest creates an empty request carrying a copy of urls.
func NewDataCenterRequest(urls map[string]string) *DataCenterRequest {
	r := &DataCenterRequest{URLs: make(map[string]string, len(urls))}
	for k, v := range urls {
		r.URLs[k] = v
	}
	if _, ok := r.URLs[KeyDataCenter]; !ok {
		r.URLs[KeyDataCenter] = ""
	}
	return r
}

// Add appends a line to the request.
func (r *DataCenterRequest) Add(l Line) {
	r.Lines = append(r.Lines, l)
}

// Empty returns true if the request has no lines.
func (r *DataCenterRequest) Empty() bool {
	return len(r.Lines) == 0
}

// Size returns the estimated byte cost of all lines.
func (r *DataCenterRequest) Size() int64 {
	var total int64
	for _, l := range r.Lines {
		total += l.Size()
	}
	return total
}

// DataCenter returns the DATACENTER identity value.
func (r *DataCenterRequest) DataCenter() string {
	return r.URLs[KeyDataCenter]
}

// ShortName returns the data center name before the first comma,
// e.g. "IRISDMC" for "IRISDMC,http://ds.iris.edu".
func (r *DataCenterRequest) ShortName() string {
	dc := r.DataCenter()
	if i := strings.IndexByte(dc, ','); i >= 0 {
		return dc[:i]
	}
	return dc
}

// DataSelectURL returns the data-select service URL, if present.
func (r *DataCenterRequest) DataSelectURL() (string, bool) {
	u, ok := r.URLs[KeyDataSelect]
	return u, ok && u != ""
}

// Body joins the lines with newlines for posting to a data-select service.
func (r *DataCenterRequest) Body() string {
	parts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

// Document is a multi data center request: global parameters plus the
// ordered data center requests.
type Document struct {
	Params   map[string]string
	Requests []*DataCenterRequest
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{Params: make(map[string]string)}
}

// Pending returns the number of requests not yet done.
func (d *Document) Pending() int {
	n := 0
	for _, r := range d.Requests {
		if !r.Done {
			n++
		}
	}
	return n
}

// LineCount returns the total number of lines across all requests.
func (d *Document) LineCount() int {
	n := 0
	for _, r := range d.Requests {
		n += len(r.Lines)
	}
	return n
}

// Size returns the estimated byte cost of every request.
func (d *Document) Size() int64 {
	var total int64
	for _, r := range d.Requests {
		total += r.Size()
	}
	return total
}

// QueryURL returns the data-select query endpoint for base, appending
// "query" after a slash separator.
func QueryURL(base string) string {
	if strings.HasSuffix(base, "/") {
		return base + "query"
	}
	return base + "/query"
}
