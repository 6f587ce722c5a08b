package ports

import "context"

// Response is the result of an HTTP exchange that reached the server.
// Any status code is a valid response; only failures to complete the
// exchange are reported as errors.
type Response struct {
	StatusCode int
	Body       []byte

	// Filename is taken from a Content-Disposition header, if any.
	Filename string
}

// Transport performs HTTP exchanges with data center services.
type Transport interface {
	// Get fetches url.
	Get(ctx context.Context, url string) (Response, error)

	// Post sends body to url as text/plain.
	Post(ctx context.Context, url string, body []byte) (Response, error)
}
