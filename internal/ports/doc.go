// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [Transport]: Fetches from and posts to data center web services
//   - [Checkpointer]: Persists the request document after each attempt
//   - [WaveformCodec]: Turns downloaded payloads into aggregated waveforms
//   - [PayloadStore]: Saves raw downloaded payloads
//   - [Journal]: Records download attempts for later inspection
//   - [MetadataParser]: Reads event and station service listings
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system, net/http, gocloud blob buckets and sqlite.
package ports
