// Package domain contains the core entities of a federated waveform request.
//
// This package represents the innermost layer of the application. It has no
// dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only the request model and its rules.
//
// # Entities
//
//   - [Line]: a single channel and time window (NET STA LOC CHA START END)
//   - [DataCenterRequest]: the service URLs and lines sent to one data center
//   - [Document]: global parameters plus the ordered data center requests
//   - [Aggregate]: waveform payloads collected while downloading
//
// # Size Estimation
//
// [Estimate] maps a band code and a duration to an approximate byte cost,
// assuming 4 bytes per sample and a nominal sample rate per band code.
package domain
