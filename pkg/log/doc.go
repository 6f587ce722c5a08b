// Package log provides the logging abstraction used by fern components.
//
// Components accept a [Logger] so they can be used as a library without
// pulling in a logging backend. The CLI wires a zerolog console logger:
//
//	logger := log.NewConsoleLogger(os.Stderr, verbose)
//
// Library users and tests can discard output:
//
//	logger := log.NewNoopLogger()
package log
