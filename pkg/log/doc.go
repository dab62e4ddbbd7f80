// Package log provides a logging abstraction for bulk components.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog implementation and a no-op logger
// are provided.
//
// # Usage
//
// Use the zerolog adapter, writing human-readable lines to stderr:
//
//	logger, err := log.NewZerologAdapter(os.Stderr, "info")
//
// Or discard everything (the default for library users):
//
//	logger := log.NewNoopLogger()
package log
