// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [CommandSource]: Produces input lines one at a time
//   - [Storage]: Consumes the controller's Push/Flush/BlockStart/BlockEnd signals
//   - [Sink]: Consumes completed batches (console, file, journal, redis)
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (os files, fsnotify, redis, zerolog, etc.).
package ports
