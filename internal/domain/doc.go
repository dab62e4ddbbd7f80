// Package domain contains the core domain entities and value objects for bulk.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (file system, network, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Command]: A single line of input, kept byte-exact
//   - [Batch]: An immutable, ordered group of commands emitted together
//   - [Mode]: Whether batches are closed by size (Static) or by markers (Dynamic)
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
