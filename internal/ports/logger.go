package ports

import "github.com/bft-labs/bulk/pkg/log"

// Logger provides structured logging capabilities.
// It is the pkg/log interface so adapters from that package satisfy it directly.
type Logger = log.Logger

// Field represents a key-value pair for structured logging.
type Field = log.Field
