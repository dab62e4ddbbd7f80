package ports

// Storage receives the control signals emitted by the batch controller.
// The accumulator implements it; tests implement it to record signals.
type Storage interface {
	// Push appends a command to the open batch.
	Push(command string)

	// Flush emits the open batch if it is not empty.
	Flush()

	// BlockStart flushes and enters dynamic mode.
	BlockStart()

	// BlockEnd flushes and returns to static mode.
	BlockEnd()
}
