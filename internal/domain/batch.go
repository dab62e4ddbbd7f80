package domain

import (
	"strconv"
	"strings"
)

// Batch is an immutable, ordered group of commands emitted together.
// The zero value is an empty batch; emitted batches are never empty.
type Batch struct {
	seq       uint64
	timestamp int64
	commands  []Command
}

// NewBatch creates a batch from a snapshot of commands.
// The slice is copied so later changes by the caller are not observed.
func NewBatch(seq uint64, timestamp int64, commands []Command) Batch {
	return Batch{
		seq:       seq,
		timestamp: timestamp,
		commands:  append([]Command(nil), commands...),
	}
}

// Seq returns the emission sequence number, starting at 1.
func (b Batch) Seq() uint64 {
	return b.seq
}

// Timestamp returns the arrival time of the first command
// in microseconds since the Unix epoch.
func (b Batch) Timestamp() int64 {
	return b.timestamp
}

// Commands returns a copy of the commands in arrival order.
func (b Batch) Commands() []Command {
	return append([]Command(nil), b.commands...)
}

// Size returns the number of commands in the batch.
func (b Batch) Size() int {
	return len(b.commands)
}

// Empty returns true if the batch has no commands.
func (b Batch) Empty() bool {
	return len(b.commands) == 0
}

// Format renders the batch the way every text sink prints it:
// "bulk: " followed by the commands joined with ", " and a newline.
func Format(b Batch) string {
	return "bulk: " + strings.Join(b.commands, ", ") + "\n"
}

// MakeFilename returns the log file name for a batch timestamp,
// e.g. "bulk1700000000000000.log".
func MakeFilename(timestamp int64) string {
	return "bulk" + strconv.FormatInt(timestamp, 10) + ".log"
}
