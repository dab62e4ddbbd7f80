package domain

// Command is one raw input line. It is never trimmed or normalized;
// equality is byte-exact and the empty string is a valid command.
type Command = string

// Marker tokens. A line is a marker only when it equals a token exactly.
const (
	BlockStartMarker = "{"
	BlockEndMarker   = "}"
)

// Mode selects the rule that closes the open batch.
type Mode int

const (
	// ModeStatic closes a batch once it holds the configured block size.
	ModeStatic Mode = iota
	// ModeDynamic closes a batch only at the end of a marker block.
	ModeDynamic
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "Static"
	case ModeDynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}
