// Package fs provides file system sinks.
//
//   - [FileSink]: one "bulk<timestamp>.log" file per batch
//   - [JournalSink]: one JSON object per batch appended to a single file
package fs
