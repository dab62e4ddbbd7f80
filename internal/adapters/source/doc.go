// Package source provides ports.CommandSource implementations.
//
//   - [ReaderSource]: reads newline-separated lines from any io.Reader
//   - [FollowSource]: tails a file with fsnotify, delivering lines as they
//     are appended, until the context is cancelled or the file goes away
//
// Both strip only the trailing "\n" of each line; every other byte,
// including "\r" and surrounding whitespace, is preserved. A final line
// without a newline is still a line. Lines have no length limit.
package source
