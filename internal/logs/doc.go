// Package logs reads the log file written when logging.file is enabled.
//
// Last returns the tail of the file with bounded memory, ReadFrom continues
// from a byte offset, and Follow streams appended lines until its context
// ends. A file that shrinks below the offset is treated as truncated and
// read again from the start.
package logs
