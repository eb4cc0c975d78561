// Package logging assembles structured slog loggers and the operator log
// stream used across SubtitleCat.
//
// It owns the configurable console/JSON handlers for the file log and the
// StreamHub that background jobs publish into. The interactive session drains
// the hub on a fixed interval and prints each event as a timestamp-free line,
// so background goroutines never write to the terminal directly. Context
// helpers tag log lines with job IDs, stages, and correlation IDs, and a no-op
// logger is available for tests and wiring code that cannot fail.
package logging
