// Package services defines shared error markers and context helpers consumed
// by the extraction and translation pipelines.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent batch statuses (completed, stopped, failed, rejected).
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across commands.
package services
