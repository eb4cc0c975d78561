// Package history records extraction and translation batches in SQLite.
//
// Every batch becomes one run row keyed by a UUID job id, with one item row
// per produced, failed or skipped file. The CLI reads it back for the
// `history` command. The schema is created on first open and guarded by a
// single version row; a mismatching database must be deleted.
package history
