// Package workflow sequences extraction and translation batches for one
// library root.
//
// Settings holds the operator-owned state: the library catalog with its
// selection flags, the default-language set, the translation target and the
// API key pool. Manager starts batches on background goroutines against a
// shared jobstate.State: standalone extraction, the translation toggle and
// the one-click pipeline that extracts first and then translates whatever
// subtitles are selected once extraction has refreshed the catalog. Every
// batch is recorded in the run history when a recorder is configured.
package workflow
