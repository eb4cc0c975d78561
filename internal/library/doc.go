// Package library discovers video and subtitle files beneath a root
// directory and tracks which of them the operator has selected for work.
//
// Scan is a pure function of the filesystem: it walks every subdirectory,
// classifies files by case-insensitive extension and returns both lists
// sorted by slash-separated relative path. Catalog layers per-entry
// selection on top of the latest Inventory and is safe for concurrent use
// by the interactive session and background batches.
package library
