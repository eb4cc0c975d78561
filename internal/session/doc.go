// Package session implements the interactive `shell` front end.
//
// The session goroutine is the only one that writes to the terminal. It
// reads commands line by line, drains the log hub on a fixed tick, and
// answers operator prompts posted by background batches through a
// prompt.Broker. A file lock under the state directory keeps a single
// session per installation.
package session
