// Package preflight provides readiness checks for the directories, key file
// and media tools SubtitleCat depends on.
//
// The CLI `doctor` command prints RunAll and CheckSystemDeps; batch commands
// call RunAll first and refuse to start when a required check fails.
package preflight
