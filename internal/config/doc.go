// Package config loads, normalizes, and validates SubtitleCat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBTITLECAT_LIBRARY_DIR. The Config type centralizes every knob the CLI and
// the interactive session need: tool binaries, extension sets, the
// default-language seed, the translation target, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
