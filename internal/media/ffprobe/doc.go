// Package ffprobe wraps the two ffprobe invocations SubtitleCat relies on.
//
// Key types:
//   - SubtitleStream: one embedded subtitle stream (index plus optional tags)
//   - Result: parsed JSON container inspection behind the probe command header
//
// Primary entry points:
//   - SubtitleStreams: lists subtitle streams via the line-oriented output
//   - ParseSubtitleStreams: parser behind SubtitleStreams
//   - Inspect: full JSON inspection of streams and format metadata
//
// All invocations go through a toolexec.Runner so tests never spawn ffprobe.
package ffprobe
