// Package subtitles reads and writes SubRip (.srt) files.
//
// Parse accepts the loose SRT found in the wild (CRLF line endings, a UTF-8
// BOM, missing or wrong sequence numbers, dot millisecond separators) and
// Format always emits canonical SRT with renumbered cues. Clean drops
// advertisement cues before text is sent for translation.
package subtitles
