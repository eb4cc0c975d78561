// Package extraction drives subtitle extraction across a batch of videos.
//
// For each video the Driver probes its subtitle streams, asks the selection
// policy which ones to keep and runs ffmpeg once per kept stream. Failures
// are isolated to the stream that caused them. The shouldStop predicate is
// consulted before every video and every stream.
package extraction
