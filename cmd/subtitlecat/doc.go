// Command subtitlecat extracts subtitle streams from a video library with
// ffprobe/ffmpeg and translates the resulting SRT files through Gemini.
//
// One-shot commands (scan, probe, extract, translate, run) work on a
// directory argument or paths.library_dir. `subtitlecat shell` opens the
// interactive session with live logs and selection prompts.
package main
