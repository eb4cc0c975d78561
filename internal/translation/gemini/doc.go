// Package gemini translates SRT files with the Google Gemini API.
//
// Translator.Translate satisfies translation.Func. Cues are sent in batches
// as a JSON array and the model answers with an array of the same length.
// API keys are rotated when a key hits its rate limit or quota. Output goes
// to <input-without-.srt>.<code>.srt and is written only after the whole
// file is translated, so a stopped batch resumes at the first missing file.
package gemini
