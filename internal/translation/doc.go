// Package translation coordinates subtitle translation batches.
//
// The Coordinator owns preconditions, the start/stop toggle and cleanup.
// The translation work itself is delegated to a Func; the Gemini-backed
// implementation lives in the gemini subpackage.
package translation
