// Package selection decides which subtitle streams of a video to extract.
//
// Streams whose language tag matches the default-language set are taken
// without asking. Otherwise the operator is asked through a prompt.Request
// and exactly the streams they confirm are returned. ChooseDefaults runs the
// setup flow that derives the default set from a sample video.
package selection
