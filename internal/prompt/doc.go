// Package prompt carries operator questions from background goroutines to
// the interactive front end.
//
// A background goroutine builds a Request, hands it to Broker.Ask and
// blocks until the front end calls Request.Respond or the context ends.
// Respond delivers at most one answer; later calls are ignored. Render and
// ParseAnswer give the CLI and the interactive shell one shared way to show
// a request and read a typed answer.
package prompt
