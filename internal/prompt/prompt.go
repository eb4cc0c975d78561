package prompt

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrEmptySelection is returned by Respond when a request that requires a
// choice receives an empty answer. The request stays open.
var ErrEmptySelection = errors.New("at least one option must be selected")

// Option is one selectable row of a Request.
type Option struct {
	// ID identifies the option in answers, e.g. a stream index.
	ID    string
	Label string
	// Detail is an optional secondary column.
	Detail  string
	Checked bool
}

// Request is a one-shot question with a multi-select answer.
type Request struct {
	ID      string
	Title   string
	Subject string
	Options []Option
	// RequireSelection rejects empty answers instead of delivering them.
	RequireSelection bool
	// ConfirmEmpty asks front ends to confirm an empty answer before
	// delivering it.
	ConfirmEmpty bool

	reply chan []string
	once  sync.Once
	done  chan struct{}
}

// NewRequest builds a request with a fresh id.
func NewRequest(title, subject string, options []Option) *Request {
	return &Request{
		ID:      uuid.NewString(),
		Title:   title,
		Subject: subject,
		Options: options,
		reply:   make(chan []string, 1),
		done:    make(chan struct{}),
	}
}

// Preselected returns the ids of options checked by default.
func (r *Request) Preselected() []string {
	var out []string
	for _, opt := range r.Options {
		if opt.Checked {
			out = append(out, opt.ID)
		}
	}
	return out
}

// Respond delivers the chosen option ids. Unknown ids are dropped and the
// answer is reordered to option order. Only the first accepted call has any
// effect; it reports whether this call delivered the answer.
func (r *Request) Respond(ids []string) (bool, error) {
	chosen := r.filter(ids)
	if len(chosen) == 0 && r.RequireSelection {
		return false, ErrEmptySelection
	}
	delivered := false
	r.once.Do(func() {
		r.reply <- chosen
		close(r.done)
		delivered = true
	})
	return delivered, nil
}

// Answered reports whether Respond has delivered an answer.
func (r *Request) Answered() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

func (r *Request) filter(ids []string) []string {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, opt := range r.Options {
		if _, ok := want[opt.ID]; ok {
			out = append(out, opt.ID)
			delete(want, opt.ID)
		}
	}
	return out
}

// Broker queues requests for the front end.
type Broker struct {
	requests chan *Request
}

// NewBroker returns a broker with room for a few outstanding requests.
func NewBroker() *Broker {
	return &Broker{requests: make(chan *Request, 4)}
}

// Requests is the stream the front end consumes.
func (b *Broker) Requests() <-chan *Request {
	return b.requests
}

// Ask posts req and waits for its answer or for ctx to end.
func (b *Broker) Ask(ctx context.Context, req *Request) ([]string, error) {
	if req == nil {
		return nil, errors.New("prompt: nil request")
	}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case answer := <-req.reply:
		return answer, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
