package history

import "time"

// Kind names the batch type a run belongs to.
type Kind string

const (
	KindExtraction  Kind = "extraction"
	KindTranslation Kind = "translation"
	KindOneClick    Kind = "oneclick"
)

// StatusRunning marks a run that has not finished yet. Finished runs carry
// one of the services.Status* labels.
const StatusRunning = "running"

// Item outcomes.
const (
	OutcomeProduced = "produced"
	OutcomeFailed   = "failed"
	OutcomeSkipped  = "skipped"
)

// Run is one recorded batch.
type Run struct {
	ID           string
	Kind         Kind
	Root         string
	Target       string
	Status       string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
	Produced     int
	Failed       int
	Skipped      int
}

// Duration reports how long a finished run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Item is one file outcome inside a run.
type Item struct {
	ID        int64
	RunID     string
	Path      string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}
