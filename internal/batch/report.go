package batch

import (
	"time"

	"github.com/comalice/formulax"
)

// Outcome is the result of one item. Exactly one of Result and Err is set.
type Outcome struct {
	Item   Item             `json:"item" yaml:"item"`
	Result *formulax.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Err    string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the item could not be evaluated.
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// Report collects the outcomes of a run in item order.
type Report struct {
	Job      string    `json:"job" yaml:"job"`
	Version  string    `json:"version" yaml:"version"`
	RunID    string    `json:"run_id" yaml:"run_id"`
	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished" yaml:"finished"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
	Failed   int       `json:"failed" yaml:"failed"`
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Failures returns the failed outcomes.
func (r *Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}
