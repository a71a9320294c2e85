package harness

// TraceEvent is one entry of a scenario trace: either an allocation
// (a question handed to the student) or an answer (the closed record
// with its verdict and updated counters).
type TraceEvent struct {
	Type     string `json:"type"` // "allocation" or "answer"
	URI      string `json:"uri"`
	Practice bool   `json:"practice,omitempty"`

	// Allocation events carry the grade going in.
	GradeBefore *float64 `json:"grade_before,omitempty"`

	// Answer events carry the verdict and the recomputed totals.
	Correct          *bool    `json:"correct,omitempty"`
	GradeAfter       *float64 `json:"grade_after,omitempty"`
	LecAnswered      int      `json:"lec_answered,omitempty"`
	LecCorrect       int      `json:"lec_correct,omitempty"`
	PracticeAnswered int      `json:"practice_answered,omitempty"`
}

// SummarySnapshot is the rendered grade summary at the end of a flow.
type SummarySnapshot struct {
	Practice      string `json:"practice,omitempty"`
	PracticeStats string `json:"practice_stats,omitempty"`
	Stats         string `json:"stats"`
	Grade         string `json:"grade"`
	Encouragement string `json:"encouragement,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists every allocation and answer in order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds the expectation failures; empty when Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Summary is the grade summary after the last step.
	Summary SummarySnapshot `json:"summary"`
}

// NewResult returns an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError records an expectation failure and fails the result.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
