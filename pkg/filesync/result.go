package filesync

// Outcome is what a sync operation did
type Outcome string

const (
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeWritten   Outcome = "written"
	OutcomeFailed    Outcome = "failed"
)

// Result reports one sync operation
type Result struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	// DryRun marks a write that would have happened
	DryRun bool   `json:"dry_run,omitempty"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the operation failed
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Changed reports whether the file was (or would be) written
func (r Result) Changed() bool {
	return r.Outcome == OutcomeWritten
}

func unchanged(path string) Result {
	return Result{Path: path, Outcome: OutcomeUnchanged}
}

func written(path string, dryRun bool) Result {
	return Result{Path: path, Outcome: OutcomeWritten, DryRun: dryRun}
}

func failed(path string, err error) Result {
	return Result{Path: path, Outcome: OutcomeFailed, Err: err, Error: err.Error()}
}

// Summary counts outcomes
type Summary struct {
	Unchanged int `json:"unchanged"`
	Written   int `json:"written"`
	Failed    int `json:"failed"`
}

// Summarize counts the outcomes of results
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeUnchanged:
			s.Unchanged++
		case OutcomeWritten:
			s.Written++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

// Total returns the number of results counted
func (s Summary) Total() int {
	return s.Unchanged + s.Written + s.Failed
}
