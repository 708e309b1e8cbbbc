package pipeline

// RunResult tracks aggregate counters across a run.
// Processed == Passed + Failed + Errored always holds.
type RunResult struct {
	Processed int
	Passed    int
	Failed    int
	Errored   int
	SizeSum   int64    // Bytes of passing files only.
	Errors    []string // Diagnostics in the order they occurred.

	// Interrupted is set when the context was cancelled before every
	// enumerated file was handled.
	Interrupted bool
}

func (r *RunResult) pass(size int64) {
	r.Processed++
	r.Passed++
	r.SizeSum += size
}

func (r *RunResult) fail() {
	r.Processed++
	r.Failed++
}

func (r *RunResult) errored(msg string) {
	r.Processed++
	r.Errored++
	r.Errors = append(r.Errors, msg)
}
