package pipeline

import "fmt"

// PipelineError identifies which stage failed and carries the underlying
// stage error. The orchestrator never downgrades a stage failure into a
// fabricated success; falling back to the untouched original resume is the
// caller's explicit decision.
type PipelineError struct {
	Stage Stage
	Cause error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed at stage %q: %v", e.Stage, e.Cause)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}
