package audit

import "fmt"

// StageError wraps a fatal failure with the pipeline state it happened in.
// The typed cause (*places.ResolutionError, *ai.NarrativeError, ...) stays
// reachable through errors.As.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("audit pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
