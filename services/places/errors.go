package places

import (
	"errors"
	"fmt"
)

// ErrNotFound means the directory had no match for the query. It is a
// business outcome, not a failure.
var ErrNotFound = errors.New("places: no business matched the query")

// ResolutionError is a transport or format failure while talking to the
// places directory. It is never retried.
type ResolutionError struct {
	Stage      string // "search" or "details"
	StatusCode int    // 0 when no HTTP response was received
	Err        error
}

func (e *ResolutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("places %s failed with status %d: %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("places %s failed: %v", e.Stage, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
