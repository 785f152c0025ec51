package scanner

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the image contained no recognizable code. Callers
// should treat this as "nothing present", not as a system fault.
var ErrNotFound = errors.New("no code found")

// ConsistencyError indicates the engine returned a result tagged with a
// symbology the adapter's mapping table does not know. Decode hints restrict
// the engine to mapped formats, so this signals a version or table mismatch
// between adapter and engine rather than a per-call condition.
type ConsistencyError struct {
	Tag string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("engine returned unmapped symbology %q", e.Tag)
}
