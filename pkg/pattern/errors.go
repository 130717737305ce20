package pattern

import (
	"errors"
	"fmt"
)

// ErrMatchTimeout is returned by Match when the backtracking engine gives up
// on a subject because the pattern's timeout elapsed.
var ErrMatchTimeout = errors.New("pattern: match timed out")

// InvalidPatternError reports a pattern that could not be compiled.
// It is raised once, at compile time; retrying with the same source will fail again.
type InvalidPatternError struct {
	Source string
	Engine Engine
	Reason string
	Err    error
}

func (e *InvalidPatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q (%s): %s: %v", e.Source, e.Engine, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q (%s): %s", e.Source, e.Engine, e.Reason)
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}
