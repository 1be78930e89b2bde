package formula

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when raw text does not resolve to a known
	// component, or a name has no entry in an index.
	ErrNotFound = errors.New("component not found")

	// ErrCycleDetected is matched by every [*CycleError].
	ErrCycleDetected = errors.New("formula cycle detected")

	// ErrAmbiguousName is matched by every [*AmbiguousNameError].
	ErrAmbiguousName = errors.New("ambiguous component name")

	// ErrInvalidName is returned when a canonical name is empty or
	// normalizes to an empty key.
	ErrInvalidName = errors.New("invalid component name")
)

// CycleError reports a component that is, transitively, part of its own
// recipe. Path starts and ends with the repeated component.
type CycleError struct {
	Path []Name
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(Strings(e.Path), " -> "))
}

// Is makes errors.Is(err, ErrCycleDetected) report true.
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// AmbiguousNameError reports two distinct canonical names sharing one
// normalized key.
type AmbiguousNameError struct {
	Key    string
	First  Name
	Second Name
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("%s: %q and %q both normalize to %q", ErrAmbiguousName, e.First, e.Second, e.Key)
}

// Is makes errors.Is(err, ErrAmbiguousName) report true.
func (e *AmbiguousNameError) Is(target error) bool { return target == ErrAmbiguousName }

// cycleAt builds a CycleError from the current DFS path, trimmed to the
// first occurrence of the repeated name.
func cycleAt(path []Name, repeated Name) *CycleError {
	start := 0
	for i, n := range path {
		if n == repeated {
			start = i
			break
		}
	}
	cycle := make([]Name, 0, len(path)-start+1)
	cycle = append(cycle, path[start:]...)
	cycle = append(cycle, repeated)
	return &CycleError{Path: cycle}
}
