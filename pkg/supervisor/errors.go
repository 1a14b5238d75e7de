package supervisor

import (
	"fmt"
	"strings"
)

// PartialInvalidationError reports the storages that failed during a
// broadcast clear. The remaining storages were cleared.
type PartialInvalidationError struct {
	// Scope is the cleared region, or empty for a global clear.
	Scope string

	// Total is the number of storages the clear was sent to.
	Total int

	// Failures holds one error per failed storage.
	Failures []error
}

// Error implements the error interface.
func (e *PartialInvalidationError) Error() string {
	scope := "all regions"
	if e.Scope != "" {
		scope = fmt.Sprintf("region %q", e.Scope)
	}

	msgs := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("clear %s: %d of %d storages failed: %s",
		scope, len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

// Unwrap returns the individual storage failures.
func (e *PartialInvalidationError) Unwrap() []error {
	return e.Failures
}
