package binding

import (
	"fmt"

	"github.com/Sternrassler/regioncache/pkg/cache"
)

// ConfigurationError reports that an operation or policy name did not
// resolve to exactly one configuration. It matches cache.ErrConfiguration
// with errors.Is.
type ConfigurationError struct {
	// ID is the operation being resolved, if any.
	ID OperationID

	// Policy is the policy being resolved, if any.
	Policy string

	// Matches is how many configurations matched.
	Matches int

	// Reason describes the failure.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	subject := fmt.Sprintf("operation %q", e.ID)
	if e.Policy != "" {
		subject = fmt.Sprintf("policy %q", e.Policy)
	}
	return fmt.Sprintf("%s: %s (%d matches)", subject, e.Reason, e.Matches)
}

// Is reports whether target is cache.ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == cache.ErrConfiguration
}

func noMatches(id OperationID) *ConfigurationError {
	return &ConfigurationError{ID: id, Reason: "no cache configuration registered"}
}

func duplicateMatches(id OperationID, n int) *ConfigurationError {
	return &ConfigurationError{ID: id, Matches: n, Reason: "more than one cache configuration registered"}
}
