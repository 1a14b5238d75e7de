package cache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument indicates malformed or missing input, such as an
	// empty region name or a nil dependency. It is always returned before
	// any state changes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfiguration indicates a cached operation could not be bound to
	// exactly one configuration or policy.
	ErrConfiguration = errors.New("cache configuration error")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// ValidateRegion returns ErrInvalidArgument when region is empty or blank.
func ValidateRegion(region string) error {
	if strings.TrimSpace(region) == "" {
		return fmt.Errorf("%w: region cannot be empty or whitespace", ErrInvalidArgument)
	}
	return nil
}
