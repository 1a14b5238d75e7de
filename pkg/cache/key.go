package cache

import (
	"fmt"
	"reflect"
	"strings"
)

// KeyFunc converts the ordered arguments of a cached call into a cache key.
//
// The same arguments must always yield the same key; the engine does not
// check this. Distinct calls that map to the same key share one entry.
type KeyFunc func(args ...any) (string, error)

// KeyOf0 adapts a key function for operations without arguments.
func KeyOf0(fn func() string) KeyFunc {
	return func(args ...any) (string, error) {
		if err := checkArity(args, 0); err != nil {
			return "", err
		}
		return fn(), nil
	}
}

// KeyOf1 adapts a typed single-argument key function.
func KeyOf1[A any](fn func(A) string) KeyFunc {
	return func(args ...any) (string, error) {
		if err := checkArity(args, 1); err != nil {
			return "", err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return "", err
		}
		return fn(a), nil
	}
}

// KeyOf2 adapts a typed two-argument key function.
func KeyOf2[A, B any](fn func(A, B) string) KeyFunc {
	return func(args ...any) (string, error) {
		if err := checkArity(args, 2); err != nil {
			return "", err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return "", err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return "", err
		}
		return fn(a, b), nil
	}
}

// KeyOf3 adapts a typed three-argument key function.
func KeyOf3[A, B, C any](fn func(A, B, C) string) KeyFunc {
	return func(args ...any) (string, error) {
		if err := checkArity(args, 3); err != nil {
			return "", err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return "", err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return "", err
		}
		c, err := argAt[C](args, 2)
		if err != nil {
			return "", err
		}
		return fn(a, b, c), nil
	}
}

// KeyOf4 adapts a typed four-argument key function.
func KeyOf4[A, B, C, D any](fn func(A, B, C, D) string) KeyFunc {
	return func(args ...any) (string, error) {
		if err := checkArity(args, 4); err != nil {
			return "", err
		}
		a, err := argAt[A](args, 0)
		if err != nil {
			return "", err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return "", err
		}
		c, err := argAt[C](args, 2)
		if err != nil {
			return "", err
		}
		d, err := argAt[D](args, 3)
		if err != nil {
			return "", err
		}
		return fn(a, b, c, d), nil
	}
}

// JoinKey formats each part with %v and joins them with "_".
//
// Example:
//
//	JoinKey("Joa", 20, 25) // "Joa_20_25"
func JoinKey(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprintf("%v", p)
	}
	return strings.Join(s, "_")
}

func checkArity(args []any, want int) error {
	if len(args) != want {
		return fmt.Errorf("%w: key function expects %d arguments, got %d", ErrInvalidArgument, want, len(args))
	}
	return nil
}

func argAt[T any](args []any, i int) (T, error) {
	var zero T
	if args[i] == nil && nilable(reflect.TypeFor[T]()) {
		return zero, nil
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: key argument %d has type %T, want %v", ErrInvalidArgument, i, args[i], reflect.TypeFor[T]())
	}
	return v, nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}
