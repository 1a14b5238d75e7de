package binding

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// OperationID names a cached operation: the qualified function name followed
// by its parameter types, for example
//
//	github.com/acme/app/people.Store.GetPeople:string|int|int
//
// Operations without parameters have no ":" suffix.
type OperationID string

// Method returns the bare function or method name of the id.
func (id OperationID) Method() string {
	s := string(id)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

var contextType = reflect.TypeFor[context.Context]()

// IDFor derives the OperationID of fn, which may be a function, a method
// value (store.GetPeople) or a method expression ((*Store).GetPeople).
// Method values and method expressions of the same method yield the same id.
// context.Context parameters are not part of the id.
func IDFor(fn any) (OperationID, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return "", fmt.Errorf("IDFor: %T is not a function", fn)
	}

	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "", fmt.Errorf("IDFor: cannot resolve function name")
	}

	name, methodValue := strings.CutSuffix(rf.Name(), "-fm")
	name, receiver := normalizeReceiver(name)

	t := v.Type()
	params := make([]string, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if i == 0 && !methodValue && receiver != "" && receiverMatches(in, receiver) {
			continue
		}
		if in == contextType {
			continue
		}
		params = append(params, typeName(in))
	}

	if len(params) == 0 {
		return OperationID(name), nil
	}
	return OperationID(name + ":" + strings.Join(params, "|")), nil
}

// MustIDFor is like IDFor but panics on error. It suits package-level vars.
func MustIDFor(fn any) OperationID {
	id, err := IDFor(fn)
	if err != nil {
		panic(err)
	}
	return id
}

// normalizeReceiver rewrites "pkg.(*T).M" to "pkg.T.M" and returns the
// receiver type name when the symbol looks like a method.
func normalizeReceiver(name string) (string, string) {
	slash := strings.LastIndexByte(name, '/')
	dir, base := name[:slash+1], name[slash+1:]

	base = strings.Replace(base, "(*", "", 1)
	base = strings.Replace(base, ")", "", 1)

	parts := strings.Split(base, ".")
	if len(parts) != 3 {
		return dir + base, ""
	}
	return dir + base, parts[1]
}

func receiverMatches(t reflect.Type, receiver string) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name() == receiver
}

func typeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
