// Package people is a deliberately slow in-memory person store used by the
// sample server, the examples and the binding tests.
package people

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"
)

// Person is a stored person.
type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Request is a search expressed as a single value.
type Request struct {
	NameContains string `json:"name_contains"`
	MinAge       int    `json:"min_age"`
	MaxAge       int    `json:"max_age"`
}

// Fixtures returns the default people.
func Fixtures() []Person {
	return []Person{
		{Name: "John", Age: 30},
		{Name: "Jane", Age: 25},
		{Name: "Josh", Age: 35},
		{Name: "Joan", Age: 21},
	}
}

// Calls counts invocations per operation.
type Calls struct {
	Search          int64
	SearchByRequest int64
	All             int64
}

// Store serves people after an artificial delay.
type Store struct {
	people []Person
	delay  time.Duration

	search          atomic.Int64
	searchByRequest atomic.Int64
	all             atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithDelay makes every call wait d before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithPeople replaces the fixtures.
func WithPeople(people []Person) Option {
	return func(s *Store) { s.people = slices.Clone(people) }
}

// NewStore returns a Store holding Fixtures.
func NewStore(opts ...Option) *Store {
	s := &Store{people: Fixtures()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPeople returns everyone whose name contains name (case-insensitive) and
// whose age lies in [minAge, maxAge]. maxAge <= 0 means no upper bound.
func (s *Store) GetPeople(ctx context.Context, name string, minAge, maxAge int) ([]Person, error) {
	s.search.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.filter(name, minAge, maxAge), nil
}

// GetPeopleByRequest is GetPeople taking a Request.
func (s *Store) GetPeopleByRequest(ctx context.Context, req Request) ([]Person, error) {
	s.searchByRequest.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.filter(req.NameContains, req.MinAge, req.MaxAge), nil
}

// GetAllPeople returns everyone.
func (s *Store) GetAllPeople(ctx context.Context) ([]Person, error) {
	s.all.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.people), nil
}

// Calls returns the number of calls made so far.
func (s *Store) Calls() Calls {
	return Calls{
		Search:          s.search.Load(),
		SearchByRequest: s.searchByRequest.Load(),
		All:             s.all.Load(),
	}
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store) filter(name string, minAge, maxAge int) []Person {
	needle := strings.ToLower(name)
	out := []Person{}
	for _, p := range s.people {
		if !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if p.Age < minAge || (maxAge > 0 && p.Age > maxAge) {
			continue
		}
		out = append(out, p)
	}
	return out
}
