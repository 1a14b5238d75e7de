package expiration

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/regioncache/pkg/clock"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"", KindNone, false},
		{"none", KindNone, false},
		{"Absolute", KindAbsolute, false},
		{" SLIDING ", KindSliding, false},
		{"lru", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownKind) {
				t.Errorf("ParseKind(%q) error = %v, want ErrUnknownKind", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	clk := clock.NewManual(t0)
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		kind    Kind
		ttl     time.Duration
		wantErr error
	}{
		{name: "none ignores ttl", kind: KindNone, ttl: 0},
		{name: "absolute", kind: KindAbsolute, ttl: time.Second},
		{name: "sliding", kind: KindSliding, ttl: time.Second},
		{name: "absolute without ttl", kind: KindAbsolute, ttl: 0, wantErr: ErrInvalidDuration},
		{name: "sliding with negative ttl", kind: KindSliding, ttl: -time.Second, wantErr: ErrInvalidDuration},
		{name: "unknown kind", kind: Kind("lfu"), ttl: time.Second, wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.kind, tt.ttl, clk, logger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if s == nil {
				t.Fatal("New() returned nil strategy")
			}
		})
	}
}

func TestCompositeKey_Distinct(t *testing.T) {
	// Separator characters inside region or key must not merge entries.
	a := CompositeKey{Region: "a|b", Key: "c"}
	b := CompositeKey{Region: "a", Key: "b|c"}

	if a == b {
		t.Fatal("composite keys with embedded separators compare equal")
	}

	s := NewNoExpiration()
	s.OnSet(a)
	if s.IsValid(b) {
		t.Error("setting one composite key validated a different one")
	}
}
