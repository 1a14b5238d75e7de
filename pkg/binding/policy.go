package binding

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/regioncache/pkg/cache"
	"github.com/Sternrassler/regioncache/pkg/expiration"
)

// DefaultPolicyName is the policy used when a registration names none.
const DefaultPolicyName = "default"

// Policy describes how the storage of a cached operation is built.
type Policy struct {
	// Name identifies the policy. Lookups are case-insensitive.
	Name string

	// Expiration selects the validity rule. Empty means none.
	Expiration expiration.Kind

	// TTL is the duration for absolute and sliding expiration.
	TTL time.Duration

	// Redis selects the Redis backend when set; otherwise entries are
	// kept in memory.
	Redis *redis.Client

	// RedisPrefix namespaces keys in Redis. Defaults to cache.DefaultRedisPrefix.
	RedisPrefix string
}

// DefaultPolicy returns the built-in policy: in memory, never expiring.
func DefaultPolicy() Policy {
	return Policy{Name: DefaultPolicyName, Expiration: expiration.KindNone}
}

// Policies is a named set of policies. Adding a name twice is allowed, but
// resolving it afterwards fails.
type Policies struct {
	mu   sync.RWMutex
	list []Policy
}

// NewPolicies returns a set holding DefaultPolicy and the given policies.
func NewPolicies(policies ...Policy) (*Policies, error) {
	p := &Policies{list: []Policy{DefaultPolicy()}}
	for _, policy := range policies {
		if err := p.Add(policy); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends policy to the set.
func (p *Policies) Add(policy Policy) error {
	if strings.TrimSpace(policy.Name) == "" {
		return fmt.Errorf("%w: policy name cannot be empty", cache.ErrInvalidArgument)
	}
	kind, err := expiration.ParseKind(string(policy.Expiration))
	if err != nil {
		return fmt.Errorf("%w: policy %q: %v", cache.ErrInvalidArgument, policy.Name, err)
	}
	if policy.TTL < 0 {
		return fmt.Errorf("%w: policy %q: negative ttl", cache.ErrInvalidArgument, policy.Name)
	}
	if kind != expiration.KindNone && policy.TTL == 0 {
		return fmt.Errorf("%w: policy %q: %s expiration requires a ttl", cache.ErrInvalidArgument, policy.Name, kind)
	}

	p.mu.Lock()
	p.list = append(p.list, policy)
	p.mu.Unlock()
	return nil
}

// Get returns the single policy called name.
func (p *Policies) Get(name string) (Policy, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var (
		found Policy
		n     int
	)
	for _, policy := range p.list {
		if strings.EqualFold(policy.Name, name) {
			found = policy
			n++
		}
	}

	switch n {
	case 0:
		return Policy{}, &ConfigurationError{Policy: name, Reason: "no policy with this name"}
	case 1:
		return found, nil
	default:
		return Policy{}, &ConfigurationError{Policy: name, Matches: n, Reason: "more than one policy with this name"}
	}
}
