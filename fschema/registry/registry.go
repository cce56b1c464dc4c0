// Package registry maps feature-type keys to their preprocessing schemas.
//
// A Registry is built once at startup, filled with Register, and then shared by
// reference with whatever dispatches on feature type. Each key can be written once.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/featureschema/fschema/schema"

	"github.com/armon/go-radix"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyKey      = errors.New("registry key cannot be empty")
	ErrNilSchema     = errors.New("schema cannot be nil")
	ErrAlreadyExists = errors.New("key already registered")
	ErrNotRegistered = errors.New("key not registered")
)

// Registry stores schemas in a radix tree so keys come back sorted and can be
// listed by prefix (e.g. every "sequence*" variant).
type Registry struct {
	mu     sync.RWMutex
	tree   *radix.Tree
	logger zerolog.Logger
}

// New creates an empty registry.
func New(logger zerolog.Logger) *Registry {
	return &Registry{
		tree:   radix.New(),
		logger: logger.With().Str("component", "registry").Logger(),
	}
}

// Register binds key to s. Registering a key twice is an error.
func (r *Registry) Register(key string, s *schema.Schema) error {
	if key == "" {
		return ErrEmptyKey
	}
	if s == nil {
		return fmt.Errorf("register %q: %w", key, ErrNilSchema)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tree.Get(key); exists {
		return fmt.Errorf("register %q: %w", key, ErrAlreadyExists)
	}
	r.tree.Insert(key, s)

	r.logger.Debug().
		Str("key", key).
		Str("schema", s.Name()).
		Int("fields", len(s.Fields())).
		Msg("schema registered")
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(key string, s *schema.Schema) {
	if err := r.Register(key, s); err != nil {
		panic(err)
	}
}

// Lookup returns the schema registered under key.
func (r *Registry) Lookup(key string) (*schema.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.tree.Get(key)
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", key, ErrNotRegistered)
	}
	return v.(*schema.Schema), nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tree.Get(key)
	return ok
}

// Keys returns every registered key in lexical order.
func (r *Registry) Keys() []string {
	return r.KeysWithPrefix("")
}

// KeysWithPrefix returns the registered keys starting with prefix, in lexical order.
func (r *Registry) KeysWithPrefix(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	r.tree.WalkPrefix(prefix, func(k string, _ interface{}) bool {
		keys = append(keys, k)
		return false
	})
	return keys
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}
