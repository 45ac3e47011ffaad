package logctx

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Store is the context-store contract consumed by the injection engine and
// the log pipeline. Implementations are owned by exactly one unit of
// execution at a time (one request, one goroutine); callers must not share a
// Store mutably across goroutines. That confinement is the reason no locking
// discipline is part of the contract.
type Store interface {
	// Set writes or overwrites one entry. A non-nil error means the store
	// could not accept the write; the engine treats that as fatal to the
	// surrounding call.
	Set(key, value string) error

	// Get returns the value for key and whether it is present.
	Get(key string) (string, bool)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)

	// ClearAll leaves the store empty regardless of prior state.
	ClearAll()

	// WithScope sets key=value and returns a handle whose Release removes
	// exactly that key.
	WithScope(key, value string) (*Scope, error)

	// Snapshot returns a copy of all entries. The log pipeline uses this to
	// attach the current context to each record; iteration order is undefined.
	Snapshot() map[string]string
}

// Scope removes one context key when released. Release is idempotent, so a
// deferred Release after an explicit one is harmless.
type Scope struct {
	store Store
	key   string
	once  sync.Once
}

// Release removes the scoped key from its store.
func (s *Scope) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.store.Remove(s.key)
	})
}

// MapStore is the default Store: a plain map with no synchronization.
// Isolation between concurrent requests comes from each request owning its
// own MapStore, not from locking.
type MapStore struct {
	entries map[string]string
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{entries: make(map[string]string)}
}

// Set writes or overwrites one entry. It never fails.
func (s *MapStore) Set(key, value string) error {
	s.entries[key] = value
	return nil
}

// Get returns the value for key and whether it is present.
func (s *MapStore) Get(key string) (string, bool) {
	value, ok := s.entries[key]
	return value, ok
}

// Remove deletes key; absent keys are a no-op.
func (s *MapStore) Remove(key string) {
	delete(s.entries, key)
}

// ClearAll empties the store.
func (s *MapStore) ClearAll() {
	clear(s.entries)
}

// WithScope sets key=value and returns a release-on-dispose handle.
func (s *MapStore) WithScope(key, value string) (*Scope, error) {
	if err := s.Set(key, value); err != nil {
		return nil, err
	}
	return &Scope{store: s, key: key}, nil
}

// Snapshot returns a copy of all entries.
func (s *MapStore) Snapshot() map[string]string {
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of entries. Mostly useful in tests.
func (s *MapStore) Len() int {
	return len(s.entries)
}

type ctxKey struct{}

// WithStore returns a context carrying the given store.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// FromContext extracts the store from ctx. Returns nil if no store is
// installed or ctx is nil.
func FromContext(ctx context.Context) Store {
	if ctx == nil {
		return nil
	}
	if store, ok := ctx.Value(ctxKey{}).(Store); ok {
		return store
	}
	return nil
}

// AppendAttrs appends one slog.Attr per store entry in ctx to attrs, sorted
// by key for deterministic output. With no store (or an empty one) attrs is
// returned unchanged.
func AppendAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	store := FromContext(ctx)
	if store == nil {
		return attrs
	}

	snapshot := store.Snapshot()
	if len(snapshot) == 0 {
		return attrs
	}

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		attrs = append(attrs, slog.String(k, snapshot[k]))
	}
	return attrs
}
