// Package usedtokens tracks which presented tokens have already been
// redeemed, so a resource handler can refuse a replay (spec.md §7, and
// original_source/examples/server.rs's UsedTokens). A token is identified
// by whatever its concrete engine type marshals it to on the wire — the
// store itself is engine-agnostic.
package usedtokens

import "sync"

// Store records which token keys have already been spent.
type Store struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// CheckAndMark atomically reports whether key was already spent and, if
// not, marks it as spent. Callers must pass the same key for the same
// token on every call — typically its marshaled wire bytes.
func (s *Store) CheckAndMark(key []byte) (alreadySpent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := string(key)
	if _, ok := s.seen[k]; ok {
		return true
	}
	s.seen[k] = struct{}{}
	return false
}
