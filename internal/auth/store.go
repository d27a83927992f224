// Package auth holds the client's in-memory authentication state.
package auth

import (
	"github.com/fivetwenty-io/pocketbase-client/pkg/pocketbase"
)

// Store holds the current auth token and identity record for one client.
//
// The store is not synchronized. The client mutates it only from auth flows,
// which callers are expected to run from a single goroutine; concurrent
// record CRUD only reads the token.
type Store struct {
	token     string
	record    pocketbase.Record
	superuser bool
}

// NewStore creates an empty, unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the stored credentials after a successful authentication.
func (s *Store) Save(token string, record pocketbase.Record, superuser bool) {
	s.token = token
	s.record = record
	s.superuser = superuser
}

// Clear resets the store to the unauthenticated state.
func (s *Store) Clear() {
	s.token = ""
	s.record = nil
	s.superuser = false
}

// Token returns the stored auth token, empty when unauthenticated.
func (s *Store) Token() string {
	return s.token
}

// Record returns the stored identity record, nil when unauthenticated.
func (s *Store) Record() pocketbase.Record {
	return s.record
}

// IsSuperuser reports whether the stored credentials belong to a superuser.
func (s *Store) IsSuperuser() bool {
	return s.superuser
}

// IsValid reports whether the store holds both a token and an identity
// record. A token-only store (seeded from configuration) is not considered
// valid even though requests will still carry the token.
func (s *Store) IsValid() bool {
	return s.token != "" && len(s.record) > 0
}
