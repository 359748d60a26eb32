// Package sessionstore is the caller-side session-state abstraction: an
// explicit token holder with change notification, meant to be injected into
// whatever UI or client layer consumes the gateway instead of living in a
// mutable global. Persistence beyond process memory stays the caller's
// concern.
package sessionstore

import (
	"net/http"
	"sync"
)

// Store holds the current session token. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	token string
	subs  []func(token string)
}

func New() *Store {
	return &Store{}
}

// Get returns the current token, or "" when logged out.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set stores a new token and notifies subscribers.
func (s *Store) Set(token string) {
	s.update(token)
}

// Clear discards the token. This is the whole of logout: sessions are
// stateless, so there is nothing to revoke server-side.
func (s *Store) Clear() {
	s.update("")
}

// Subscribe registers a callback invoked on every token change with the new
// value ("" on logout). Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) update(token string) {
	s.mu.Lock()
	s.token = token
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(token)
	}
}

// Transport is an http.RoundTripper that attaches the stored token as a
// bearer credential on every request that lacks one.
type Transport struct {
	Store *Store
	Base  http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	tok := t.Store.Get()
	if tok == "" || req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	// Per RoundTripper contract the request must not be mutated in place.
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+tok)
	return base.RoundTrip(clone)
}
