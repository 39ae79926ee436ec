// Package session owns the authenticated identity of the console: the bearer
// token, its decoded claims, the mandatory-2FA grace flag, and the
// subscribe/notify fan-out that drives navigation.
package session

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/athena-gateway/console/scope"
)

const tokenKey = "token"

// Snapshot is an immutable view of the session state as of one mutation.
type Snapshot struct {
	Token         string
	Claims        *Claims
	GraceRequired bool
}

// Authenticated reports whether a bearer token is held. A malformed token
// still counts: the server is the authority on whether it is usable.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Admin reports whether the decoded claims mark the user as a global admin.
// False whenever claims are absent, including for malformed tokens.
func (s Snapshot) Admin() bool {
	return s.Claims != nil && s.Claims.IsAdmin
}

// Grace reports whether the session was issued with a pending mandatory 2FA
// enrollment. Grace implies Authenticated.
func (s Snapshot) Grace() bool {
	return s.Authenticated() && s.GraceRequired
}

func (s Snapshot) UserID() string {
	if s.Claims == nil {
		return ""
	}
	return s.Claims.UserID
}

// Extras carries the non-token fields of a login or OTP-verify response that
// feed the session and scope stores.
type Extras struct {
	ProjectID             string
	Force2FASetupRequired bool
}

// Listener receives the new snapshot after every mutation, synchronously and
// in registration order. Snapshots from concurrent mutations arrive in the
// order the mutations were applied.
type Listener func(Snapshot)

// Store is the session container. Mutations write through to durable storage
// and notify subscribers. notifyMu is held across a mutation and its fan-out
// so a later mutation cannot deliver its snapshot before an earlier one; mu
// guards the state fields only and is free while listeners run, so a listener
// may read State but must not mutate the store.
type Store struct {
	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     Snapshot
	listeners []*listenerEntry
	storage   Storage
	scopes    *scope.Store
}

type listenerEntry struct {
	fn Listener
}

// New creates a Store bound to the given durable storage and scope store.
// A token persisted by a previous run is loaded immediately; its claims are
// recomputed from the token, so the grace flag does not survive a restart.
func New(storage Storage, scopes *scope.Store) *Store {
	s := &Store{storage: storage, scopes: scopes}
	if token, ok := storage.Get(tokenKey); ok && token != "" {
		s.state.Token = token
		s.state.Claims = decodeOrNil(token)
	}
	return s
}

// Set stores the token, decodes its claims, applies the login extras and
// notifies subscribers. A malformed token is kept (the session counts as
// authenticated) with absent claims; decoding never panics or fails the call.
func (s *Store) Set(token string, extras Extras) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Snapshot{
		Token:         token,
		Claims:        decodeOrNil(token),
		GraceRequired: extras.Force2FASetupRequired,
	}
	if err := s.storage.Set(tokenKey, token); err != nil {
		log.Err(err).Msg("persisting session token")
	}
	s.scopes.Set(extras.ProjectID)
	snapshot, fns := s.state, s.listenerFns()
	s.mu.Unlock()

	notify(fns, snapshot)
}

// Clear erases the session, the persisted token and the active scope, then
// notifies subscribers. Clearing an already-clear store is a no-op that still
// notifies.
func (s *Store) Clear() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Snapshot{}
	if err := s.storage.Remove(tokenKey); err != nil {
		log.Err(err).Msg("removing persisted session token")
	}
	s.scopes.Set(scope.None)
	snapshot, fns := s.state, s.listenerFns()
	s.mu.Unlock()

	notify(fns, snapshot)
}

// State returns the current snapshot.
func (s *Store) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Authenticated() bool { return s.State().Authenticated() }
func (s *Store) Admin() bool         { return s.State().Admin() }
func (s *Store) Grace() bool         { return s.State().Grace() }

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &listenerEntry{fn: fn}
	s.listeners = append(s.listeners, entry)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, e := range s.listeners {
			if e == entry {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) listenerFns() []Listener {
	fns := make([]Listener, len(s.listeners))
	for i, e := range s.listeners {
		fns[i] = e.fn
	}
	return fns
}

func notify(fns []Listener, snapshot Snapshot) {
	for _, fn := range fns {
		fn(snapshot)
	}
}

func decodeOrNil(token string) *Claims {
	claims, err := DecodeClaims(token)
	if err != nil {
		log.Warn().Err(err).Msg("token claims not decodable")
		return nil
	}
	return claims
}
