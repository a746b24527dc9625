// Package session owns the process-wide authentication state: a single
// session cell that consumers read synchronously and observe through
// subscriptions. Credential validation is fully delegated to an
// Authenticator collaborator; this package only relays results and keeps
// the shared value consistent.
package session

import (
	"context"
	"sync"
)

// Session is the current authenticated identity or its absence. Loading is
// true only between process start and the first resolution of session
// state; thereafter it is always false.
type Session struct {
	UserID  string
	Email   string
	Loading bool
}

func (s Session) Authenticated() bool {
	return !s.Loading && s.UserID != ""
}

// Identity is what the auth collaborator reports on success.
type Identity struct {
	UserID string
	Email  string
}

// Authenticator is the external auth collaborator.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	SignUp(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email, redirectTo string) error
}

// Store holds the single session value. It is the only writer; consumers
// hold a read-only view via Current and Subscribe.
type Store struct {
	auth Authenticator

	mu        sync.RWMutex
	current   Session
	listeners map[int]func(Session)
	nextID    int
}

func NewStore(auth Authenticator) *Store {
	return &Store{
		auth:      auth,
		current:   Session{Loading: true},
		listeners: make(map[int]func(Session)),
	}
}

// Current returns the last-known session value without blocking.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers a listener invoked on every session change. The
// returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Resolve commits the initial session state: the restored identity, or nil
// for a definitive "signed out". It ends the loading interval.
func (s *Store) Resolve(identity *Identity) {
	if identity == nil {
		s.set(Session{})
		return
	}
	s.set(Session{UserID: identity.UserID, Email: identity.Email})
}

func (s *Store) SignIn(ctx context.Context, email, password string) error {
	identity, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.set(Session{UserID: identity.UserID, Email: identity.Email})
	return nil
}

func (s *Store) SignUp(ctx context.Context, email, password string) error {
	identity, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	s.set(Session{UserID: identity.UserID, Email: identity.Email})
	return nil
}

// SignOut clears the local session once the collaborator acknowledges.
// After a nil return the store never reports a signed-in identity.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return err
	}
	s.set(Session{})
	return nil
}

func (s *Store) ResetPassword(ctx context.Context, email, redirectTo string) error {
	return s.auth.ResetPassword(ctx, email, redirectTo)
}

func (s *Store) set(next Session) {
	s.mu.Lock()
	s.current = next
	notify := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	// notify outside the lock so listeners may read or resubscribe
	for _, fn := range notify {
		fn(next)
	}
}
