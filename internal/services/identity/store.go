package identity

import (
	"context"
	"sync"
)

// SessionChange is a session-changed notification. A nil Session means
// the provider no longer holds a session (sign-out or expiry).
type SessionChange struct {
	Session *Session
}

// Store holds the provider's current session and emits a session-changed
// notification whenever it moves. Notifications are delivered on a single
// channel in the order the changes happened; consumers must not assume
// coalescing.
type Store struct {
	provider Provider

	mu      sync.Mutex
	session *Session
	changes chan SessionChange
}

// NewStore creates a session store over the given provider
func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		changes:  make(chan SessionChange, 32),
	}
}

// Changes returns the session-changed notification channel
func (s *Store) Changes() <-chan SessionChange {
	return s.changes
}

// CurrentSession returns the session currently held, or nil
func (s *Store) CurrentSession(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, nil
}

// SignUp creates a new identity via the provider and adopts its session
func (s *Store) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	session, err := s.provider.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	s.adopt(session)
	return session, nil
}

// SignIn authenticates via the provider and adopts the resulting session
func (s *Store) SignIn(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.adopt(session)
	return session, nil
}

// SignOut invalidates the provider-side session. The local session is
// cleared and a nil-session change emitted regardless of the provider's
// outcome; the provider error is returned for logging only.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.session = nil
	s.mu.Unlock()

	s.emit(SessionChange{})

	if session == nil || session.Token == nil {
		return nil
	}
	return s.provider.SignOut(ctx, session.Token.AccessToken)
}

// Refresh re-validates the held session against the provider and emits a
// change reflecting the outcome. Used when an externally refreshed token
// is handed back to this process.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	if session == nil || session.Token == nil {
		s.emit(SessionChange{})
		return nil
	}

	ident, err := s.provider.GetUser(ctx, session.Token.AccessToken)
	if err != nil {
		s.mu.Lock()
		s.session = nil
		s.mu.Unlock()
		s.emit(SessionChange{})
		return err
	}

	s.mu.Lock()
	s.session = &Session{Token: session.Token, Identity: *ident}
	refreshed := s.session
	s.mu.Unlock()

	s.emit(SessionChange{Session: refreshed})
	return nil
}

func (s *Store) adopt(session *Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	s.emit(SessionChange{Session: session})
}

func (s *Store) emit(change SessionChange) {
	// Ordered delivery matters more than never blocking; the channel is
	// buffered well beyond any realistic burst of auth activity.
	s.changes <- change
}
