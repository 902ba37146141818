// Package session owns the signed-in identity: the published session, its
// persistence across runs, its expiry timer, and the gate protected screens
// consult before opening.
package session

import (
	"github.com/naveenspark/stays/internal/state"
	"github.com/naveenspark/stays/pkg/domain"
)

// Store holds the current session, or nil when signed out. Only the Manager
// publishes; everything else reads through the derived views.
type Store struct {
	cell *state.Cell[*domain.Session]
}

// NewStore returns a signed-out store.
func NewStore() *Store {
	return &Store{cell: state.New[*domain.Session](nil)}
}

// Current returns the published session or nil. Callers must not modify it.
func (s *Store) Current() *domain.Session {
	return s.cell.Get()
}

// IsAuthenticated reports whether a session with a token is published.
func (s *Store) IsAuthenticated() bool {
	sess := s.cell.Get()
	return sess != nil && sess.Token != ""
}

// UserID returns the signed-in user's id, or "".
func (s *Store) UserID() string {
	if sess := s.cell.Get(); sess != nil {
		return sess.UserID
	}
	return ""
}

// Token returns the bearer token, or "".
func (s *Store) Token() string {
	if sess := s.cell.Get(); sess != nil {
		return sess.Token
	}
	return ""
}

// Subscribe delivers every later session change; nil means signed out.
func (s *Store) Subscribe() (<-chan *domain.Session, func()) {
	return s.cell.Subscribe()
}

func (s *Store) publish(sess *domain.Session) {
	s.cell.Set(sess)
}
