package session

import (
	"context"

	"go.uber.org/zap"
)

// Gate decides whether a protected screen may open: it allows a signed-in
// user and otherwise tries to restore the persisted session. It is a
// navigation rule, not an authorization check.
type Gate struct {
	store   *Store
	manager *Manager
	log     *zap.Logger
}

// NewGate returns a gate over store, restoring through manager.
func NewGate(store *Store, manager *Manager, log *zap.Logger) *Gate {
	return &Gate{store: store, manager: manager, log: log.Named("gate")}
}

// Allow reports whether navigation may proceed. False means the caller
// should send the user to sign in.
func (g *Gate) Allow(ctx context.Context) bool {
	if g.store.IsAuthenticated() {
		return true
	}
	ok, err := g.manager.AutoLogin(ctx)
	if err != nil {
		g.log.Warn("restore session failed", zap.Error(err))
		return false
	}
	return ok
}
