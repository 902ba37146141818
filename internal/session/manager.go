package session

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/naveenspark/stays/internal/storage"
	"github.com/naveenspark/stays/pkg/domain"
)

// AuthAPI is the identity service the manager signs in against.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthResponse, error)
}

// Manager creates, restores, expires and ends sessions.
type Manager struct {
	auth  AuthAPI
	store *Store
	kv    storage.KV
	clock clockwork.Clock
	log   *zap.Logger

	mu    sync.Mutex
	timer clockwork.Timer
	// armed counts timer arms. A firing timer only logs out if no newer
	// arm or logout happened since it was scheduled.
	armed uint64
}

// NewManager wires a manager publishing to store and persisting to kv.
func NewManager(auth AuthAPI, store *Store, kv storage.KV, clock clockwork.Clock, log *zap.Logger) *Manager {
	return &Manager{
		auth:  auth,
		store: store,
		kv:    kv,
		clock: clock,
		log:   log.Named("session"),
	}
}

// Login signs in with email and password and publishes the new session.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("session.Login: %w", err)
	}
	sess, err := m.begin(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("session.Login: %w", err)
	}
	return sess, nil
}

// Signup creates an account and publishes its session.
func (m *Manager) Signup(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("session.Signup: %w", err)
	}
	sess, err := m.begin(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("session.Signup: %w", err)
	}
	return sess, nil
}

// begin turns an identity response into the published, persisted session.
func (m *Manager) begin(ctx context.Context, resp *domain.AuthResponse) (*domain.Session, error) {
	seconds, err := strconv.ParseInt(resp.ExpiresIn, 10, 64)
	if err != nil || seconds <= 0 || seconds > math.MaxInt64/int64(time.Second) {
		return nil, fmt.Errorf("invalid expiresIn %q", resp.ExpiresIn)
	}
	sess := &domain.Session{
		UserID:    resp.LocalID,
		Email:     resp.Email,
		Token:     resp.IDToken,
		ExpiresAt: m.clock.Now().Add(time.Duration(seconds) * time.Second),
	}
	m.activate(sess)

	raw, err := encodeRecord(sess)
	if err == nil {
		err = m.kv.Set(ctx, recordKey, raw)
	}
	if err != nil {
		// The in-memory session stays valid; only the next start loses it.
		m.log.Warn("persist session failed", zap.String("user_id", sess.UserID), zap.Error(err))
	}
	return sess, nil
}

// AutoLogin restores the persisted session. It reports false, with no
// error, when there is no record or the record has expired.
func (m *Manager) AutoLogin(ctx context.Context) (bool, error) {
	raw, ok, err := m.kv.Get(ctx, recordKey)
	if err != nil {
		return false, fmt.Errorf("session.AutoLogin: %w", err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	sess, err := decodeRecord(raw)
	if err != nil {
		m.log.Warn("discarding unreadable session record", zap.Error(err))
		m.discardRecord(ctx)
		return false, nil
	}
	if sess.Expired(m.clock.Now()) {
		m.log.Info("stored session expired", zap.String("user_id", sess.UserID), zap.Time("expired_at", sess.ExpiresAt))
		m.discardRecord(ctx)
		return false, nil
	}
	m.activate(sess)
	return true, nil
}

// Logout cancels the expiry timer, clears the published session and
// deletes the persisted record. Safe to call when already signed out.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.disarmLocked()
	m.mu.Unlock()
	return m.clear(ctx)
}

func (m *Manager) clear(ctx context.Context) error {
	prev := m.store.Current()
	m.store.publish(nil)
	if err := m.kv.Remove(ctx, recordKey); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	if prev != nil {
		m.log.Info("logged out", zap.String("user_id", prev.UserID))
	}
	return nil
}

// Close stops the expiry timer without ending the session, so it can be
// restored on the next start.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disarmLocked()
}

// activate publishes sess and arms the timer for its remaining lifetime.
func (m *Manager) activate(sess *domain.Session) {
	m.store.publish(sess)
	m.arm(sess.Remaining(m.clock.Now()))
	m.log.Info("session published",
		zap.String("user_id", sess.UserID),
		zap.Time("expires_at", sess.ExpiresAt))
}

// arm schedules a logout after d, replacing any pending one.
func (m *Manager) arm(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disarmLocked()
	gen := m.armed
	m.timer = m.clock.AfterFunc(d, func() { m.expire(gen) })
}

func (m *Manager) disarmLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.armed++
}

func (m *Manager) expire(gen uint64) {
	m.mu.Lock()
	if gen != m.armed {
		m.mu.Unlock()
		return
	}
	// The timer has fired; drop it without calling back into the clock.
	m.timer = nil
	m.armed++
	m.mu.Unlock()

	m.log.Info("session expired", zap.String("user_id", m.store.UserID()))
	if err := m.clear(context.Background()); err != nil {
		m.log.Error("logout on expiry failed", zap.Error(err))
	}
}

func (m *Manager) discardRecord(ctx context.Context) {
	if err := m.kv.Remove(ctx, recordKey); err != nil {
		m.log.Warn("remove session record failed", zap.Error(err))
	}
}
