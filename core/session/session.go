package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/role"
)

var nowFunc = time.Now // mockable

// DefaultIdleTimeout is how long a visible session may stay inactive before
// it is force-expired.
const DefaultIdleTimeout = 15 * time.Minute

type (
	// Session is the authenticated context of a single client tab. It is
	// exclusively owned by that tab: sessions are never shared or synchronized
	// across tabs, each one independently expires on its own.
	Session struct {
		ID           uuid.UUID
		UserID       int
		Username     string
		Email        string
		Role         role.Role
		StartedAt    time.Time
		LastActivity time.Time
		Hidden       bool
	}

	// Navigator is the single routing capability the manager needs: it forces
	// the wiped client back to the login entry point.
	Navigator interface {
		RedirectToLogin(sessionID uuid.UUID)
	}

	// Manager owns all live sessions and their idle watchdog. A session ends
	// on explicit logout or after the idle timeout elapses while visible, and
	// both perform the same irreversible wipe: the session is removed, the
	// token it backs becomes invalid, and the navigator is invoked once.
	// The only way back is a fresh login.
	Manager struct {
		mu          sync.Mutex
		idleTimeout time.Duration
		sessions    map[uuid.UUID]*Session
		nav         Navigator
	}
)

func NewManager(idleTimeout time.Duration, nav Navigator) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		idleTimeout: idleTimeout,
		sessions:    make(map[uuid.UUID]*Session),
		nav:         nav,
	}
}

// Start creates a session on successful login.
func (m *Manager) Start(userID int, username, email string, r role.Role) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := nowFunc().UTC()
	s := &Session{
		ID:           uuid.New(),
		UserID:       userID,
		Username:     username,
		Email:        email,
		Role:         r,
		StartedAt:    now,
		LastActivity: now,
	}
	m.sessions[s.ID] = s
	return *s
}

// Get returns the session when it is still alive. An idle-expired session is
// wiped on the spot and reported as gone; expiry is never an error, the
// caller just redirects.
func (m *Manager) Get(id uuid.UUID) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if m.expired(s, nowFunc().UTC()) {
		m.wipe(s)
		return Session{}, false
	}
	return *s, true
}

// Touch resets the idle countdown on a tracked activity event. Activity on a
// hidden tab is ignored: the countdown is suspended while hidden and only a
// Show restarts it. Touch reports whether the session is still alive.
func (m *Manager) Touch(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	now := nowFunc().UTC()
	if m.expired(s, now) {
		m.wipe(s)
		return false
	}
	if !s.Hidden {
		s.LastActivity = now
	}
	return true
}

// Hide suspends the idle countdown: time spent hidden never counts toward
// expiry.
func (m *Manager) Hide(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	if m.expired(s, nowFunc().UTC()) {
		m.wipe(s)
		return false
	}
	s.Hidden = true
	return true
}

// Show restarts a full countdown from the moment of visibility. It does not
// resume the partial countdown from before the tab was hidden; that is a
// deliberate simplification, not a bug.
func (m *Manager) Show(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Hidden = false
	s.LastActivity = nowFunc().UTC()
	return true
}

// Logout ends the session explicitly. Same wipe as expiry; no inverse.
func (m *Manager) Logout(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		m.wipe(s)
	}
}

// Sweep expires every visible session whose idle timeout has elapsed.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := nowFunc().UTC()
	for _, s := range m.sessions {
		if m.expired(s, now) {
			m.wipe(s)
		}
	}
}

// RunSweeper periodically sweeps until ctx is cancelled. Cancelling the
// context fully stops the watchdog; no timer outlives the authenticated
// contexts it guards.
func (m *Manager) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// expired: a hidden session never expires; a visible one expires once the
// idle timeout has elapsed since its last activity.
func (m *Manager) expired(s *Session, now time.Time) bool {
	if s.Hidden {
		return false
	}
	return now.Sub(s.LastActivity) >= m.idleTimeout
}

// wipe removes the session and redirects exactly once. Callers hold m.mu.
func (m *Manager) wipe(s *Session) {
	delete(m.sessions, s.ID)
	if m.nav != nil {
		m.nav.RedirectToLogin(s.ID)
	}
}
