package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/electroride/configurator/internal/configstore"
	"github.com/electroride/configurator/internal/models"
	"github.com/electroride/configurator/internal/observability"
)

// DefaultMaxSessions limits concurrent sessions when the caller passes no limit.
const DefaultMaxSessions = 1000

// SessionKeepAliveWindow is how long a session counts as in use after its last access.
const SessionKeepAliveWindow = 5 * time.Minute

// Errors returned by Manager lookups and the login gate.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrLocked             = errors.New("session is locked, log in first")
	ErrMissingCredentials = errors.New("missing required credentials")
)

// Manager handles active configurator sessions.
type Manager struct {
	sessions    map[string]*State
	mu          sync.RWMutex
	maxSessions int
	logger      *zap.Logger
	now         func() time.Time
}

// State holds the session metadata and the configuration store it owns.
type State struct {
	mu      sync.Mutex
	session models.Session
	store   *configstore.Store
	done    chan struct{}
}

// Store returns the session's configuration store.
func (s *State) Store() *configstore.Store { return s.store }

// Done is closed when the session is deleted or expires.
func (s *State) Done() <-chan struct{} { return s.done }

// Info returns the public view of the session.
func (s *State) Info() models.Session {
	s.mu.Lock()
	info := s.session
	s.mu.Unlock()
	info.Revision = s.store.Revision()
	return info
}

func (s *State) lastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.LastAccessed
}

// NewManager creates a session manager. A nil logger disables logging.
func NewManager(logger *zap.Logger, maxSessions int) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*State),
		maxSessions: maxSessions,
		logger:      logger.Named("sessions"),
		now:         time.Now,
	}
}

// Create starts a locked session whose configuration is at the defaults.
func (m *Manager) Create() models.Session {
	now := m.now()
	state := &State{
		session: models.Session{
			ID:           uuid.New().String(),
			Status:       models.SessionStatusLocked,
			CreatedAt:    now,
			LastAccessed: now,
		},
		store: configstore.NewDefault(),
		done:  make(chan struct{}),
	}

	m.mu.Lock()
	if len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}
	m.sessions[state.session.ID] = state
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", state.session.ID), zap.Int("sessions", count))
	return state.Info()
}

// evictOldestLocked drops the least recently accessed session. m.mu must be held.
func (m *Manager) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, state := range m.sessions {
		if last := state.lastAccessed(); oldestID == "" || last.Before(oldest) {
			oldestID, oldest = id, last
		}
	}
	if oldestID == "" {
		return
	}
	m.removeLocked(oldestID)
	m.logger.Warn("session evicted at capacity", zap.String("session_id", oldestID), zap.Int("max_sessions", m.maxSessions))
}

func (m *Manager) removeLocked(id string) {
	if state, ok := m.sessions[id]; ok {
		close(state.done)
		delete(m.sessions, id)
	}
}

// Get returns a session by ID without touching it.
func (m *Manager) Get(id string) (models.Session, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return models.Session{}, false
	}
	return state.Info(), true
}

// Configurator returns the state of an unlocked session and marks it as used.
func (m *Manager) Configurator(id string) (*State, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if state.session.Status != models.SessionStatusUnlocked {
		return nil, ErrLocked
	}
	state.session.LastAccessed = m.now()
	return state, nil
}

// Login unlocks the session. Any email and password are accepted; only the
// presence of both is checked.
func (m *Manager) Login(id string, creds models.Credentials) (models.Session, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return models.Session{}, ErrMissingCredentials
	}
	return m.unlock(id, creds.Email, "login")
}

// Signup unlocks the session like Login but also requires a username.
func (m *Manager) Signup(id string, creds models.Credentials) (models.Session, error) {
	if strings.TrimSpace(creds.Username) == "" {
		return models.Session{}, ErrMissingCredentials
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return models.Session{}, ErrMissingCredentials
	}
	return m.unlock(id, creds.Email, "signup")
}

func (m *Manager) unlock(id, user, via string) (models.Session, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}

	state.mu.Lock()
	state.session.Status = models.SessionStatusUnlocked
	state.session.User = strings.TrimSpace(user)
	state.session.LastAccessed = m.now()
	state.mu.Unlock()

	m.logger.Info("session unlocked", zap.String("session_id", id), zap.String("via", via))
	return state.Info(), nil
}

// Touch updates the LastAccessed timestamp for a session.
func (m *Manager) Touch(id string) bool {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	state.mu.Lock()
	state.session.LastAccessed = m.now()
	state.mu.Unlock()
	return true
}

// Delete removes a session and closes its Done channel.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	m.removeLocked(id)
	m.logger.Info("session deleted", zap.String("session_id", id))
	return true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupOldSessions removes sessions idle for longer than maxAge, but never
// one accessed within SessionKeepAliveWindow. It returns how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	start := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-SessionKeepAliveWindow)

	removed := 0
	for id, state := range m.sessions {
		last := state.lastAccessed()
		if last.After(keepAliveCutoff) || !last.Before(cutoff) {
			continue
		}
		m.removeLocked(id)
		removed++
		m.logger.Debug("session expired", zap.String("session_id", id), zap.Duration("idle", now.Sub(last)))
	}
	if removed > 0 {
		m.logger.Info("cleaned up idle sessions", zap.Int("removed", removed), zap.Int("remaining", len(m.sessions)), observability.Since(start))
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupOldSessions(maxAge)
		}
	}
}
