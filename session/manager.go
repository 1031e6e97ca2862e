package session

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"meetzzz-customizer/models"
	"meetzzz-customizer/render"
)

// ErrNotFound is returned for unknown or expired session IDs
var ErrNotFound = errors.New("session not found")

const (
	// DefaultMaxSessions limits concurrent sessions to bound surface memory
	DefaultMaxSessions = 500
	// DefaultMaxAge is how long an idle session is kept
	DefaultMaxAge = 30 * time.Minute
	// DefaultCanvasSize is the edge of the square render surface
	DefaultCanvasSize = 1000
)

// SurfaceFactory allocates a render surface of w x h
type SurfaceFactory func(w, h int) Surface

// Config configures a Manager
type Config struct {
	Tables      *models.OptionTables
	Compositor  *render.Compositor
	NewSurface  SurfaceFactory
	Width       int
	Height      int
	MaxSessions int
	MaxAge      time.Duration
}

// Manager handles active customizer sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      Config
}

// NewManager creates a session manager, filling unset limits with defaults
func NewManager(cfg Config) *Manager {
	if cfg.Width <= 0 {
		cfg.Width = DefaultCanvasSize
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultCanvasSize
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.Compositor == nil {
		cfg.Compositor = render.NewCompositor()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// Tables returns the option tables every session is built from
func (m *Manager) Tables() *models.OptionTables {
	return m.cfg.Tables
}

// Create starts a session with default state and composites its first frame
func (m *Manager) Create() (*Session, error) {
	id := uuid.New().String()
	s := newSession(id, m.cfg.Tables, m.cfg.Compositor, m.cfg.NewSurface(m.cfg.Width, m.cfg.Height))
	if err := s.Flush(); err != nil {
		s.close()
		return nil, fmt.Errorf("failed to render initial frame: %w", err)
	}

	// capacity check, eviction and insert share one critical section
	m.mu.Lock()
	expired, evicted := m.makeRoomLocked(time.Now())
	m.sessions[id] = s
	m.mu.Unlock()

	m.closeRemoved(expired, evicted)

	log.Printf("🎨 Session %s created (%dx%d)", s.shortID(), m.cfg.Width, m.cfg.Height)
	return s, nil
}

// Get returns a live session
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Delete ends a session and releases its surface
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.close()
	return nil
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes sessions idle for longer than MaxAge and returns how many were removed
func (m *Manager) CleanupExpired(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastAccessed()) > m.cfg.MaxAge {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		log.Printf("🧹 Cleaned up %d expired sessions", len(expired))
	}
	return len(expired)
}

// makeRoomLocked removes sessions until one more fits, dropping expired sessions first
// and then the least recently used ones. m.mu must be held.
func (m *Manager) makeRoomLocked(now time.Time) (expired, evicted []*Session) {
	if len(m.sessions) < m.cfg.MaxSessions {
		return nil, nil
	}

	for id, s := range m.sessions {
		if now.Sub(s.LastAccessed()) > m.cfg.MaxAge {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	if len(m.sessions) < m.cfg.MaxSessions {
		return expired, nil
	}

	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].LastAccessed().Before(all[j].LastAccessed())
	})
	for _, s := range all[:len(all)-m.cfg.MaxSessions+1] {
		delete(m.sessions, s.ID)
		evicted = append(evicted, s)
	}
	return expired, evicted
}

// closeRemoved releases sessions already taken out of the map
func (m *Manager) closeRemoved(expired, evicted []*Session) {
	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		log.Printf("🧹 Cleaned up %d expired sessions", len(expired))
	}
	for _, s := range evicted {
		log.Printf("⚠️  Session %s evicted (limit %d reached)", s.shortID(), m.cfg.MaxSessions)
		s.close()
	}
}

// RunCleanup removes expired sessions every interval until stop is closed
func (m *Manager) RunCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CleanupExpired(time.Now())
		case <-stop:
			return
		}
	}
}

// Close ends every session
func (m *Manager) Close() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
