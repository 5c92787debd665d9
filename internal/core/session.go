package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ViewMode is the only state machine in the system: the table is either
// read-only or editing, toggled explicitly by the user.
type ViewMode int

const (
	ModeReadOnly ViewMode = iota
	ModeEditing
)

// Session is the explicit per-browser interactive state: the filter
// selection, the view mode, and the edit buffer while editing. Nothing
// here is shared between sessions or persisted across restarts.
type Session struct {
	ID        string
	Selection Selection
	Mode      ViewMode
	Edit      *EditSession // non-nil only while Mode == ModeEditing

	lastSeen time.Time
}

// StartEditing seeds an edit session from the given visible rows and
// switches the mode. A previous buffer, if any, is discarded.
func (s *Session) StartEditing(visible []Project, version uint64) {
	s.Edit = BeginEdit(visible, version)
	s.Mode = ModeEditing
}

// StopEditing leaves edit mode, silently discarding the buffer.
func (s *Session) StopEditing() {
	s.Edit = nil
	s.Mode = ModeReadOnly
}

// Manager owns the live sessions, keyed by cookie identifier.
// Idle sessions are swept periodically.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
}

// NewManager creates a session manager that expires sessions after the
// given idle duration and starts its sweep goroutine.
func NewManager(idle time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		idle:     idle,
	}
	go m.sweep()
	return m
}

// Get returns the session for id, refreshing its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = time.Now()
	}
	return s, ok
}

// Create registers a new session with a fresh identifier and a
// selection that shows everything.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		Selection: NewSelection(),
		Mode:      ModeReadOnly,
		lastSeen:  time.Now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweep removes idle sessions every minute.
func (m *Manager) sweep() {
	for {
		time.Sleep(time.Minute)
		m.mu.Lock()
		for id, s := range m.sessions {
			if time.Since(s.lastSeen) > m.idle {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}
