package sessionstate

import (
	"sync"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
)

// entry pairs a State with the mutex that serializes turns against it.
// The mutex is acquired with TryLock (never blocking) because the
// transport's contract is to reject a concurrent turn with 409
// CONCURRENCY_CONFLICT rather than queue behind it (spec §5, §9).
type entry struct {
	mu    sync.Mutex
	state *State
}

// Manager is the in-memory map of session id to State, plus the
// per-session lock that keeps at most one agent turn in flight per
// session at a time. It has no cross-session sharing and is never
// persisted — a process restart loses it entirely, matching spec §9's
// "ephemeral per-session state" design note.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewManager returns an empty session state manager.
func NewManager() *Manager {
	return &Manager{entries: make(map[string]*entry)}
}

// Reset creates (or replaces) the State for sessionID, as done on
// POST /sessions. It returns the fresh State.
func (m *Manager) Reset(sessionID string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &entry{state: New()}
	m.entries[sessionID] = e
	return e.state
}

// Get returns the State for sessionID, if it exists.
func (m *Manager) Get(sessionID string) (*State, bool) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.state, true
}

// Delete removes sessionID's entry entirely.
func (m *Manager) Delete(sessionID string) {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
}

// TryLock attempts to acquire the per-session turn lock for sessionID,
// lazily creating the entry if the session predates the manager (e.g.
// after a restart, before persisted history has been replayed into a
// fresh State). It returns a release function on success, or a
// CONCURRENCY_CONFLICT *ideaerrors.Error if another turn already holds it.
func (m *Manager) TryLock(sessionID string) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[sessionID]
	if !ok {
		e = &entry{state: New()}
		m.entries[sessionID] = e
	}
	m.mu.Unlock()

	if !e.mu.TryLock() {
		return nil, ideaerrors.New(ideaerrors.CodeConcurrencyConflict, "a turn is already in progress for this session").
			WithSessionID(sessionID)
	}
	return e.mu.Unlock, nil
}
