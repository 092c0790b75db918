package state

import (
	"sync"
	"time"

	"github.com/youtube-chrono/chrono/internal/domain/playlist"
)

// Manager manages the view state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	phase     Phase
	input     string
	summary   *playlist.Summary
	errorKind playlist.Kind
	message   string
	updatedAt time.Time

	now func() time.Time
}

// New creates a new state manager in PhaseIdle.
func New() *Manager {
	return &Manager{phase: PhaseIdle, now: time.Now}
}

// Begin enters PhaseLoading for input. It returns false without changing
// anything while another run is loading.
func (m *Manager) Begin(input string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseLoading {
		return false
	}
	m.phase = PhaseLoading
	m.input = input
	m.updatedAt = m.now()
	return true
}

// Succeed leaves PhaseLoading with a summary that replaces any earlier one.
func (m *Manager) Succeed(summary *playlist.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseLoading {
		return
	}
	m.phase = PhaseSuccess
	m.summary = summary
	m.errorKind = playlist.KindNone
	m.message = ""
	m.updatedAt = m.now()
}

// Fail leaves PhaseLoading with a failure. The previous summary is cleared.
func (m *Manager) Fail(kind playlist.Kind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseLoading {
		return
	}
	m.phase = PhaseFailed
	m.summary = nil
	m.errorKind = kind
	m.message = message
	m.updatedAt = m.now()
}

// Reset returns to PhaseIdle unless a run is loading.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == PhaseLoading {
		return
	}
	m.phase = PhaseIdle
	m.input = ""
	m.summary = nil
	m.errorKind = playlist.KindNone
	m.message = ""
	m.updatedAt = m.now()
}

// GetPhase returns the current phase.
func (m *Manager) GetPhase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// IsLoading returns true while a run is in progress.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase == PhaseLoading
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Phase:     m.phase,
		Input:     m.input,
		Summary:   m.summary,
		ErrorKind: m.errorKind,
		Message:   m.message,
		UpdatedAt: m.updatedAt,
	}
}
