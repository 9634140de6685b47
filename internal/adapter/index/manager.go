package index

import (
	"sync"
)

// Manager owns the process-wide snapshot reference. Resolve compares
// the persisted version counter against the held snapshot and reloads
// when ingestion has committed something newer, so a query never sees
// an index older than the last successful save. Snapshots are swapped
// wholesale; readers keep whatever reference they resolved.
type Manager struct {
	dir string

	mu          sync.RWMutex
	snapshot    *Snapshot
	forceReload bool
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Resolve returns the freshest snapshot, reloading from disk if the
// persisted version differs from the held one or a reload was forced.
// The second return value reports whether a reload happened, so callers
// can invalidate caches keyed on index identity.
func (m *Manager) Resolve() (*Snapshot, bool, error) {
	persisted, err := ReadVersion(m.dir)
	if err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	current := m.snapshot
	force := m.forceReload
	m.mu.RUnlock()

	if current != nil && !force && current.Version() == persisted {
		return current, false, nil
	}

	loaded, err := Load(m.dir)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	m.snapshot = loaded
	m.forceReload = false
	m.mu.Unlock()

	return loaded, true, nil
}

// Publish installs a snapshot that was just saved by ingestion, sparing
// the next query a reload.
func (m *Manager) Publish(s *Snapshot) {
	m.mu.Lock()
	m.snapshot = s
	m.forceReload = false
	m.mu.Unlock()
}

// ForceReload makes the next Resolve go back to disk regardless of the
// version counter.
func (m *Manager) ForceReload() {
	m.mu.Lock()
	m.forceReload = true
	m.mu.Unlock()
}

// Current returns the held snapshot without touching disk; nil if
// nothing has been resolved yet.
func (m *Manager) Current() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
