package session

import (
	"sync"
	"time"

	"telegram-prompt-bot/internal/domain/model"
	"telegram-prompt-bot/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

type entry struct {
	session model.Session
	busy    bool
}

// MemoryStore is the process-wide session map. A single mutex guards all
// mutations so Mark is an atomic test-and-set: for a given chat at most one
// prompt can be in flight at a time.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[int64]*entry)}
}

func (m *MemoryStore) get(chatID int64) *entry {
	e, ok := m.entries[chatID]
	if !ok {
		e = &entry{session: *model.NewSession(chatID)}
		m.entries[chatID] = e
	}
	return e
}

func (m *MemoryStore) GetOrCreate(chatID int64) model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(chatID).session
}

func (m *MemoryStore) Update(chatID int64, fn func(*model.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.get(chatID)
	fn(&e.session)
	e.session.Touch()
}

func (m *MemoryStore) Mark(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.get(chatID)
	if e.busy {
		return false
	}
	e.busy = true
	e.session.Touch()
	return true
}

func (m *MemoryStore) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[chatID]; ok {
		e.busy = false
		e.session.Touch()
	}
}

func (m *MemoryStore) Busy(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[chatID]
	return ok && e.busy
}

func (m *MemoryStore) Sweep(idleBefore time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, e := range m.entries {
		if e.busy {
			continue
		}
		if e.session.LastActivity.Before(idleBefore) {
			delete(m.entries, id)
			evicted++
		}
	}
	return evicted
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
