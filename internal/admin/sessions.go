package admin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sessions keeps every admin session in memory, keyed by the id carried in
// the admin token. Writes against one session are serialised with Begin/End.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*Session
	idle  time.Duration
	now   func() time.Time
}

func NewSessions(idle time.Duration) *Sessions {
	return &Sessions{items: make(map[string]*Session), idle: idle, now: time.Now}
}

// New registers a fresh logged-out session.
func (m *Sessions) New() Session {
	s := NewSession(uuid.NewString())
	s.LastSeen = m.now()
	m.mu.Lock()
	m.items[s.ID] = &s
	m.mu.Unlock()
	return s
}

func (m *Sessions) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return Session{}, false
	}
	s.LastSeen = m.now()
	return *s, true
}

// Begin marks the session busy and returns its current state. It fails with
// ErrBusy while another Begin on the same session has not been ended.
func (m *Sessions) Begin(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[id]
	if !ok {
		return Session{}, ErrNotAuthenticated
	}
	if s.Busy {
		return Session{}, ErrBusy
	}
	s.Busy = true
	s.LastSeen = m.now()
	out := *s
	out.Busy = false
	return out, nil
}

// End stores the next state and clears the busy flag. A session deleted in
// the meantime stays deleted.
func (m *Sessions) End(next Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[next.ID]; !ok {
		return
	}
	next.Busy = false
	next.LastSeen = m.now()
	m.items[next.ID] = &next
}

func (m *Sessions) Delete(id string) {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
}

func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep drops sessions idle for longer than the configured period and
// returns how many were removed.
func (m *Sessions) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.items {
		if !s.Busy && s.LastSeen.Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n
}

// Run sweeps on every tick until ctx is done.
func (m *Sessions) Run(ctx context.Context, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Info("expired admin sessions", zap.Int("count", n))
			}
		}
	}
}
