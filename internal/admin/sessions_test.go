package admin

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionsBusyGuard(t *testing.T) {
	m := NewSessions(time.Hour)
	s := m.New()

	got, err := m.Begin(s.ID)
	require.NoError(t, err)
	_, err = m.Begin(s.ID)
	assert.ErrorIs(t, err, ErrBusy)

	got.LoggedIn = true
	m.End(got)
	stored, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.True(t, stored.LoggedIn)
	assert.False(t, stored.Busy)

	_, err = m.Begin("missing")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSessionsConcurrentBegin(t *testing.T) {
	m := NewSessions(time.Hour)
	s := m.New()

	var won, busy atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Begin(s.ID); err == nil {
				won.Add(1)
			} else {
				busy.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, won.Load())
	assert.EqualValues(t, 15, busy.Load())
}

func TestSessionsEndAfterDelete(t *testing.T) {
	m := NewSessions(time.Hour)
	s := m.New()
	got, err := m.Begin(s.ID)
	require.NoError(t, err)
	m.Delete(s.ID)
	m.End(got)
	_, ok := m.Get(s.ID)
	assert.False(t, ok)
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewSessions(time.Hour)
	m.now = func() time.Time { return now }
	old := m.New()
	held := m.New()
	_, err := m.Begin(held.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	fresh := m.New()
	assert.Equal(t, 1, m.Sweep())

	_, ok := m.Get(old.ID)
	assert.False(t, ok)
	_, ok = m.Get(held.ID)
	assert.True(t, ok)
	_, ok = m.Get(fresh.ID)
	assert.True(t, ok)
}

func TestSessionsRunStops(t *testing.T) {
	m := NewSessions(time.Millisecond)
	m.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond, zap.NewNop())
		close(done)
	}()
	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
