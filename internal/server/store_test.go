package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore(quartz.NewReal(), 0, discardLogger())

	session, err := store.Create("random")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID())

	got, ok := store.Get(session.ID())
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get("no-such-game")
	assert.False(t, ok)
}

func TestStoreCreateUnknownOpponent(t *testing.T) {
	store := NewStore(quartz.NewReal(), 0, discardLogger())
	_, err := store.Create("chess-engine")
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(quartz.NewReal(), 0, discardLogger())
	session, err := store.Create("random")
	require.NoError(t, err)

	assert.True(t, store.Delete(session.ID()))
	assert.False(t, store.Delete(session.ID()))
	assert.Equal(t, 0, store.Len())
}

func TestStoreSweepExpiresIdleSessions(t *testing.T) {
	mock := quartz.NewMock(t)
	store := NewStore(mock, time.Hour, discardLogger())

	stale, err := store.Create("random")
	require.NoError(t, err)

	mock.Advance(2 * time.Hour)

	fresh, err := store.Create("random")
	require.NoError(t, err)

	store.sweep()

	_, ok := store.Get(stale.ID())
	assert.False(t, ok, "idle session should be gone")
	_, ok = store.Get(fresh.ID())
	assert.True(t, ok, "active session should survive")
	assert.Equal(t, 1, store.Len())
}

func TestStoreGetRefreshesIdleTimer(t *testing.T) {
	mock := quartz.NewMock(t)
	store := NewStore(mock, time.Hour, discardLogger())

	session, err := store.Create("random")
	require.NoError(t, err)

	// Touch the session half way through its TTL; it must then survive a
	// sweep that would otherwise have expired it.
	mock.Advance(45 * time.Minute)
	_, ok := store.Get(session.ID())
	require.True(t, ok)

	mock.Advance(45 * time.Minute)
	store.sweep()

	_, ok = store.Get(session.ID())
	assert.True(t, ok)
}

func TestStoreSweeperRunsOnTicker(t *testing.T) {
	mock := quartz.NewMock(t)
	store := NewStore(mock, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trap := mock.Trap().TickerFunc("session-sweeper")
	defer trap.Close()

	go store.StartSweeper(ctx, time.Minute)
	call := trap.MustWait(ctx)
	require.NoError(t, call.Release(ctx))
	assert.Equal(t, time.Minute, call.Duration)

	_, err := store.Create("random")
	require.NoError(t, err)

	// 61 one-minute ticks push the session past its one hour TTL.
	for i := 0; i < 61; i++ {
		mock.Advance(time.Minute).MustWait(ctx)
	}
	assert.Equal(t, 0, store.Len())
}
