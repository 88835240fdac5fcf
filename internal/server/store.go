package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/johnmiko/crib-back/internal/opponent"
	"github.com/johnmiko/crib-back/internal/randutil"
)

// Store holds the live sessions keyed by game id and expires the ones
// nobody has touched within the idle TTL. The clock is injectable so tests
// can drive the sweeper.
type Store struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	lastActive map[string]time.Time

	clock  quartz.Clock
	ttl    time.Duration
	logger *log.Logger
}

// NewStore creates a session store. A zero TTL disables expiry.
func NewStore(clock quartz.Clock, ttl time.Duration, logger *log.Logger) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		lastActive: make(map[string]time.Time),
		clock:      clock,
		ttl:        ttl,
		logger:     logger.WithPrefix("store"),
	}
}

// Create builds a session against the named opponent under a fresh game id.
func (st *Store) Create(opponentName string, opts ...SessionOption) (*Session, error) {
	computer, err := opponent.New(opponentName, opponent.Options{
		RNG: randutil.New(st.clock.Now().UnixNano()),
	})
	if err != nil {
		return nil, err
	}

	session := NewSession(uuid.NewString(), opponentName, computer, opts...)

	st.mu.Lock()
	st.sessions[session.ID()] = session
	st.lastActive[session.ID()] = st.clock.Now()
	st.mu.Unlock()

	st.logger.Info("session created", "game_id", session.ID(), "opponent", opponentName)
	return session, nil
}

// Get returns the session for a game id and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	session, ok := st.sessions[id]
	if ok {
		st.lastActive[id] = st.clock.Now()
	}
	return session, ok
}

// Delete removes a session, reporting whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	delete(st.lastActive, id)
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// StartSweeper expires idle sessions on the given interval until the
// context is canceled. It does nothing when expiry is disabled.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	if st.ttl <= 0 {
		return
	}
	st.clock.TickerFunc(ctx, interval, func() error {
		st.sweep()
		return nil
	}, "session-sweeper")
}

func (st *Store) sweep() {
	cutoff := st.clock.Now().Add(-st.ttl)

	st.mu.Lock()
	var expired []string
	for id, touched := range st.lastActive {
		if touched.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(st.sessions, id)
		delete(st.lastActive, id)
	}
	remaining := len(st.sessions)
	st.mu.Unlock()

	if len(expired) > 0 {
		st.logger.Info("expired idle sessions", "count", len(expired), "remaining", remaining)
	}
}
