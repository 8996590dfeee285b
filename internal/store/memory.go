// internal/store/memory.go
//
// In-memory implementations of the game store interfaces.
// Rounds always live here; dictionary and players live here when
// STORE_DRIVER=memory (development/testing, or when durability is not required).
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out, so callers never share state with the map.
//   - State is lost when the process restarts.
//   - Rounds idle for longer than the TTL are evicted on Save, and the map is
//     capped at MaxRounds by dropping the least recently updated round.
//     The default round is never evicted.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/antakshari/internal/game"
)

// Defaults for NewRounds.
const (
	DefaultRoundTTL  = time.Hour
	DefaultMaxRounds = 10000
)

// Rounds is a map-based game.RoundStore keyed by Round.ID.
type Rounds struct {
	mu     sync.RWMutex          // guards rounds map
	rounds map[string]game.Round // keyed by Round.ID

	ttl time.Duration // 0 disables expiry
	max int           // 0 disables the cap
	now func() time.Time
}

// RoundsOption customizes a Rounds store.
type RoundsOption func(*Rounds)

// WithRoundTTL evicts rounds whose UpdatedAt is older than ttl.
func WithRoundTTL(ttl time.Duration) RoundsOption {
	return func(m *Rounds) { m.ttl = ttl }
}

// WithMaxRounds caps the number of rounds held.
func WithMaxRounds(n int) RoundsOption {
	return func(m *Rounds) { m.max = n }
}

// WithRoundsClock replaces time.Now for expiry checks.
func WithRoundsClock(now func() time.Time) RoundsOption {
	return func(m *Rounds) { m.now = now }
}

// NewRounds constructs an empty round store.
func NewRounds(opts ...RoundsOption) *Rounds {
	m := &Rounds{
		rounds: make(map[string]game.Round),
		ttl:    DefaultRoundTTL,
		max:    DefaultMaxRounds,
		now:    time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Save adds or replaces the round, evicting expired rounds first.
func (m *Rounds) Save(ctx context.Context, r game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpired()
	if _, exists := m.rounds[r.ID]; !exists {
		for m.max > 0 && len(m.rounds) >= m.max {
			if !m.evictOldest() {
				break
			}
		}
	}
	m.rounds[r.ID] = r
	return nil
}

// Get looks up a round by ID.
// Returns game.ErrRoundNotFound if missing or expired.
func (m *Rounds) Get(ctx context.Context, id string) (game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok && !m.expired(r) {
		return r, nil
	}
	return game.Round{}, game.ErrRoundNotFound
}

// Len reports the number of rounds held.
func (m *Rounds) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rounds)
}

func (m *Rounds) expired(r game.Round) bool {
	if m.ttl <= 0 || r.ID == game.DefaultRoundID {
		return false
	}
	return m.now().Sub(r.UpdatedAt) > m.ttl
}

// evictExpired must be called with mu held.
func (m *Rounds) evictExpired() {
	if m.ttl <= 0 {
		return
	}
	for id, r := range m.rounds {
		if m.expired(r) {
			delete(m.rounds, id)
		}
	}
}

// evictOldest drops the least recently updated round other than the default
// one. It reports false when nothing could be dropped. mu must be held.
func (m *Rounds) evictOldest() bool {
	var (
		oldestID string
		oldest   time.Time
		found    bool
	)
	for id, r := range m.rounds {
		if id == game.DefaultRoundID {
			continue
		}
		if !found || r.UpdatedAt.Before(oldest) {
			oldestID, oldest, found = id, r.UpdatedAt, true
		}
	}
	if found {
		delete(m.rounds, oldestID)
	}
	return found
}
