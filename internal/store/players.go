package store

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/antakshari/internal/game"
)

// Players is an in-memory game.PlayerStore keyed by name.
type Players struct {
	mu      sync.RWMutex
	players map[string]game.PlayerRecord
}

// NewPlayers constructs an empty player store.
func NewPlayers() *Players {
	return &Players{players: make(map[string]game.PlayerRecord)}
}

func (s *Players) FindByName(ctx context.Context, name string) (game.PlayerRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[name]
	return p, ok, nil
}

func (s *Players) Upsert(ctx context.Context, p game.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.Name] = p
	return nil
}

// TopN orders by score descending, then name ascending, and keeps n.
func (s *Players) TopN(ctx context.Context, n int) ([]game.PlayerRecord, error) {
	s.mu.RLock()
	out := make([]game.PlayerRecord, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
