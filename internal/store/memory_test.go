package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/antakshari/internal/game"
)

func TestRounds_SaveGet(t *testing.T) {
	ctx := context.Background()
	rs := NewRounds()

	_, err := rs.Get(ctx, "nope")
	require.ErrorIs(t, err, game.ErrRoundNotFound)

	require.NoError(t, rs.Save(ctx, game.Round{ID: "a", CurrentWord: "tree", UpdatedAt: time.Now()}))
	r, err := rs.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "tree", r.CurrentWord)

	// Mutating a returned copy does not touch the store.
	r.CurrentWord = "egg"
	again, _ := rs.Get(ctx, "a")
	assert.Equal(t, "tree", again.CurrentWord)
	assert.Equal(t, 1, rs.Len())
}

func TestRounds_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	rs := NewRounds()

	var wg sync.WaitGroup
	for _, w := range []string{"echo", "oasis", "salad", "dream"} {
		wg.Add(1)
		go func(w string) {
			defer wg.Done()
			_ = rs.Save(ctx, game.Round{ID: game.DefaultRoundID, CurrentWord: w})
		}(w)
	}
	wg.Wait()

	r, err := rs.Get(ctx, game.DefaultRoundID)
	require.NoError(t, err)
	assert.Contains(t, []string{"echo", "oasis", "salad", "dream"}, r.CurrentWord)
}

func TestRounds_EvictsIdleRounds(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rs := NewRounds(WithRoundTTL(time.Minute), WithRoundsClock(func() time.Time { return now }))

	require.NoError(t, rs.Save(ctx, game.Round{ID: game.DefaultRoundID, CurrentWord: "tree", UpdatedAt: now}))
	require.NoError(t, rs.Save(ctx, game.Round{ID: "old", CurrentWord: "echo", UpdatedAt: now}))

	now = now.Add(2 * time.Minute)

	// Expired rounds are invisible before any sweep runs.
	_, err := rs.Get(ctx, "old")
	require.ErrorIs(t, err, game.ErrRoundNotFound)

	require.NoError(t, rs.Save(ctx, game.Round{ID: "new", CurrentWord: "oasis", UpdatedAt: now}))
	assert.Equal(t, 2, rs.Len())

	// The default round never expires.
	r, err := rs.Get(ctx, game.DefaultRoundID)
	require.NoError(t, err)
	assert.Equal(t, "tree", r.CurrentWord)
}

func TestRounds_CapDropsLeastRecentlyUpdated(t *testing.T) {
	ctx := context.Background()
	base := time.Now()
	rs := NewRounds(WithMaxRounds(3))

	require.NoError(t, rs.Save(ctx, game.Round{ID: game.DefaultRoundID, UpdatedAt: base.Add(-time.Minute)}))
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, rs.Save(ctx, game.Round{ID: id, UpdatedAt: base.Add(time.Duration(i) * time.Second)}))
	}
	assert.Equal(t, 3, rs.Len())

	for _, id := range []string{game.DefaultRoundID, "c", "d"} {
		_, err := rs.Get(ctx, id)
		assert.NoError(t, err, id)
	}
	for _, id := range []string{"a", "b"} {
		_, err := rs.Get(ctx, id)
		assert.ErrorIs(t, err, game.ErrRoundNotFound, id)
	}

	// Replacing an existing round does not evict anything.
	require.NoError(t, rs.Save(ctx, game.Round{ID: "c", UpdatedAt: base.Add(time.Minute)}))
	assert.Equal(t, 3, rs.Len())
}

func TestDictionary(t *testing.T) {
	ctx := context.Background()
	d := NewDictionary(
		game.WordEntry{Word: "Apple"},
		game.WordEntry{Word: "arrow"},
		game.WordEntry{Word: "banana"},
		game.WordEntry{Word: "apple"},
		game.WordEntry{Word: " "},
	)

	n, err := d.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, w := range []string{"apple", "APPLE", "Arrow", "banana"} {
		ok, err := d.Exists(ctx, w)
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
	for _, w := range []string{"cherry", " apple", "apple "} {
		ok, _ := d.Exists(ctx, w)
		assert.False(t, ok, w)
	}

	as, err := d.FindByPrefixLetter(ctx, 'A')
	require.NoError(t, err)
	assert.ElementsMatch(t, []game.WordEntry{{Word: "apple", Length: 5}, {Word: "arrow", Length: 5}}, as)

	zs, err := d.FindByPrefixLetter(ctx, 'z')
	require.NoError(t, err)
	assert.Empty(t, zs)

	for i := 0; i < 20; i++ {
		e, err := d.SampleRandom(ctx)
		require.NoError(t, err)
		assert.Equal(t, len(e.Word), e.Length)
		ok, _ := d.Exists(ctx, e.Word)
		assert.True(t, ok)
	}
}

func TestDictionary_SampleEmpty(t *testing.T) {
	_, err := NewDictionary().SampleRandom(context.Background())
	require.ErrorIs(t, err, game.ErrEmptyDictionary)
}

func TestDictionary_SampleIsSpread(t *testing.T) {
	ctx := context.Background()
	d := NewDictionary(game.WordEntry{Word: "one"}, game.WordEntry{Word: "two"}, game.WordEntry{Word: "six"})

	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		e, err := d.SampleRandom(ctx)
		require.NoError(t, err)
		seen[e.Word]++
	}
	assert.Len(t, seen, 3, "every entry should be sampled at least once")
}

func TestPlayers(t *testing.T) {
	ctx := context.Background()
	ps := NewPlayers()

	_, found, err := ps.FindByName(ctx, "asha")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, ps.Upsert(ctx, game.PlayerRecord{Name: "asha", Score: 7, Streak: 1}))
	require.NoError(t, ps.Upsert(ctx, game.PlayerRecord{Name: "asha", Score: 17, Streak: 2}))
	require.NoError(t, ps.Upsert(ctx, game.PlayerRecord{Name: "bo", Score: 17, Streak: 3}))
	require.NoError(t, ps.Upsert(ctx, game.PlayerRecord{Name: "cy", Score: 40, Streak: 5}))

	p, found, err := ps.FindByName(ctx, "asha")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 17, p.Score)

	top, err := ps.TopN(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []game.PlayerRecord{
		{Name: "cy", Score: 40, Streak: 5},
		{Name: "asha", Score: 17, Streak: 2},
	}, top)

	all, err := ps.TopN(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
