package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/antakshari/internal/game"
	"github.com/robalobadob/antakshari/internal/store"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"Apple", "  banana ", "apple", "", "# comment", "two words", "x-ray", "Éclair"})
	assert.Equal(t, []game.WordEntry{
		{Word: "apple", Length: 5},
		{Word: "banana", Length: 6},
		{Word: "éclair", Length: 6},
	}, got)
}

func TestLoadEmbedded(t *testing.T) {
	entries, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, utf8.RuneCountInString(e.Word), e.Length, e.Word)
		assert.Equal(t, game.Normalize(e.Word), e.Word)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("# mine\nTree\necho\n\necho\n"), 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []game.WordEntry{{Word: "tree", Length: 4}, {Word: "echo", Length: 4}}, entries)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestSeed_EveryWordExists(t *testing.T) {
	ctx := context.Background()
	entries, err := Load("")
	require.NoError(t, err)

	d := store.NewDictionary()
	n, err := Seed(ctx, d, entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)

	for _, e := range entries {
		ok, err := d.Exists(ctx, e.Word)
		require.NoError(t, err)
		assert.True(t, ok, e.Word)
	}
}

func TestSeed_SkipsNonEmptyStore(t *testing.T) {
	ctx := context.Background()
	d := store.NewDictionary(game.WordEntry{Word: "tree"})

	n, err := Seed(ctx, d, []game.WordEntry{{Word: "echo", Length: 4}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ok, _ := d.Exists(ctx, "echo")
	assert.False(t, ok)
}
