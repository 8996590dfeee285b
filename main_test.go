package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/antakshari/internal/config"
	"github.com/robalobadob/antakshari/internal/game"
)

func TestOpenBackend(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.Config
	}{
		{"memory", config.Config{StoreDriver: config.DriverMemory}},
		{"sqlite", config.Config{StoreDriver: config.DriverSQLite, DatabaseURL: filepath.Join(t.TempDir(), "app.db")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			st, closeFn, err := openBackend(tc.cfg)
			require.NoError(t, err)
			defer closeFn()

			require.NoError(t, st.Insert(ctx, []game.WordEntry{{Word: "tree"}}))
			n, err := st.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			e, err := st.SampleRandom(ctx)
			require.NoError(t, err)
			assert.Equal(t, "tree", e.Word)
		})
	}
}
