package main

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/landmass/internal/persistence"
	"github.com/talgya/landmass/internal/rng"
	"github.com/talgya/landmass/internal/world"
)

func TestResolveSeeds(t *testing.T) {
	s, err := resolveSeeds("42", rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, world.SeedsFromInt64(42), s)

	drawn, err := resolveSeeds("0", rng.New(1))
	require.NoError(t, err)
	assert.Equal(t, world.DrawSeeds(rng.New(1)), drawn)

	_, err = resolveSeeds("forty-two", rng.New(1))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestLoadOrGenerate_ResumesCurrentRun(t *testing.T) {
	db, err := persistence.Open(filepath.Join(t.TempDir(), "landmass.db"))
	require.NoError(t, err)
	defer db.Close()
	cfg := world.SmallTestConfig()

	first, seeds, id, err := loadOrGenerate(db, cfg, rng.New(3), "", false)
	require.NoError(t, err)
	assert.Equal(t, world.DrawSeeds(rng.New(3)), seeds)

	again, resumedSeeds, resumedID, err := loadOrGenerate(db, cfg, rng.New(4), "", false)
	require.NoError(t, err)
	assert.Equal(t, id, resumedID)
	assert.Equal(t, seeds, resumedSeeds)
	assert.Equal(t, first.Tiles.Cells(), again.Tiles.Cells())

	// An explicit seed always records a new run.
	_, _, nextID, err := loadOrGenerate(db, cfg, rng.New(4), "11", false)
	require.NoError(t, err)
	assert.Greater(t, nextID, id)

	_, _, freshID, err := loadOrGenerate(db, cfg, rng.New(5), "", true)
	require.NoError(t, err)
	assert.Greater(t, freshID, nextID)
}
