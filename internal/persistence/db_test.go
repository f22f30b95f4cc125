package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/landmass/internal/rng"
	"github.com/talgya/landmass/internal/world"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "landmass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func generate(t *testing.T, seed, biomeSeed int64) *world.World {
	t.Helper()
	w, err := world.Generate(world.SmallTestConfig(), world.SeedFromInt64(seed), rng.New(biomeSeed))
	require.NoError(t, err)
	return w
}

func TestSaveRun_RoundTrip(t *testing.T) {
	db := openTemp(t)
	w := generate(t, 42, 7)

	id, err := db.SaveRun(w, 7)
	require.NoError(t, err)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, w.Seed, run.Seed())
	assert.Equal(t, w.Size().W, run.Width)
	assert.Equal(t, w.Size().H, run.Height)
	assert.Equal(t, w.Noise.SeaLevel, run.SeaLevel)
	assert.Equal(t, w.Noise.Density, run.Density)
	assert.Equal(t, w.Config.Density, run.TargetDensity)
	assert.Equal(t, int64(7), run.BiomeSeed)

	counts := w.TerrainCounts()
	assert.Equal(t, counts.Land, run.Land)
	assert.Equal(t, counts.Water, run.Water)

	cfg, err := run.Config()
	require.NoError(t, err)
	assert.Equal(t, w.Config, cfg)
}

func TestRun_RegenerateIsIdentical(t *testing.T) {
	db := openTemp(t)
	w := generate(t, 99, 1234)
	id, err := db.SaveRun(w, 1234)
	require.NoError(t, err)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	again, err := run.Regenerate()
	require.NoError(t, err)
	assert.Equal(t, w.Tiles.Cells(), again.Tiles.Cells())
	assert.Equal(t, w.Noise.SeaLevel, again.Noise.SeaLevel)
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTemp(t)
	_, err := db.GetRun(12)
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = db.CurrentRun()
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecentRuns_NewestFirst(t *testing.T) {
	db := openTemp(t)
	var ids []int64
	for seed := int64(1); seed <= 3; seed++ {
		id, err := db.SaveRun(generate(t, seed, seed), seed)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	current, err := db.CurrentRun()
	require.NoError(t, err)
	assert.Equal(t, ids[2], current.ID)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.SaveMeta("motd", "hello"))
	require.NoError(t, db.SaveMeta("motd", "again"))
	v, err := db.GetMeta("motd")
	require.NoError(t, err)
	assert.Equal(t, "again", v)
}
