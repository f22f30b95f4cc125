// Package persistence records generation runs in SQLite.
// A run stores the seed and settings rather than the tiles; any stored run
// can be regenerated into an identical world.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/landmass/internal/perlin"
	"github.com/talgya/landmass/internal/rng"
	"github.com/talgya/landmass/internal/world"
)

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Meta key holding the id of the run currently being served.
const MetaCurrentRun = "current_run"

// DB wraps a SQLite connection for the run ledger.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		algorithm TEXT NOT NULL,
		offset_x INTEGER NOT NULL,
		offset_y INTEGER NOT NULL,
		base INTEGER NOT NULL,
		flip INTEGER NOT NULL,
		target_density REAL NOT NULL,
		density REAL NOT NULL,
		sea_level REAL NOT NULL,
		iterations INTEGER NOT NULL,
		temperature INTEGER NOT NULL,
		climate INTEGER NOT NULL,
		biome_seed INTEGER NOT NULL,
		land INTEGER NOT NULL,
		water INTEGER NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is one row of the ledger.
type Run struct {
	ID            int64   `db:"id" json:"id"`
	CreatedAt     int64   `db:"created_at" json:"created_at"`
	Width         int     `db:"width" json:"width"`
	Height        int     `db:"height" json:"height"`
	Algorithm     string  `db:"algorithm" json:"algorithm"`
	OffsetX       uint32  `db:"offset_x" json:"offset_x"`
	OffsetY       uint32  `db:"offset_y" json:"offset_y"`
	Base          uint32  `db:"base" json:"base"`
	Flip          bool    `db:"flip" json:"flip"`
	TargetDensity float64 `db:"target_density" json:"target_density"`
	Density       float64 `db:"density" json:"density"`
	SeaLevel      float64 `db:"sea_level" json:"sea_level"`
	Iterations    int     `db:"iterations" json:"iterations"`
	Temperature   int     `db:"temperature" json:"temperature"`
	Climate       int     `db:"climate" json:"climate"`
	BiomeSeed     int64   `db:"biome_seed" json:"biome_seed"`
	Land          int     `db:"land" json:"land"`
	Water         int     `db:"water" json:"water"`
	ConfigJSON    string  `db:"config_json" json:"-"`
}

// Seed returns the surface seed the run was generated with.
func (r Run) Seed() perlin.Seed {
	return perlin.Seed{OffsetX: r.OffsetX, OffsetY: r.OffsetY, Base: r.Base, Flip: r.Flip}
}

// Config decodes the stored generation config.
func (r Run) Config() (world.Config, error) {
	var cfg world.Config
	if err := json.Unmarshal([]byte(r.ConfigJSON), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config of run %d: %w", r.ID, err)
	}
	return cfg, nil
}

// Regenerate rebuilds the world the run describes.
func (r Run) Regenerate() (*world.World, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	w, err := world.Generate(cfg, r.Seed(), rng.New(r.BiomeSeed))
	if err != nil {
		return nil, fmt.Errorf("regenerate run %d: %w", r.ID, err)
	}
	return w, nil
}

const runColumns = `id, created_at, width, height, algorithm, offset_x, offset_y, base, flip,
	target_density, density, sea_level, iterations, temperature, climate, biome_seed,
	land, water, config_json`

// SaveRun appends a generated world to the ledger and marks it current.
// biomeSeed must be the seed of the sampler passed to world.Generate.
func (db *DB) SaveRun(w *world.World, biomeSeed int64) (int64, error) {
	cfgJSON, err := json.Marshal(w.Config)
	if err != nil {
		return 0, fmt.Errorf("encode config: %w", err)
	}
	counts := w.TerrainCounts()
	size := w.Size()

	tx, err := db.conn.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(created_at, width, height, algorithm, offset_x, offset_y, base, flip,
		 target_density, density, sea_level, iterations, temperature, climate, biome_seed,
		 land, water, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), size.W, size.H, string(w.Config.Algorithm),
		w.Seed.OffsetX, w.Seed.OffsetY, w.Seed.Base, w.Seed.Flip,
		w.Config.Density, w.Noise.Density, w.Noise.SeaLevel, w.Noise.Iterations,
		w.Config.Temperature, w.Config.Climate, biomeSeed,
		counts.Land, counts.Water, string(cfgJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		MetaCurrentRun, strconv.FormatInt(id, 10),
	); err != nil {
		return 0, fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	slog.Info("run saved", "id", id, "seed", w.Seed.String(), "land", counts.Land, "water", counts.Water)
	return id, nil
}

// GetRun loads a run by id.
func (db *DB) GetRun(id int64) (Run, error) {
	var r Run
	err := db.conn.Get(&r, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

// CurrentRun loads the run most recently marked current.
func (db *DB) CurrentRun() (Run, error) {
	v, err := db.GetMeta(MetaCurrentRun)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return Run{}, fmt.Errorf("parse %s: %w", MetaCurrentRun, err)
	}
	return db.GetRun(id)
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}
