// Command landmass generates a tile world, records the run, and serves it over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/landmass/internal/api"
	"github.com/talgya/landmass/internal/entropy"
	"github.com/talgya/landmass/internal/perlin"
	"github.com/talgya/landmass/internal/persistence"
	"github.com/talgya/landmass/internal/terrain"
	"github.com/talgya/landmass/internal/world"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LANDMASS_LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	dbPath := envOrDefault("LANDMASS_DB", "data/landmass.db")
	apiPort := envIntOrDefault("LANDMASS_PORT", 8080)
	serve := envBoolOrDefault("LANDMASS_SERVE", true)
	fresh := envBoolOrDefault("LANDMASS_FRESH", false)

	// ── Config ────────────────────────────────────────────────────────
	cfg := world.DefaultConfig()
	if path := os.Getenv("LANDMASS_CONFIG"); path != "" {
		var err error
		if cfg, err = world.LoadConfig(path); err != nil {
			slog.Error("failed to load config", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("config loaded", "path", path)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Entropy ───────────────────────────────────────────────────────
	var src perlin.Uint32Source = entropy.Crypto{}
	if client := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY")); client.Enabled() {
		slog.Info("random.org entropy enabled")
		src = client
	} else {
		slog.Warn("RANDOM_ORG_API_KEY not set, seeding from crypto/rand")
	}

	// ── World (resumed from the ledger unless a seed or fresh start is asked for) ──
	wd, seeds, runID, err := loadOrGenerate(db, cfg, src, os.Getenv("LANDMASS_SEED"), fresh)
	if err != nil {
		slog.Error("world generation failed", "error", err)
		os.Exit(1)
	}

	counts := wd.TerrainCounts()
	for _, g := range sortedGrounds(counts) {
		slog.Info("terrain", "ground", g.String(), "count", counts.Grounds[g])
	}
	slog.Info("world ready",
		"run", runID,
		"size", wd.Size().String(),
		"land", counts.Land,
		"water", counts.Water,
		"coastal", counts.Coastal,
		"sea_level", wd.Noise.SeaLevel,
	)

	if !serve {
		fmt.Printf("Run %d: %s world, %.1f%% land (seed %s).\n",
			runID, wd.Size(), 100*wd.LandFraction(), wd.Seed)
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("LANDMASS_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("LANDMASS_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}

	apiServer := api.NewServer(wd, seeds, runID)
	apiServer.DB = db
	apiServer.Config = cfg
	apiServer.Entropy = src
	apiServer.Port = apiPort
	apiServer.AdminKey = adminKey
	httpServer := apiServer.Start()

	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
}

// loadOrGenerate regenerates the current run from the ledger when no seed is
// given, otherwise generates and records a new run.
func loadOrGenerate(db *persistence.DB, cfg world.Config, src perlin.Uint32Source, seedEnv string, fresh bool) (*world.World, world.Seeds, int64, error) {
	if seedEnv == "" && !fresh {
		run, err := db.CurrentRun()
		switch {
		case err == nil:
			slog.Info("found recorded run, regenerating", "run", run.ID)
			wd, err := run.Regenerate()
			if err != nil {
				return nil, world.Seeds{}, 0, err
			}
			return wd, world.Seeds{Surface: run.Seed(), Biome: run.BiomeSeed}, run.ID, nil
		case !errors.Is(err, persistence.ErrRunNotFound):
			return nil, world.Seeds{}, 0, fmt.Errorf("load current run: %w", err)
		}
		slog.Info("no recorded run, generating new world")
	}

	seeds, err := resolveSeeds(seedEnv, src)
	if err != nil {
		return nil, world.Seeds{}, 0, err
	}
	wd, err := world.New(cfg, seeds)
	if err != nil {
		return nil, world.Seeds{}, 0, err
	}
	id, err := db.SaveRun(wd, seeds.Biome)
	if err != nil {
		return nil, world.Seeds{}, 0, fmt.Errorf("save run: %w", err)
	}
	return wd, seeds, id, nil
}

// resolveSeeds uses LANDMASS_SEED when set and nonzero, else draws from src.
func resolveSeeds(seedEnv string, src perlin.Uint32Source) (world.Seeds, error) {
	if seedEnv == "" {
		return world.DrawSeeds(src), nil
	}
	n, err := strconv.ParseInt(seedEnv, 10, 64)
	if err != nil {
		return world.Seeds{}, fmt.Errorf("parse LANDMASS_SEED: %w", err)
	}
	if n == 0 {
		return world.DrawSeeds(src), nil
	}
	return world.SeedsFromInt64(n), nil
}

// sortedGrounds lists the grounds present in c in enumeration order.
func sortedGrounds(c world.Counts) []terrain.Ground {
	var out []terrain.Ground
	for _, g := range terrain.Grounds {
		if c.Grounds[g] > 0 {
			out = append(out, g)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
