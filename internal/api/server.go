// Package api provides the HTTP API for querying the generated world.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/talgya/landmass/internal/grid"
	"github.com/talgya/landmass/internal/perlin"
	"github.com/talgya/landmass/internal/persistence"
	"github.com/talgya/landmass/internal/terrain"
	"github.com/talgya/landmass/internal/world"
)

// Map code for water tiles; land tiles use their ground's code.
const waterCode = '~'

// Server serves the current world over HTTP.
type Server struct {
	DB       *persistence.DB     // optional; nil disables /runs and run recording
	Config   world.Config        // used by regenerate
	Entropy  perlin.Uint32Source // seeds regenerate requests that carry no seed
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// PathLimit caps path searches per client IP per PathWindow.
	PathLimit  int
	PathWindow time.Duration

	mu    sync.RWMutex
	world *world.World
	runID int64
	seeds world.Seeds
}

// NewServer returns a server for w, generated from seeds and recorded as runID.
func NewServer(w *world.World, seeds world.Seeds, runID int64) *Server {
	return &Server{
		Config:     w.Config,
		PathLimit:  120,
		PathWindow: time.Minute,
		world:      w,
		runID:      runID,
		seeds:      seeds,
	}
}

// World returns the world currently being served.
func (s *Server) World() *world.World {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world
}

func (s *Server) swap(w *world.World, seeds world.Seeds, runID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world, s.seeds, s.runID = w, seeds, runID
}

func (s *Server) current() (*world.World, world.Seeds, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world, s.seeds, s.runID
}

// Routes builds the handler tree. The returned closer stops background work.
func (s *Server) Routes() (http.Handler, func()) {
	pathLimiter := NewRateLimiter(s.PathLimit, s.PathWindow)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/map", s.handleMapRoutes)
	mux.HandleFunc("/api/v1/map/", s.handleMapRoutes)
	mux.HandleFunc("/api/v1/path", RateLimitMiddleware(pathLimiter, s.handlePath))
	mux.HandleFunc("/api/v1/runs", s.handleRuns)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/regenerate", s.adminOnly(s.handleRegenerate))

	return corsMiddleware(mux), pathLimiter.Close
}

// Start begins serving the HTTP API in a goroutine. Shut the returned
// server down to stop it.
func (s *Server) Start() *http.Server {
	handler, closeLimiters := s.Routes()
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	srv.RegisterOnShutdown(closeLimiters)

	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && token == s.AdminKey
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no LANDMASS_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	wd, seeds, runID := s.current()
	counts := wd.TerrainCounts()

	grounds := make(map[string]int, len(counts.Grounds))
	for g, n := range counts.Grounds {
		grounds[g.String()] = n
	}

	writeJSON(w, map[string]any{
		"name":           "landmass",
		"run_id":         runID,
		"width":          wd.Size().W,
		"height":         wd.Size().H,
		"seed":           wd.Seed,
		"biome_seed":     seeds.Biome,
		"algorithm":      algorithmName(wd.Config.Algorithm),
		"temperature":    wd.Config.Temperature,
		"climate":        wd.Config.Climate,
		"target_density": wd.Config.Density,
		"density":        wd.Noise.Density,
		"sea_level":      wd.Noise.SeaLevel,
		"iterations":     wd.Noise.Iterations,
		"land":           counts.Land,
		"water":          counts.Water,
		"coastal":        counts.Coastal,
		"grounds":        grounds,
	})
}

func algorithmName(a perlin.Algorithm) string {
	if a == "" {
		return string(perlin.AlgorithmPerlin)
	}
	return string(a)
}

// handleMapRoutes dispatches between bulk map (GET /api/v1/map) and tile detail (GET /api/v1/map/:x/:y).
func (s *Server) handleMapRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/map")
	if path == "" || path == "/" {
		s.handleBulkMap(w, r)
		return
	}
	s.handleTileDetail(w, r)
}

// handleBulkMap returns one string per row with a code per tile.
func (s *Server) handleBulkMap(w http.ResponseWriter, r *http.Request) {
	wd := s.World()
	size := wd.Size()
	rows := make([]string, size.H)
	var sb strings.Builder
	for y := range rows {
		sb.Reset()
		for _, t := range wd.Tiles.Row(y) {
			sb.WriteByte(tileCode(t))
		}
		rows[y] = sb.String()
	}

	legend := map[string]string{string(rune(waterCode)): "water"}
	for _, g := range terrain.Grounds {
		legend[string(rune(g.Code()))] = g.String()
	}

	writeJSON(w, map[string]any{
		"width":  size.W,
		"height": size.H,
		"rows":   rows,
		"legend": legend,
	})
}

func tileCode(t terrain.Tile) byte {
	if t.Surface != terrain.Land || !t.Ground.Valid() {
		return waterCode
	}
	return t.Ground.Code()
}

func (s *Server) handleTileDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	// /api/v1/map/:x/:y → parts[0]="" [1]="api" [2]="v1" [3]="map" [4]=x [5]=y
	if len(parts) != 6 {
		http.Error(w, "usage: /api/v1/map/:x/:y", http.StatusBadRequest)
		return
	}
	x, err1 := strconv.Atoi(parts[4])
	y, err2 := strconv.Atoi(parts[5])
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	wd := s.World()
	c := grid.Coord{X: x, Y: y}
	tile, ok := wd.Tile(c)
	if !ok {
		http.Error(w, "tile not found", http.StatusNotFound)
		return
	}

	resp := map[string]any{
		"x":       x,
		"y":       y,
		"surface": tile.Surface.String(),
		"coastal": wd.IsCoastal(c),
	}
	if tile.Ground.Valid() {
		resp["ground"] = tile.Ground.String()
	}
	writeJSON(w, resp)
}

// parseCoord reads "x,y".
func parseCoord(s string) (grid.Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Coord{}, fmt.Errorf("coordinate %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return grid.Coord{X: x, Y: y}, nil
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseCoord(q.Get("from"))
	if err != nil {
		http.Error(w, "from: "+err.Error(), http.StatusBadRequest)
		return
	}
	to, err := parseCoord(q.Get("to"))
	if err != nil {
		http.Error(w, "to: "+err.Error(), http.StatusBadRequest)
		return
	}
	mode := world.ModeLand
	if m := q.Get("mode"); m != "" {
		if mode, err = world.ParseMode(m); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	wd := s.World()
	if !wd.Size().Contains(from) || !wd.Size().Contains(to) {
		http.Error(w, "coordinates outside the map", http.StatusNotFound)
		return
	}

	path, found := wd.Path(mode, from, to)
	if path == nil {
		path = []grid.Coord{}
	}
	writeJSON(w, map[string]any{
		"from":   from,
		"to":     to,
		"mode":   mode,
		"found":  found,
		"length": len(path),
		"path":   path,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "list runs failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed *int64 `json:"seed,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	var seeds world.Seeds
	switch {
	case req.Seed != nil:
		seeds = world.SeedsFromInt64(*req.Seed)
	case s.Entropy != nil:
		seeds = world.DrawSeeds(s.Entropy)
	default:
		http.Error(w, "seed required (no entropy source configured)", http.StatusBadRequest)
		return
	}

	wd, err := world.New(s.Config, seeds)
	if err != nil {
		slog.Error("regenerate failed", "seed", seeds.Surface.String(), "error", err)
		http.Error(w, "generation failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var runID int64
	if s.DB != nil {
		if runID, err = s.DB.SaveRun(wd, seeds.Biome); err != nil {
			slog.Error("save run failed", "error", err)
			http.Error(w, "save run failed", http.StatusInternalServerError)
			return
		}
	}
	s.swap(wd, seeds, runID)

	writeJSON(w, map[string]any{
		"run_id":     runID,
		"seed":       wd.Seed,
		"biome_seed": seeds.Biome,
		"density":    wd.Noise.Density,
		"message":    "world regenerated",
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
