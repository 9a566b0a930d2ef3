// Command emberwood runs the Emberwood world simulation: a deterministic
// procedurally generated overworld with an autonomous NPC roster, served
// over HTTP and a live websocket feed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/emberwood/internal/api"
	"github.com/talgya/emberwood/internal/content"
	"github.com/talgya/emberwood/internal/engine"
	"github.com/talgya/emberwood/internal/persistence"
	"github.com/talgya/emberwood/internal/world"
)

// Simulation cadence: one tick per 100ms of wall time.
const tickInterval = 100 * time.Millisecond

func main() {
	var (
		seed        = flag.Int64("seed", envInt64("EMBERWOOD_SEED", 0), "world seed (0 = random)")
		width       = flag.Int("width", 40, "world width in tiles")
		height      = flag.Int("height", 30, "world height in tiles")
		dbPath      = flag.String("db", envStr("EMBERWOOD_DB", "data/emberwood.db"), "session database path")
		packPath    = flag.String("content", envStr("EMBERWOOD_CONTENT", ""), "content pack YAML (empty = built-in)")
		apiPort     = flag.Int("port", envInt("EMBERWOOD_PORT", 8080), "HTTP API port")
		fresh       = flag.Bool("fresh", false, "ignore any saved session and start over")
		autosaveSec = flag.Int("autosave", 60, "autosave interval in seconds (0 = disabled)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// ── Content pack ─────────────────────────────────────────────────
	pack := content.Default()
	if *packPath != "" {
		loaded, err := content.Load(*packPath)
		if err != nil {
			slog.Error("failed to load content pack", "path", *packPath, "error", err)
			os.Exit(1)
		}
		pack = loaded
	}

	// ── Database ─────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(*dbPath), 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── Load or generate session ─────────────────────────────────────
	var sim *engine.Simulation
	if !*fresh {
		sim, err = db.LoadSession(pack)
		if err != nil {
			slog.Error("failed to restore session", "error", err)
			os.Exit(1)
		}
	}
	if sim == nil {
		slog.Info("generating new world", "seed", *seed, "width", *width, "height", *height)
		sim = engine.NewSimulation(pack, world.GenConfig{
			Width:  *width,
			Height: *height,
			Seed:   *seed,
		})
		if err := db.SaveSession(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	grid := sim.Grid()
	for terrain, count := range grid.TerrainCounts() {
		slog.Debug("terrain", "type", world.TerrainName(terrain), "count", count)
	}

	// ── HTTP API + websocket feed ────────────────────────────────────
	hub := api.NewHub()
	srv := &api.Server{Sim: sim, DB: db, Hub: hub, Port: *apiPort}
	srv.Start()

	// ── Tick loop ────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var autosave <-chan time.Time
	if *autosaveSec > 0 {
		t := time.NewTicker(time.Duration(*autosaveSec) * time.Second)
		defer t.Stop()
		autosave = t.C
	}

	fmt.Printf("\nEmberwood is awake: seed %d, %dx%d tiles, %d inhabitants.\n",
		grid.Seed, grid.Width, grid.Height, sim.Registry().Len())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", *apiPort)
	fmt.Println("Running... (Ctrl+C to stop)")

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			snaps := sim.Tick(float64(elapsed.Milliseconds()))
			hub.Broadcast(sim.CurrentTick(), snaps)

		case <-autosave:
			if err := db.SaveSession(sim); err != nil {
				slog.Error("autosave failed", "error", err)
			}

		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			if err := db.SaveSession(sim); err != nil {
				slog.Error("final save failed", "error", err)
			}
			fmt.Println("Simulation stopped. Session saved.")
			return
		}
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
