// Package api serves the session state over HTTP. GET endpoints are
// read-only observation; POST endpoints mutate the session on behalf of
// the player's client.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/emberwood/internal/engine"
	"github.com/talgya/emberwood/internal/entities"
	"github.com/talgya/emberwood/internal/persistence"
	"github.com/talgya/emberwood/internal/world"
)

// Server serves the session over HTTP.
type Server struct {
	Sim  *engine.Simulation
	DB   *persistence.DB
	Hub  *Hub
	Port int
}

// Handler builds the full route table. Split from Start so tests can drive
// it with httptest.
func (s *Server) Handler() http.Handler {
	regenLimiter := NewRateLimiter(10, time.Minute)

	mux := http.NewServeMux()

	// Read-only observation.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/world", s.handleWorld)
	mux.HandleFunc("/api/v1/entities", s.handleEntities)
	mux.HandleFunc("/api/v1/entity/", s.handleEntityDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/player", s.handlePlayer)

	// Session mutation.
	mux.HandleFunc("/api/v1/harvest", s.postOnly(s.handleHarvest))
	mux.HandleFunc("/api/v1/interact", s.postOnly(s.handleInteract))
	mux.HandleFunc("/api/v1/interact/end", s.postOnly(s.handleInteractEnd))
	mux.HandleFunc("/api/v1/strike", s.postOnly(s.handleStrike))
	mux.HandleFunc("/api/v1/regenerate", RateLimitMiddleware(regenLimiter, s.postOnly(s.handleRegenerate)))
	mux.HandleFunc("/api/v1/save", s.postOnly(s.handleSave))

	// Live entity feed.
	if s.Hub != nil {
		mux.HandleFunc("/ws", s.Hub.handleUpgrade)
	}

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
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

func (s *Server) postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	grid := s.Sim.Grid()
	writeJSON(w, map[string]any{
		"name":     "Emberwood",
		"tick":     s.Sim.CurrentTick(),
		"seed":     grid.Seed,
		"width":    grid.Width,
		"height":   grid.Height,
		"entities": s.Sim.Registry().Len(),
		"player":   s.Sim.Player(),
		"stats":    s.Sim.Stats(),
	})
}

// handleWorld returns the full tile map plus resource node states.
func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	grid := s.Sim.Grid()

	type nodeEntry struct {
		X         int    `json:"x"`
		Y         int    `json:"y"`
		Kind      string `json:"kind"`
		Harvested bool   `json:"harvested"`
	}

	nodes := make([]nodeEntry, 0, len(grid.Nodes))
	for _, n := range grid.ResourceNodes() {
		tile := grid.At(n.Coord)
		nodes = append(nodes, nodeEntry{
			X:         n.Coord.X,
			Y:         n.Coord.Y,
			Kind:      world.ResourceName(n.Kind),
			Harvested: tile != nil && tile.Harvested,
		})
	}

	writeJSON(w, map[string]any{
		"seed":    grid.Seed,
		"width":   grid.Width,
		"height":  grid.Height,
		"tiles":   grid.Tiles,
		"nodes":   nodes,
		"terrain": grid.TerrainCounts(),
	})
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshots())
}

func (s *Server) handleEntityDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 {
		http.Error(w, "missing entity id", http.StatusBadRequest)
		return
	}
	id, err := strconv.ParseUint(parts[4], 10, 64)
	if err != nil {
		http.Error(w, "invalid entity id", http.StatusBadRequest)
		return
	}

	e := s.Sim.Registry().Entity(entities.EntityID(id))
	if e == nil {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}
	writeJSON(w, e)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	events := s.Sim.Events()
	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	writeJSON(w, events[start:])
}

// handlePlayer reads or moves the player. POST expects {"x": .., "y": ..}.
func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req entities.Vec2
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"position": s.Sim.SetPlayer(req)})
		return
	}
	writeJSON(w, map[string]any{"position": s.Sim.Player()})
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	reward := s.Sim.Harvest(world.Coord{X: req.X, Y: req.Y})
	if reward == nil {
		writeJSON(w, map[string]any{"harvested": false})
		return
	}
	writeJSON(w, map[string]any{
		"harvested": true,
		"reward":    reward,
		"stats":     s.Sim.Stats(),
	})
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityID uint64 `json:"entity_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	res, err := s.Sim.Interact(entities.EntityID(req.EntityID))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleInteractEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityID uint64 `json:"entity_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	s.Sim.EndInteraction(entities.EntityID(req.EntityID))
	writeJSON(w, map[string]any{"ended": true})
}

func (s *Server) handleStrike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntityID uint64 `json:"entity_id"`
		Damage   int    `json:"damage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	remaining, err := s.Sim.Strike(entities.EntityID(req.EntityID), req.Damage)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"health": remaining,
		"slain":  remaining == 0,
		"stats":  s.Sim.Stats(),
	})
}

// handleRegenerate swaps in a fresh world. A zero seed draws a random one.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seed int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	grid := s.Sim.GenerateWorld(req.Seed)
	writeJSON(w, map[string]any{
		"seed":   grid.Seed,
		"width":  grid.Width,
		"height": grid.Height,
	})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence not available", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.SaveSession(s.Sim); err != nil {
		slog.Error("session save failed", "error", err)
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"saved": true, "tick": s.Sim.CurrentTick()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
