// Package engine ties the world grid, the resource lifecycle and the entity
// registry together behind a single mutex and advances them tick by tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/emberwood/internal/content"
	"github.com/talgya/emberwood/internal/entities"
	"github.com/talgya/emberwood/internal/world"
)

// Events older than this are trimmed from the feed.
const maxEvents = 256

// Event is one notable occurrence, kept in a bounded feed for the API.
type Event struct {
	Tick        uint64 `json:"tick"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// PlayerStats accumulate across a session.
type PlayerStats struct {
	XP        int            `json:"xp"`
	Gold      int            `json:"gold"`
	Level     int            `json:"level"`
	Inventory map[string]int `json:"inventory"`
}

// EntitySnapshot is the per-tick public view of one entity.
type EntitySnapshot struct {
	ID        entities.EntityID `json:"id"`
	Name      string            `json:"name"`
	Archetype string            `json:"archetype"`
	State     string            `json:"state"`
	Position  entities.Vec2     `json:"position"`
	Facing    *entities.Vec2    `json:"facing,omitempty"`
	Health    int               `json:"health"`
	MaxHealth int               `json:"max_health"`
	Alertness float64           `json:"alertness"`
	Alive     bool              `json:"alive"`
}

// Simulation owns all mutable session state. All exported methods lock; the
// registry and grid must never be mutated around it.
type Simulation struct {
	mu sync.Mutex

	clockMs float64
	tick    uint64

	grid *world.Grid
	life *world.Lifecycle
	reg  *entities.Registry
	pack *content.Pack
	seed int64

	player entities.Vec2
	stats  PlayerStats

	// Entity currently pinned by a non-combat interaction, zero when none.
	pinned entities.EntityID

	events []Event
}

// NewSimulation generates a world from cfg and spawns the pack's roster.
func NewSimulation(pack *content.Pack, cfg world.GenConfig) *Simulation {
	grid := world.Generate(cfg)
	sim := &Simulation{
		grid:  grid,
		life:  world.NewLifecycle(grid),
		reg:   entities.BuildRoster(pack, grid.Seed),
		pack:  pack,
		seed:  grid.Seed,
		stats: PlayerStats{Level: 1, Inventory: make(map[string]int)},
	}
	sim.record("world", fmt.Sprintf("world generated, seed %d", grid.Seed))
	return sim
}

// Restore rebuilds a simulation from persisted state. The caller supplies
// the grid with harvested flags already applied and the saved entities.
func Restore(pack *content.Pack, grid *world.Grid, reg *entities.Registry, tick uint64, stats PlayerStats) *Simulation {
	if stats.Inventory == nil {
		stats.Inventory = make(map[string]int)
	}
	if stats.Level <= 0 {
		stats.Level = 1
	}
	sim := &Simulation{
		clockMs: float64(tick) * 100,
		tick:    tick,
		grid:    grid,
		life:    world.NewLifecycle(grid),
		reg:     reg,
		pack:    pack,
		seed:    grid.Seed,
		stats:   stats,
	}
	// Respawn timers do not survive a restart; harvested tiles get their
	// full delay again from the restored clock.
	for _, n := range grid.ResourceNodes() {
		if t := grid.At(n.Coord); t != nil && t.Harvested {
			sim.life.Schedule(n.Coord, int64(sim.clockMs))
		}
	}
	sim.record("world", fmt.Sprintf("session restored at tick %d", tick))
	return sim
}

// GenerateWorld replaces the grid with a freshly generated one. Entities
// and player progress survive; pending respawn timers from the old grid are
// invalidated by the epoch swap.
func (s *Simulation) GenerateWorld(seed int64) *world.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := world.Generate(world.GenConfig{
		Width:  s.grid.Width,
		Height: s.grid.Height,
		Seed:   seed,
	})
	s.grid = grid
	s.seed = grid.Seed
	s.life.SetGrid(grid)
	s.record("world", fmt.Sprintf("world regenerated, seed %d", grid.Seed))
	slog.Info("world regenerated", "seed", grid.Seed, "tick", s.tick)
	return grid
}

// Tick advances the session by elapsedMs of simulated time and returns the
// resulting entity snapshots. Respawns resolve before behavior so an entity
// never observes a tile mid-transition.
func (s *Simulation) Tick(elapsedMs float64) []EntitySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clockMs += elapsedMs
	s.tick++

	for _, c := range s.life.Advance(int64(s.clockMs)) {
		s.record("world", fmt.Sprintf("resource respawned at (%d,%d)", c.X, c.Y))
	}

	for _, c := range s.reg.Controllers() {
		c.Tick(elapsedMs, s.player)
	}
	return s.snapshotsLocked()
}

// SetPlayer moves the player, clamped to viewport bounds.
func (s *Simulation) SetPlayer(pos entities.Vec2) entities.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.player = clampPos(pos)
	return s.player
}

// Player returns the current player position.
func (s *Simulation) Player() entities.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Harvest gathers the resource at a tile, crediting the player's inventory
// and XP. Returns nil when the tile has nothing to give.
func (s *Simulation) Harvest(c world.Coord) *world.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()

	reward := s.life.Harvest(c, int64(s.clockMs))
	if reward == nil {
		return nil
	}
	s.stats.Inventory[reward.Item] += reward.Amount
	s.grantXPLocked(reward.XP)
	s.record("harvest", fmt.Sprintf("harvested %dx %s at (%d,%d)", reward.Amount, reward.Item, c.X, c.Y))
	return reward
}

// Stats returns a copy of the player's progress.
func (s *Simulation) Stats() PlayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.stats
	out.Inventory = make(map[string]int, len(s.stats.Inventory))
	for k, v := range s.stats.Inventory {
		out.Inventory[k] = v
	}
	return out
}

// Snapshots returns the current entity views without advancing time.
func (s *Simulation) Snapshots() []EntitySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotsLocked()
}

// Grid returns the active grid. Callers must treat it as read-only.
func (s *Simulation) Grid() *world.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Registry exposes the entity arena for persistence snapshots.
func (s *Simulation) Registry() *entities.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg
}

// CurrentTick returns the number of ticks processed so far.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Events returns the most recent events, newest last.
func (s *Simulation) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Simulation) snapshotsLocked() []EntitySnapshot {
	ctrls := s.reg.Controllers()
	out := make([]EntitySnapshot, 0, len(ctrls))
	for _, c := range ctrls {
		e := c.Entity
		out = append(out, EntitySnapshot{
			ID:        e.ID,
			Name:      e.Name,
			Archetype: e.Archetype.String(),
			State:     c.State.String(),
			Position:  e.Position,
			Facing:    c.Facing,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Alertness: c.Alertness,
			Alive:     e.Alive && !e.Unconscious,
		})
	}
	return out
}

// grantXPLocked credits XP and recomputes the level, 100 XP per level.
func (s *Simulation) grantXPLocked(xp int) {
	s.stats.XP += xp
	level := 1 + s.stats.XP/100
	if level > s.stats.Level {
		s.stats.Level = level
		s.record("player", fmt.Sprintf("reached level %d", level))
		slog.Info("player level up", "level", level, "xp", s.stats.XP)
	}
}

func (s *Simulation) record(category, desc string) {
	s.events = append(s.events, Event{Tick: s.tick, Category: category, Description: desc})
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
}

func clampPos(p entities.Vec2) entities.Vec2 {
	clampAxis := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	return entities.Vec2{X: clampAxis(p.X), Y: clampAxis(p.Y)}
}
