// Resource lifecycle: available → harvested → (after the kind's delay) →
// available. Respawns are a sorted deadline queue drained by simulation
// time rather than host timers, which gives regeneration free cancellation
// semantics: entries carry the grid epoch they were scheduled against and
// stale entries are silently dropped.
package world

import (
	"container/heap"
	"log/slog"

	"github.com/google/uuid"
)

// Reward is what a successful harvest yields.
type Reward struct {
	Coord  Coord  `json:"coord"`
	Item   string `json:"item"`
	Amount int    `json:"amount"`
	XP     int    `json:"xp"`
}

// Fixed yield table per resource kind.
var yields = map[ResourceKind]Reward{
	ResourceTree:    {Item: "wood", Amount: 3, XP: 15},
	ResourcePine:    {Item: "pine-wood", Amount: 2, XP: 12},
	ResourceRock:    {Item: "stone", Amount: 5, XP: 15},
	ResourceCrystal: {Item: "crystal", Amount: 1, XP: 15},
}

type respawnEntry struct {
	dueMs int64
	coord Coord
	epoch uuid.UUID
}

// respawnQueue is a min-heap ordered by due time.
type respawnQueue []respawnEntry

func (q respawnQueue) Len() int           { return len(q) }
func (q respawnQueue) Less(i, j int) bool { return q[i].dueMs < q[j].dueMs }
func (q respawnQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *respawnQueue) Push(x any)        { *q = append(*q, x.(respawnEntry)) }
func (q *respawnQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// Lifecycle tracks harvested tiles and schedules their respawns against
// one grid at a time.
type Lifecycle struct {
	grid  *Grid
	queue respawnQueue
}

// NewLifecycle creates a lifecycle manager bound to a grid.
func NewLifecycle(g *Grid) *Lifecycle {
	return &Lifecycle{grid: g}
}

// SetGrid atomically swaps the managed grid. Entries already queued keep
// their old epoch and will be discarded when they come due.
func (l *Lifecycle) SetGrid(g *Grid) {
	l.grid = g
}

// Grid returns the currently managed grid.
func (l *Lifecycle) Grid() *Grid {
	return l.grid
}

// Harvest attempts to harvest the node at c at simulation time nowMs.
// Returns nil — a no-op, never an error — when c is out of bounds, carries
// no resource, or is already harvested and waiting to respawn. Concurrent
// attempts in one tick serialize on the Harvested flag: first wins.
func (l *Lifecycle) Harvest(c Coord, nowMs int64) *Reward {
	tile := l.grid.At(c)
	if tile == nil || tile.Resource == ResourceNone {
		return nil
	}
	if tile.Harvested {
		return nil
	}
	node := l.grid.Node(c)
	if node == nil {
		return nil
	}

	tile.Harvested = true
	heap.Push(&l.queue, respawnEntry{
		dueMs: nowMs + node.RespawnDelayMs,
		coord: c,
		epoch: l.grid.Epoch,
	})

	reward := yields[node.Kind]
	reward.Coord = c
	return &reward
}

// Schedule queues a respawn for a tile already flagged harvested, used
// when rebuilding a session whose timers did not survive the restart. The
// node's full delay applies from nowMs.
func (l *Lifecycle) Schedule(c Coord, nowMs int64) {
	tile := l.grid.At(c)
	node := l.grid.Node(c)
	if tile == nil || node == nil || !tile.Harvested {
		return
	}
	heap.Push(&l.queue, respawnEntry{
		dueMs: nowMs + node.RespawnDelayMs,
		coord: c,
		epoch: l.grid.Epoch,
	})
}

// Advance drains every respawn whose deadline has passed and returns the
// coordinates that became harvestable again. Entries scheduled against a
// replaced grid are dropped without touching the current one.
func (l *Lifecycle) Advance(nowMs int64) []Coord {
	var respawned []Coord
	for l.queue.Len() > 0 && l.queue[0].dueMs <= nowMs {
		entry := heap.Pop(&l.queue).(respawnEntry)
		if entry.epoch != l.grid.Epoch {
			slog.Debug("dropping stale respawn", "coord", entry.coord)
			continue
		}
		tile := l.grid.At(entry.coord)
		if tile == nil || !tile.Harvested {
			continue
		}
		tile.Harvested = false
		respawned = append(respawned, entry.coord)
	}
	return respawned
}

// Pending returns the number of queued respawns, stale entries included.
func (l *Lifecycle) Pending() int {
	return l.queue.Len()
}
