// The materialized world grid.
package world

import "github.com/google/uuid"

// Grid is the materialized 2D tile array plus the flat resource-node
// records. Produced once per generation pass; after that only harvest and
// respawn transitions mutate it, and only through a tile's Harvested flag.
// Epoch identifies this generation pass so that respawn entries scheduled
// against a discarded grid can be detected and dropped.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Seed   int64     `json:"seed"`
	Epoch  uuid.UUID `json:"epoch"`

	Tiles [][]Tile                `json:"tiles"` // Tiles[y][x]
	Nodes map[Coord]*ResourceNode `json:"-"`
}

// InBounds reports whether c addresses a tile on this grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// At returns the tile at c, or nil when c is out of bounds. Out-of-bounds
// lookups are a supported no-op, never a panic.
func (g *Grid) At(c Coord) *Tile {
	if !g.InBounds(c) {
		return nil
	}
	return &g.Tiles[c.Y][c.X]
}

// Node returns the resource node at c, if any.
func (g *Grid) Node(c Coord) *ResourceNode {
	return g.Nodes[c]
}

// ResourceNodes returns all nodes in row-major coordinate order.
func (g *Grid) ResourceNodes() []*ResourceNode {
	nodes := make([]*ResourceNode, 0, len(g.Nodes))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if n, ok := g.Nodes[Coord{X: x, Y: y}]; ok {
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

// TerrainCounts returns the terrain class distribution, for logging.
func (g *Grid) TerrainCounts() map[TerrainClass]int {
	counts := make(map[TerrainClass]int)
	for y := range g.Tiles {
		for x := range g.Tiles[y] {
			counts[g.Tiles[y][x].Terrain]++
		}
	}
	return counts
}
