// Package world provides deterministic terrain generation and the
// materialized tile grid with its harvestable resource nodes.
package world

// TerrainClass is the visual/physical class of a single tile.
type TerrainClass uint8

const (
	TerrainGrass TerrainClass = iota
	TerrainDirt
	TerrainStone
	TerrainWater
	TerrainSand
	TerrainMountain
	TerrainSnow
	TerrainIce
)

// Biome is the climate category a tile was generated under.
type Biome uint8

const (
	BiomeGrassland Biome = iota
	BiomeForest
	BiomeDesert
	BiomeMountains
	BiomeTundra
)

// ResourceKind enumerates the harvestable resource types.
type ResourceKind uint8

const (
	ResourceNone ResourceKind = iota
	ResourceTree
	ResourcePine
	ResourceRock
	ResourceCrystal
)

// Coord addresses a tile on the grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is the atomic unit of the world grid. Created during generation,
// mutated in place only by harvest/respawn transitions, never destroyed.
type Tile struct {
	Terrain   TerrainClass `json:"terrain"`
	Biome     Biome        `json:"biome"`
	Resource  ResourceKind `json:"resource"`
	Harvested bool         `json:"harvested"`
}

// ResourceNode binds a harvestable resource to one tile with its respawn
// delay. A coordinate carries at most one node.
type ResourceNode struct {
	Coord          Coord        `json:"coord"`
	Kind           ResourceKind `json:"kind"`
	RespawnDelayMs int64        `json:"respawn_delay_ms"`
}

// TerrainName returns a human-readable name for a terrain class.
func TerrainName(t TerrainClass) string {
	switch t {
	case TerrainGrass:
		return "grass"
	case TerrainDirt:
		return "dirt"
	case TerrainStone:
		return "stone"
	case TerrainWater:
		return "water"
	case TerrainSand:
		return "sand"
	case TerrainMountain:
		return "mountain"
	case TerrainSnow:
		return "snow"
	case TerrainIce:
		return "ice"
	default:
		return "unknown"
	}
}

// BiomeName returns a human-readable name for a biome.
func BiomeName(b Biome) string {
	switch b {
	case BiomeGrassland:
		return "grassland"
	case BiomeForest:
		return "forest"
	case BiomeDesert:
		return "desert"
	case BiomeMountains:
		return "mountains"
	case BiomeTundra:
		return "tundra"
	default:
		return "unknown"
	}
}

// ResourceName returns a human-readable name for a resource kind.
func ResourceName(k ResourceKind) string {
	switch k {
	case ResourceTree:
		return "tree"
	case ResourcePine:
		return "pine"
	case ResourceRock:
		return "rock"
	case ResourceCrystal:
		return "crystal"
	default:
		return "none"
	}
}
