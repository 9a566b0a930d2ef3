// World generation: two independent climate noise fields classify biomes,
// per-biome rules synthesize tiles, then a lake post-pass and resource-node
// collection finish the grid.
package world

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width  int
	Height int
	Seed   int64 // 0 = random
}

// DefaultGenConfig returns the standard exploration-map size.
func DefaultGenConfig() GenConfig {
	return GenConfig{Width: 40, Height: 30}
}

// Respawn delays per resource kind. Tunable constants, not hard
// dependencies of the lifecycle machinery.
const (
	RespawnTreeMs    int64 = 30_000
	RespawnPineMs    int64 = 45_000
	RespawnRockMs    int64 = 60_000
	RespawnCrystalMs int64 = 120_000
)

// RespawnDelay returns the respawn delay for a resource kind.
func RespawnDelay(k ResourceKind) int64 {
	switch k {
	case ResourceTree:
		return RespawnTreeMs
	case ResourcePine:
		return RespawnPineMs
	case ResourceRock:
		return RespawnRockMs
	case ResourceCrystal:
		return RespawnCrystalMs
	default:
		return 0
	}
}

// Synth generates tiles deterministically from a seed. The temperature and
// humidity fields are independently offset by seeding separate generators;
// elevation gets a third. Identical (seed, x, y) always yields the
// identical tile.
type Synth struct {
	seed  int64
	temp  opensimplex.Noise
	humid opensimplex.Noise
	elev  opensimplex.Noise
}

// NewSynth creates a tile synthesizer for one seed.
func NewSynth(seed int64) *Synth {
	return &Synth{
		seed:  seed,
		temp:  opensimplex.New(seed),
		humid: opensimplex.New(seed + 1),
		elev:  opensimplex.New(seed + 2),
	}
}

// Classify derives the biome at a coordinate from the temperature and
// humidity fields.
func (s *Synth) Classify(x, y int) Biome {
	fx, fy := float64(x), float64(y)
	temp := octaveNoise(s.temp, fx, fy, 4, 0.09, 0.5)
	humidity := octaveNoise(s.humid, fx, fy, 4, 0.07, 0.5)
	return classifyBiome(temp, humidity)
}

// Synthesize produces the tile at a coordinate for an already-classified
// biome. Water placement uses a low-elevation sample shifted by the biome's
// water probability; a 30% draw may substitute a weighted secondary terrain
// class; resources are placed by the biome's density on non-water tiles.
func (s *Synth) Synthesize(x, y int, b Biome) Tile {
	def := biomeDefs[b]
	tile := Tile{Terrain: def.primary, Biome: b}

	elev := octaveNoise(s.elev, float64(x), float64(y), 4, 0.11, 0.5)
	if elev < -0.55+def.waterProb {
		tile.Terrain = TerrainWater
		return tile
	}

	rng := tileRand(s.seed, x, y)
	if rng.Float64() < 0.3 {
		tile.Terrain = def.pickSecondary(rng.Float64())
	}

	// Water tiles never carry resources; the early return above already
	// guarantees it, so only land draws here.
	if len(def.resources) > 0 && rng.Float64() < def.resourceDensity {
		tile.Resource = def.resources[rng.Intn(len(def.resources))]
	}

	return tile
}

// Generate creates a complete grid: classification, synthesis, lakes and
// resource nodes. Deterministic for a nonzero seed.
func Generate(cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	synth := NewSynth(seed)
	g := &Grid{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   seed,
		Epoch:  uuid.New(),
		Tiles:  make([][]Tile, cfg.Height),
		Nodes:  make(map[Coord]*ResourceNode),
	}

	for y := 0; y < cfg.Height; y++ {
		g.Tiles[y] = make([]Tile, cfg.Width)
		for x := 0; x < cfg.Width; x++ {
			biome := synth.Classify(x, y)
			g.Tiles[y][x] = synth.Synthesize(x, y, biome)
		}
	}

	stampLakes(g, seed)

	// Resource nodes are collected after the lake pass so a stamped lake
	// never leaves a node on a water tile.
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			tile := &g.Tiles[y][x]
			if tile.Resource == ResourceNone {
				continue
			}
			c := Coord{X: x, Y: y}
			g.Nodes[c] = &ResourceNode{
				Coord:          c,
				Kind:           tile.Resource,
				RespawnDelayMs: RespawnDelay(tile.Resource),
			}
		}
	}

	slog.Debug("world generated",
		"seed", seed,
		"width", cfg.Width,
		"height", cfg.Height,
		"resource_nodes", len(g.Nodes),
	)

	return g
}

// stampLakes scatters 1-3 circular lake features. Tiles inside a
// probabilistic radius test become water and lose any resource already
// placed there, giving lakes a ragged natural edge.
func stampLakes(g *Grid, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	lakes := 1 + rng.Intn(3)
	for i := 0; i < lakes; i++ {
		cx := rng.Intn(g.Width)
		cy := rng.Intn(g.Height)
		radius := 1.5 + rng.Float64()*2.5

		minX, maxX := cx-int(radius)-1, cx+int(radius)+1
		minY, maxY := cy-int(radius)-1, cy+int(radius)+1
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if !g.InBounds(Coord{X: x, Y: y}) {
					continue
				}
				dist := math.Hypot(float64(x-cx), float64(y-cy))
				if dist > radius*(0.7+0.6*rng.Float64()) {
					continue
				}
				tile := &g.Tiles[y][x]
				tile.Terrain = TerrainWater
				tile.Resource = ResourceNone
			}
		}
	}
}
