// Biome classification and per-biome generation rules.
package world

// weightedTerrain is a secondary terrain class with a relative pick weight.
type weightedTerrain struct {
	class  TerrainClass
	weight float64
}

// biomeDef drives tile synthesis for one biome: the default terrain class,
// the weighted secondary classes that may substitute it, the eligible
// resource kinds, and the probabilities for resources and water.
type biomeDef struct {
	primary         TerrainClass
	secondary       []weightedTerrain
	resources       []ResourceKind
	resourceDensity float64
	waterProb       float64
}

var biomeDefs = map[Biome]biomeDef{
	BiomeGrassland: {
		primary: TerrainGrass,
		secondary: []weightedTerrain{
			{TerrainDirt, 0.7},
			{TerrainStone, 0.3},
		},
		resources:       []ResourceKind{ResourceTree},
		resourceDensity: 0.08,
		waterProb:       0.08,
	},
	BiomeForest: {
		primary: TerrainGrass,
		secondary: []weightedTerrain{
			{TerrainDirt, 0.8},
			{TerrainStone, 0.2},
		},
		resources:       []ResourceKind{ResourceTree, ResourcePine},
		resourceDensity: 0.20,
		waterProb:       0.06,
	},
	BiomeDesert: {
		primary: TerrainSand,
		secondary: []weightedTerrain{
			{TerrainDirt, 0.5},
			{TerrainStone, 0.5},
		},
		resources:       []ResourceKind{ResourceCrystal, ResourceRock},
		resourceDensity: 0.05,
		waterProb:       0.01,
	},
	BiomeMountains: {
		primary: TerrainStone,
		secondary: []weightedTerrain{
			{TerrainMountain, 0.6},
			{TerrainDirt, 0.4},
		},
		resources:       []ResourceKind{ResourceRock, ResourceCrystal},
		resourceDensity: 0.12,
		waterProb:       0.03,
	},
	BiomeTundra: {
		primary: TerrainSnow,
		secondary: []weightedTerrain{
			{TerrainIce, 0.6},
			{TerrainStone, 0.4},
		},
		resources:       []ResourceKind{ResourcePine},
		resourceDensity: 0.07,
		waterProb:       0.04,
	},
}

// classifyBiome maps a (temperature, humidity) sample to a biome.
// Ranges overlap, so evaluation order matters: first matching rule wins.
// All comparisons are strict — a temperature of exactly -0.4 is not tundra.
func classifyBiome(temp, humidity float64) Biome {
	switch {
	case temp < -0.4:
		return BiomeTundra
	case temp > 0.4 && humidity < -0.2:
		return BiomeDesert
	case humidity > 0.3:
		return BiomeForest
	case temp > 0.2 && humidity > -0.2 && humidity < 0.2:
		return BiomeMountains
	default:
		return BiomeGrassland
	}
}

// pickSecondary draws a weighted secondary terrain class. roll is in [0,1).
func (d biomeDef) pickSecondary(roll float64) TerrainClass {
	total := 0.0
	for _, wt := range d.secondary {
		total += wt.weight
	}
	roll *= total
	for _, wt := range d.secondary {
		if roll < wt.weight {
			return wt.class
		}
		roll -= wt.weight
	}
	return d.primary
}
