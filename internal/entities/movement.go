package entities

import "math/rand"

// MovementPattern selects how a controller picks its next waypoint once the
// current target is reached.
type MovementPattern uint8

const (
	PatternStationary MovementPattern = iota
	PatternSmallArea
	PatternPatrol
	PatternWidePatrol
	PatternRandom
	PatternAggressivePatrol
	PatternGuardArea
	PatternFollowPlayer
	PatternTraveling
	PatternWorkArea
)

var patternNames = map[MovementPattern]string{
	PatternStationary:       "stationary",
	PatternSmallArea:        "small_area",
	PatternPatrol:           "patrol",
	PatternWidePatrol:       "wide_patrol",
	PatternRandom:           "random",
	PatternAggressivePatrol: "aggressive_patrol",
	PatternGuardArea:        "guard_area",
	PatternFollowPlayer:     "follow_player",
	PatternTraveling:        "traveling",
	PatternWorkArea:         "work_area",
}

func (p MovementPattern) String() string {
	if n, ok := patternNames[p]; ok {
		return n
	}
	return "stationary"
}

// ParsePattern maps a content pattern name to its tag. Unknown names degrade
// to stationary rather than failing the spawn.
func ParsePattern(name string) MovementPattern {
	for p, n := range patternNames {
		if n == name {
			return p
		}
	}
	return PatternStationary
}

// Roaming radius around the home position, per pattern.
func (p MovementPattern) roamRadius() float64 {
	switch p {
	case PatternSmallArea, PatternWorkArea:
		return 4
	case PatternGuardArea:
		return 5
	case PatternPatrol:
		return 6
	case PatternAggressivePatrol:
		return 10
	case PatternWidePatrol, PatternRandom:
		return 14
	default:
		return 0
	}
}

// hasRoute reports whether the pattern walks a fixed waypoint loop.
func (p MovementPattern) hasRoute() bool {
	switch p {
	case PatternPatrol, PatternWidePatrol, PatternAggressivePatrol:
		return true
	}
	return false
}

// buildRoute lays a jittered diamond of waypoints around home for the
// route-walking patterns.
func buildRoute(p MovementPattern, home Vec2, rng *rand.Rand) []Vec2 {
	r := p.roamRadius()
	corners := []Vec2{
		{X: home.X + r, Y: home.Y},
		{X: home.X, Y: home.Y + r},
		{X: home.X - r, Y: home.Y},
		{X: home.X, Y: home.Y - r},
	}
	route := make([]Vec2, 0, len(corners))
	for _, c := range corners {
		jittered := Vec2{
			X: c.X + (rng.Float64()-0.5)*r*0.4,
			Y: c.Y + (rng.Float64()-0.5)*r*0.4,
		}
		route = append(route, clampToBounds(jittered))
	}
	return route
}

// travelStop is one leg of a traveling entity's daily circuit.
type travelStop struct {
	atMs float64
	pos  Vec2
}

// Length of the traveling circuit's day.
const travelDayMs = 600_000

// buildCircuit scatters timed stops across the map for traveling entities.
func buildCircuit(home Vec2, rng *rand.Rand) []travelStop {
	n := 3 + rng.Intn(2)
	stops := make([]travelStop, 0, n)
	for i := 0; i < n; i++ {
		pos := clampToBounds(Vec2{
			X: home.X + (rng.Float64()-0.5)*60,
			Y: home.Y + (rng.Float64()-0.5)*60,
		})
		stops = append(stops, travelStop{
			atMs: float64(i) * travelDayMs / float64(n),
			pos:  pos,
		})
	}
	return stops
}

// circuitTarget returns the stop whose slot the clock currently falls in.
func circuitTarget(stops []travelStop, clockMs float64) Vec2 {
	if len(stops) == 0 {
		return Vec2{}
	}
	day := clockMs - travelDayMs*float64(int(clockMs/travelDayMs))
	current := stops[0]
	for _, s := range stops {
		if s.atMs <= day {
			current = s
		}
	}
	return current.pos
}

// randomOffset picks a point within +-spread of the origin on each axis,
// clamped to world bounds.
func randomOffset(origin Vec2, spread float64, rng *rand.Rand) Vec2 {
	return clampToBounds(Vec2{
		X: origin.X + (rng.Float64()*2-1)*spread,
		Y: origin.Y + (rng.Float64()*2-1)*spread,
	})
}
