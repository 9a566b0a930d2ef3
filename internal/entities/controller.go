package entities

import (
	"math"
	"math/rand"
)

// BehaviorState is the externally visible mode an entity is in. States are
// recomputed from scratch every tick; only Interacting is sticky, held by
// the interaction arbiter until the encounter ends.
type BehaviorState uint8

const (
	StateIdle BehaviorState = iota
	StatePatrolling
	StatePursuing
	StateAttacking
	StateSearching
	StateFollowing
	StateWorking
	StateInterested
	StateSocial
	StateAttentive
	StateTraveling
	StateInteracting
)

var stateNames = map[BehaviorState]string{
	StateIdle:        "idle",
	StatePatrolling:  "patrolling",
	StatePursuing:    "pursuing",
	StateAttacking:   "attacking",
	StateSearching:   "searching",
	StateFollowing:   "following",
	StateWorking:     "working",
	StateInterested:  "interested",
	StateSocial:      "social",
	StateAttentive:   "attentive",
	StateTraveling:   "traveling",
	StateInteracting: "interacting",
}

func (s BehaviorState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "idle"
}

// Behavior tuning constants, shared by all archetypes.
const (
	reachEpsilon = 0.5

	alertnessGain   = 5.0
	alertnessDecay  = 1.0
	aggressionGain  = 2.0
	aggressionDecay = 1.0

	followDistance    = 8.0
	maxFollowDistance = 25.0
	searchSpread      = 8.0
	wanderSpread      = 6.0

	// Random idle-wander perturbation window.
	wanderMinDelayMs = 5_000
	wanderMaxDelayMs = 20_000
)

// Controller drives one entity's autonomous behavior. Each controller owns
// its own seeded PRNG so a session replays identically for a fixed seed and
// player path.
type Controller struct {
	Entity *Entity

	State      BehaviorState
	Target     *Vec2
	Facing     *Vec2
	Alertness  float64
	Aggression float64
	Pattern    MovementPattern

	home      Vec2
	route     []Vec2
	routeIdx  int
	circuit   []travelStop
	lastKnown *Vec2

	clockMs      float64
	nextWanderMs float64
	rng          *rand.Rand
}

// NewController wires a controller to its entity. The aggression meter
// starts at zero; it is a chase budget built up during pursuit, distinct
// from the personality trait of the same name.
func NewController(e *Entity, pattern MovementPattern, seed int64) *Controller {
	rng := rand.New(rand.NewSource(seed))
	c := &Controller{
		Entity:  e,
		State:   StateIdle,
		Pattern: pattern,
		home:    e.Position,
		rng:     rng,
	}
	if pattern.hasRoute() {
		c.route = buildRoute(pattern, c.home, rng)
	}
	if pattern == PatternTraveling {
		c.circuit = buildCircuit(c.home, rng)
	}
	c.nextWanderMs = wanderMinDelayMs + rng.Float64()*(wanderMaxDelayMs-wanderMinDelayMs)
	return c
}

// Pin locks the controller into the interacting state, suspending decision
// making and movement until Unpin.
func (c *Controller) Pin() {
	c.State = StateInteracting
	c.Target = nil
}

// Unpin releases an interaction pin; the next tick recomputes the state.
func (c *Controller) Unpin() {
	if c.State == StateInteracting {
		c.State = StateIdle
	}
}

// Tick advances the entity by elapsedMs against the current player
// position. Order matters: alertness first, then the per-archetype
// decision, then movement integration, then the idle wander perturbation.
func (c *Controller) Tick(elapsedMs float64, player Vec2) {
	c.clockMs += elapsedMs
	e := c.Entity
	if !e.Alive || e.Unconscious {
		return
	}

	c.updateAlertness(player)

	if c.State == StateInteracting {
		return
	}

	c.decide(player)
	c.integrate(elapsedMs)
	c.perturb()
}

// updateAlertness raises alertness while the player is inside twice the
// interaction radius and decays it otherwise, clamped to [0,100].
func (c *Controller) updateAlertness(player Vec2) {
	if c.Entity.Position.DistanceTo(player) <= 2*c.Entity.InteractionRadius {
		c.Alertness = clamp(c.Alertness+alertnessGain, 0, 100)
	} else {
		c.Alertness = clamp(c.Alertness-alertnessDecay, 0, 100)
	}
}

// integrate moves the entity toward its target at pattern speed, snapping
// onto the target when the remaining distance fits in this tick's step. A
// missing target reads as infinitely far away and is never reached.
func (c *Controller) integrate(elapsedMs float64) {
	e := c.Entity
	remaining := distanceTo(e.Position, c.Target)
	if math.IsInf(remaining, 1) {
		return
	}
	step := e.BaseSpeed * c.speedMultiplier() * elapsedMs / 1000

	if remaining <= reachEpsilon || step >= remaining {
		e.Position = clampToBounds(*c.Target)
		c.advanceTarget()
		return
	}

	e.Position = clampToBounds(Vec2{
		X: e.Position.X + (c.Target.X-e.Position.X)/remaining*step,
		Y: e.Position.Y + (c.Target.Y-e.Position.Y)/remaining*step,
	})
}

func (c *Controller) speedMultiplier() float64 {
	switch c.State {
	case StateAttacking, StatePursuing:
		return 1.5
	case StateFollowing:
		return 1.2
	case StateIdle:
		return 0.7
	default:
		return 1.0
	}
}

// advanceTarget replaces a reached target according to the movement
// pattern. Chase and follow targets are dropped and re-derived next tick.
func (c *Controller) advanceTarget() {
	switch c.State {
	case StatePursuing, StateAttacking, StateFollowing, StateSearching:
		c.Target = nil
		return
	}
	c.Target = c.nextPatternTarget()
}

// nextPatternTarget yields the pattern's next waypoint, or nil for
// patterns that hold position.
func (c *Controller) nextPatternTarget() *Vec2 {
	switch {
	case c.Pattern.hasRoute():
		c.routeIdx = (c.routeIdx + 1) % len(c.route)
		t := c.route[c.routeIdx]
		return &t
	case c.Pattern == PatternTraveling:
		t := circuitTarget(c.circuit, c.clockMs)
		return &t
	case c.Pattern.roamRadius() > 0:
		t := randomOffset(c.home, c.Pattern.roamRadius(), c.rng)
		return &t
	default:
		return nil
	}
}

// ensurePatternTarget sets a pattern waypoint only when none is active, so
// an in-flight leg is not restarted every tick.
func (c *Controller) ensurePatternTarget() {
	if c.Target == nil {
		c.Target = c.nextPatternTarget()
	}
}

// perturb injects an occasional short wander so loitering entities do not
// freeze in place. Chasing and following states are exempt.
func (c *Controller) perturb() {
	if c.clockMs < c.nextWanderMs {
		return
	}
	c.nextWanderMs = c.clockMs + wanderMinDelayMs + c.rng.Float64()*(wanderMaxDelayMs-wanderMinDelayMs)

	switch c.State {
	case StateAttacking, StatePursuing, StateFollowing, StateSearching, StateInteracting:
		return
	}
	if c.Pattern == PatternStationary || c.Pattern == PatternFollowPlayer {
		return
	}
	t := randomOffset(c.Entity.Position, wanderSpread, c.rng)
	c.Target = &t
}

func (c *Controller) noteLastKnown(player Vec2) {
	p := player
	c.lastKnown = &p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
