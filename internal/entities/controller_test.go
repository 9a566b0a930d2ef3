package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monster(t *testing.T, pos Vec2) *Controller {
	t.Helper()
	e := &Entity{
		ID:                1,
		Name:              "Grimfang",
		Archetype:         ArchMonster,
		Position:          pos,
		Health:            60,
		MaxHealth:         60,
		InteractionRadius: 3,
		BaseSpeed:         2.6,
		Alive:             true,
	}
	return NewController(e, PatternAggressivePatrol, 7)
}

func TestAlertnessClamped(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	near := Vec2{X: 51, Y: 50}
	far := Vec2{X: 90, Y: 90}

	for i := 0; i < 50; i++ {
		c.updateAlertness(near)
	}
	assert.Equal(t, 100.0, c.Alertness)

	for i := 0; i < 500; i++ {
		c.updateAlertness(far)
	}
	assert.Equal(t, 0.0, c.Alertness)
}

func TestHostileAttacksInRange(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	player := Vec2{X: 51, Y: 50}

	c.Tick(100, player)

	assert.Equal(t, StateAttacking, c.State)
	require.NotNil(t, c.Target)
	assert.Equal(t, player, *c.Target)
}

func TestHostilePursuitBuildsAggression(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	player := Vec2{X: 55, Y: 50} // inside 2r=6, outside r=3

	start := c.Entity.Position
	c.Tick(100, player)

	assert.Equal(t, StatePursuing, c.State)
	assert.Equal(t, aggressionGain, c.Aggression)
	assert.Greater(t, c.Entity.Position.X, start.X, "pursuer closes toward the player")

	// Player escapes: leftover aggression drives a search near the last
	// known position rather than an immediate return to patrol.
	c.Tick(100, Vec2{X: 90, Y: 90})
	assert.Equal(t, StateSearching, c.State)
	require.NotNil(t, c.Target)
	assert.InDelta(t, 55, c.Target.X, searchSpread)
	assert.InDelta(t, 50, c.Target.Y, searchSpread)

	// Aggression drains back to zero, then the patrol resumes.
	for i := 0; i < 10; i++ {
		c.Tick(100, Vec2{X: 90, Y: 90})
	}
	assert.Equal(t, StatePatrolling, c.State)
}

func TestPursuitSpeedBoost(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	c.State = StatePursuing
	assert.Equal(t, 1.5, c.speedMultiplier())
	c.State = StateIdle
	assert.Equal(t, 0.7, c.speedMultiplier())
}

func TestCompanionFollowsAndTeleports(t *testing.T) {
	e := &Entity{
		ID:                2,
		Name:              "Patches",
		Archetype:         ArchCompanion,
		Position:          Vec2{X: 50, Y: 50},
		Health:            80,
		MaxHealth:         80,
		InteractionRadius: 2,
		BaseSpeed:         3.0,
		Alive:             true,
	}
	c := NewController(e, PatternFollowPlayer, 11)

	// Trailing beyond follow distance: move toward the player.
	player := Vec2{X: 62, Y: 50}
	c.Tick(100, player)
	assert.Equal(t, StateFollowing, c.State)
	require.NotNil(t, c.Target)
	assert.InDelta(t, player.X, c.Target.X, 2)
	assert.InDelta(t, player.Y, c.Target.Y, 2)

	// Left far behind: snap to the player's side.
	player = Vec2{X: 10, Y: 10}
	c.Tick(100, player)
	assert.Equal(t, StateFollowing, c.State)
	assert.LessOrEqual(t, e.Position.DistanceTo(player), 2.0)

	// Close by: settle into idle.
	c.Tick(100, Vec2{X: e.Position.X + 1, Y: e.Position.Y})
	assert.Equal(t, StateIdle, c.State)
}

func TestMerchantFacesCustomer(t *testing.T) {
	e := &Entity{
		ID:                3,
		Name:              "Gorin",
		Archetype:         ArchMerchant,
		Position:          Vec2{X: 25, Y: 66},
		Health:            100,
		MaxHealth:         100,
		InteractionRadius: 3,
		BaseSpeed:         1.8,
		Alive:             true,
	}
	c := NewController(e, PatternWorkArea, 13)

	player := Vec2{X: 28, Y: 66} // inside 1.5r = 4.5
	c.Tick(100, player)
	assert.Equal(t, StateInterested, c.State)
	require.NotNil(t, c.Facing)
	assert.Equal(t, player, *c.Facing)
	assert.Nil(t, c.Target)

	c.Tick(100, Vec2{X: 90, Y: 10})
	assert.Equal(t, StateWorking, c.State)
	assert.Nil(t, c.Facing)
}

func TestQuestGiverTurnsAttentive(t *testing.T) {
	e := &Entity{
		ID:                4,
		Name:              "Eldric",
		Archetype:         ArchQuestGiver,
		Position:          Vec2{X: 87, Y: 16},
		Health:            100,
		MaxHealth:         100,
		InteractionRadius: 3,
		BaseSpeed:         1.2,
		Alive:             true,
	}
	c := NewController(e, PatternStationary, 17)

	c.Tick(100, Vec2{X: 88, Y: 16})
	assert.Equal(t, StateAttentive, c.State)

	c.Tick(100, Vec2{X: 10, Y: 90})
	assert.Equal(t, StateIdle, c.State)
	assert.Equal(t, Vec2{X: 87, Y: 16}, e.Position, "stationary entities hold position")
}

func TestInteractionPinSuspendsMovement(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	c.Pin()

	c.Tick(100, Vec2{X: 51, Y: 50})
	assert.Equal(t, StateInteracting, c.State)
	assert.Equal(t, Vec2{X: 50, Y: 50}, c.Entity.Position)
	// Alertness still tracks proximity while pinned.
	assert.Equal(t, alertnessGain, c.Alertness)

	c.Unpin()
	c.Tick(100, Vec2{X: 51, Y: 50})
	assert.Equal(t, StateAttacking, c.State)
}

func TestUnconsciousEntityFrozen(t *testing.T) {
	c := monster(t, Vec2{X: 50, Y: 50})
	c.Entity.Unconscious = true

	c.Tick(100, Vec2{X: 51, Y: 50})
	assert.Equal(t, StateIdle, c.State)
	assert.Equal(t, 0.0, c.Alertness)
	assert.Equal(t, Vec2{X: 50, Y: 50}, c.Entity.Position)
}

func TestPositionsStayInBounds(t *testing.T) {
	c := monster(t, Vec2{X: 1, Y: 1})
	for i := 0; i < 400; i++ {
		c.Tick(100, Vec2{X: 0, Y: 0})
		p := c.Entity.Position
		require.GreaterOrEqual(t, p.X, 0.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.LessOrEqual(t, p.X, 100.0)
		require.LessOrEqual(t, p.Y, 100.0)
	}
}

func TestUnknownPatternDegradesToStationary(t *testing.T) {
	assert.Equal(t, PatternStationary, ParsePattern("moonwalk"))
	assert.Equal(t, ArchVillager, ParseArchetype("dragon"))
}

func TestControllerDeterministic(t *testing.T) {
	a := monster(t, Vec2{X: 50, Y: 50})
	b := monster(t, Vec2{X: 50, Y: 50})

	path := []Vec2{{X: 55, Y: 50}, {X: 60, Y: 55}, {X: 90, Y: 90}, {X: 90, Y: 90}}
	for i := 0; i < 200; i++ {
		p := path[i%len(path)]
		a.Tick(100, p)
		b.Tick(100, p)
	}
	assert.Equal(t, a.Entity.Position, b.Entity.Position)
	assert.Equal(t, a.State, b.State)
	assert.Equal(t, a.Aggression, b.Aggression)
}
