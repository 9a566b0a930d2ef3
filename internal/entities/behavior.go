package entities

// Per-archetype decision tables. Each runs once per tick and recomputes the
// behavior state from current distances; nothing here is sticky, so a
// missed tick cannot wedge an entity in a stale mode.

func (c *Controller) decide(player Vec2) {
	switch c.Entity.Archetype {
	case ArchMonster:
		c.decideHostile(player)
	case ArchCompanion:
		c.decideCompanion(player)
	case ArchMerchant:
		c.decideMerchant(player)
	default:
		c.decideCivilian(player)
	}
}

// decideHostile: attack in range, pursue at double range while building
// aggression, then burn remaining aggression searching near the last known
// player position before settling back onto the patrol route.
func (c *Controller) decideHostile(player Vec2) {
	e := c.Entity
	d := e.Position.DistanceTo(player)
	r := e.InteractionRadius

	switch {
	case d <= r:
		c.State = StateAttacking
		t := player
		c.Target = &t
		c.noteLastKnown(player)
	case d <= 2*r:
		c.State = StatePursuing
		t := player
		c.Target = &t
		c.Aggression = clamp(c.Aggression+aggressionGain, 0, 100)
		c.noteLastKnown(player)
	case c.Aggression > 0:
		c.State = StateSearching
		c.Aggression = clamp(c.Aggression-aggressionDecay, 0, 100)
		if c.Target == nil {
			anchor := c.home
			if c.lastKnown != nil {
				anchor = *c.lastKnown
			}
			t := randomOffset(anchor, searchSpread, c.rng)
			c.Target = &t
		}
	default:
		c.State = StatePatrolling
		c.lastKnown = nil
		c.ensurePatternTarget()
	}
}

// decideCompanion: teleport back when left far behind, close the gap when
// trailing, otherwise idle beside the player with the odd fidget.
func (c *Controller) decideCompanion(player Vec2) {
	e := c.Entity
	d := e.Position.DistanceTo(player)

	switch {
	case d > maxFollowDistance:
		e.Position = clampToBounds(Vec2{
			X: player.X + (c.rng.Float64()*2 - 1),
			Y: player.Y + (c.rng.Float64()*2 - 1),
		})
		c.State = StateFollowing
		c.Target = nil
	case d > followDistance:
		c.State = StateFollowing
		t := clampToBounds(Vec2{
			X: player.X + (c.rng.Float64()*4 - 2),
			Y: player.Y + (c.rng.Float64()*4 - 2),
		})
		c.Target = &t
	default:
		c.State = StateIdle
		if c.Target == nil && c.rng.Float64() < 0.01 {
			t := randomOffset(e.Position, 5, c.rng)
			c.Target = &t
		}
	}
}

// decideMerchant: face an approaching customer, otherwise tend the stall.
func (c *Controller) decideMerchant(player Vec2) {
	e := c.Entity
	if e.Position.DistanceTo(player) <= 1.5*e.InteractionRadius {
		c.State = StateInterested
		c.Target = nil
		f := player
		c.Facing = &f
		return
	}
	c.State = StateWorking
	c.Facing = nil
	c.ensurePatternTarget()
}

// decideCivilian covers villagers, quest givers, elders, rangers and
// strangers: greet a player in range, otherwise follow the movement
// pattern. Stationary lore-keepers turn attentive instead of social.
func (c *Controller) decideCivilian(player Vec2) {
	e := c.Entity
	if e.Position.DistanceTo(player) <= e.InteractionRadius {
		switch e.Archetype {
		case ArchQuestGiver, ArchElder:
			c.State = StateAttentive
		default:
			c.State = StateSocial
		}
		c.Target = nil
		f := player
		c.Facing = &f
		return
	}

	c.Facing = nil
	switch {
	case c.Pattern == PatternTraveling:
		c.State = StateTraveling
		t := circuitTarget(c.circuit, c.clockMs)
		if c.Target == nil || *c.Target != t {
			c.Target = &t
		}
	case c.Pattern == PatternStationary:
		c.State = StateIdle
	default:
		c.State = StatePatrolling
		c.ensurePatternTarget()
	}
}
