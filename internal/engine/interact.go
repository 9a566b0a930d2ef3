package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/emberwood/internal/content"
	"github.com/talgya/emberwood/internal/entities"
)

// InteractionKind classifies what an interaction request resolved to.
type InteractionKind string

const (
	InteractCombat          InteractionKind = "combat"
	InteractTrade           InteractionKind = "trade"
	InteractQuest           InteractionKind = "quest"
	InteractDialogue        InteractionKind = "dialogue"
	InteractDistanceWarning InteractionKind = "distance_warning"
)

// Slack added to the interaction radius so a player standing right on the
// edge is not bounced by float error.
const interactTolerance = 1.0

// Monsters above this aggression trait force combat over any other
// capability they carry.
const combatAggressionFloor = 70.0

// InteractionResult is the arbiter's verdict on one interaction request.
// Exactly one of the payload fields matching Kind is populated.
type InteractionResult struct {
	Kind     InteractionKind      `json:"kind"`
	EntityID entities.EntityID    `json:"entity_id"`
	Name     string               `json:"name"`
	Message  string               `json:"message,omitempty"`
	Dialogue []string             `json:"dialogue,omitempty"`
	Trade    []content.TradeItem  `json:"trade,omitempty"`
	Quest    *content.QuestOffer  `json:"quest,omitempty"`
	Combat   *content.CombatStats `json:"combat,omitempty"`
}

// Interact arbitrates an interaction between the player and an entity.
// Precedence is fixed: combat, then trade, then quest, then dialogue. An
// out-of-range request yields a distance warning and mutates nothing.
// Non-combat encounters pin the entity in place until EndInteraction.
func (s *Simulation) Interact(id entities.EntityID) (*InteractionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.reg.Entity(id)
	if e == nil {
		return nil, fmt.Errorf("interact: no entity %d", id)
	}
	if !e.Alive || e.Unconscious {
		return nil, fmt.Errorf("interact: %s cannot respond", e.Name)
	}

	res := &InteractionResult{EntityID: id, Name: e.Name}

	if dist := e.Position.DistanceTo(s.player); dist > e.InteractionRadius+interactTolerance {
		res.Kind = InteractDistanceWarning
		res.Message = fmt.Sprintf("%s is too far away", e.Name)
		return res, nil
	}

	switch {
	case e.Archetype == entities.ArchMonster && e.Combat != nil && e.Trait("aggression") > combatAggressionFloor:
		res.Kind = InteractCombat
		stats := *e.Combat
		res.Combat = &stats
		res.Message = fmt.Sprintf("%s attacks!", e.Name)
	case len(e.Trade) > 0:
		res.Kind = InteractTrade
		res.Trade = append([]content.TradeItem(nil), e.Trade...)
		res.Dialogue = e.Dialogue
	case e.UnclaimedQuest() != nil:
		q := e.UnclaimedQuest()
		q.Claimed = true
		offered := *q
		res.Kind = InteractQuest
		res.Quest = &offered
		res.Dialogue = e.Dialogue
	default:
		// Entities with no capability metadata degrade to plain dialogue.
		res.Kind = InteractDialogue
		res.Dialogue = e.Dialogue
		if len(res.Dialogue) == 0 {
			res.Dialogue = []string{fmt.Sprintf("%s has nothing to say.", e.Name)}
		}
	}

	// Combat never pins: the attacker keeps moving. Everything else holds
	// the entity in place for the conversation.
	if res.Kind != InteractCombat {
		if s.pinned != 0 && s.pinned != id {
			s.unpinLocked(s.pinned)
		}
		if c := s.reg.Controller(id); c != nil {
			c.Pin()
			s.pinned = id
		}
	}

	s.record("interaction", fmt.Sprintf("%s: %s", res.Kind, e.Name))
	slog.Debug("interaction arbitrated", "entity", e.Name, "kind", res.Kind)
	return res, nil
}

// EndInteraction releases a pinned entity back to autonomous behavior.
func (s *Simulation) EndInteraction(id entities.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpinLocked(id)
}

func (s *Simulation) unpinLocked(id entities.EntityID) {
	if c := s.reg.Controller(id); c != nil {
		c.Unpin()
	}
	if s.pinned == id {
		s.pinned = 0
	}
}

// Strike applies combat damage to an entity, resolving death when health
// is exhausted. Slain hostiles pay out their bounty.
func (s *Simulation) Strike(id entities.EntityID, damage int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.reg.Entity(id)
	if e == nil {
		return 0, fmt.Errorf("strike: no entity %d", id)
	}
	if !e.Alive || e.Unconscious {
		return 0, fmt.Errorf("strike: %s is already down", e.Name)
	}
	if damage < 0 {
		damage = 0
	}
	if e.Combat != nil {
		damage -= e.Combat.Defense
		if damage < 0 {
			damage = 0
		}
	}

	e.Health -= damage
	if e.Health > 0 {
		return e.Health, nil
	}

	e.Health = 0
	if e.Hostile() && e.Combat != nil {
		s.stats.Gold += e.Combat.GoldBounty
		s.grantXPLocked(e.Combat.XPBounty)
	}
	s.record("combat", fmt.Sprintf("%s defeated", e.Name))
	s.unpinLocked(id)
	s.reg.ApplyDeath(id)
	return 0, nil
}
