// Package entities provides the entity data model, the registry arena and
// the per-entity autonomous behavior controllers.
package entities

import (
	"math"

	"github.com/talgya/emberwood/internal/content"
)

// EntityID is a unique identifier for an entity, stable for a session.
type EntityID uint64

// Archetype is the behavioral/content category of an NPC.
type Archetype uint8

const (
	ArchVillager Archetype = iota
	ArchMerchant
	ArchQuestGiver
	ArchCompanion
	ArchMonster
	ArchElder
	ArchRanger
	ArchStranger
)

var archetypeNames = map[Archetype]string{
	ArchVillager:   "villager",
	ArchMerchant:   "merchant",
	ArchQuestGiver: "quest_giver",
	ArchCompanion:  "companion",
	ArchMonster:    "monster",
	ArchElder:      "elder",
	ArchRanger:     "ranger",
	ArchStranger:   "stranger",
}

func (a Archetype) String() string {
	if n, ok := archetypeNames[a]; ok {
		return n
	}
	return "villager"
}

// ParseArchetype maps a content archetype name to its tag. Unknown names
// fall back to villager, the generic civilian behavior.
func ParseArchetype(name string) Archetype {
	for a, n := range archetypeNames {
		if n == name {
			return a
		}
	}
	return ArchVillager
}

// Vec2 is a position in percentage-of-viewport space, 0-100 on each axis.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the euclidean distance to another point.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// distanceTo treats a missing position as infinitely far away, so it can
// never count as "reached".
func distanceTo(from Vec2, to *Vec2) float64 {
	if to == nil {
		return math.Inf(1)
	}
	return from.DistanceTo(*to)
}

// World bounds in viewport space.
const (
	boundMin = 0.0
	boundMax = 100.0
)

func clampToBounds(v Vec2) Vec2 {
	return Vec2{
		X: math.Max(boundMin, math.Min(boundMax, v.X)),
		Y: math.Max(boundMin, math.Min(boundMax, v.Y)),
	}
}

// Entity is one autonomous character. Its position is mutated only by its
// own behavior controller. Monsters are removed on death; non-hostiles are
// marked unconscious instead.
type Entity struct {
	ID          EntityID           `json:"id"`
	Name        string             `json:"name"`
	Archetype   Archetype          `json:"archetype"`
	Position    Vec2               `json:"position"`
	Health      int                `json:"health"`
	MaxHealth   int                `json:"max_health"`
	Level       int                `json:"level"`
	Personality map[string]float64 `json:"personality,omitempty"`

	InteractionRadius float64 `json:"interaction_radius"`
	BaseSpeed         float64 `json:"base_speed"`

	// Static capabilities, loaded once from content. QuestOffers carry
	// per-entity Claimed state.
	Dialogue    []string             `json:"dialogue,omitempty"`
	Trade       []content.TradeItem  `json:"trade,omitempty"`
	QuestOffers []content.QuestOffer `json:"quest_offers,omitempty"`
	Combat      *content.CombatStats `json:"combat,omitempty"`

	Alive       bool `json:"alive"`
	Unconscious bool `json:"unconscious"`
}

// Trait returns a named personality trait, zero when absent.
func (e *Entity) Trait(name string) float64 {
	return e.Personality[name]
}

// Hostile reports whether this entity attacks on sight.
func (e *Entity) Hostile() bool {
	return e.Archetype == ArchMonster
}

// UnclaimedQuest returns the first quest offer not yet handed out, or nil.
func (e *Entity) UnclaimedQuest() *content.QuestOffer {
	for i := range e.QuestOffers {
		if !e.QuestOffers[i].Claimed {
			return &e.QuestOffers[i]
		}
	}
	return nil
}
