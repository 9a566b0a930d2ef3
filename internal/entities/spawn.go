package entities

import (
	"log/slog"

	"github.com/talgya/emberwood/internal/content"
)

// BuildRoster spawns the content pack's roster into a fresh registry.
// Controller PRNGs derive from the session seed plus the roster index, so
// the same seed reproduces the same wander and patrol jitter.
func BuildRoster(pack *content.Pack, seed int64) *Registry {
	reg := NewRegistry()
	for i, entry := range pack.Roster {
		data := pack.Archetype(entry.Archetype)

		e := &Entity{
			Name:              entry.Name,
			Archetype:         ParseArchetype(entry.Archetype),
			Position:          clampToBounds(Vec2{X: entry.X, Y: entry.Y}),
			Health:            entry.Health,
			MaxHealth:         entry.Health,
			Level:             entry.Level,
			Personality:       entry.Personality,
			InteractionRadius: data.InteractionRadius,
			BaseSpeed:         data.BaseSpeed,
			Dialogue:          append([]string(nil), data.DialogueLines...),
			Trade:             append([]content.TradeItem(nil), data.TradeInventory...),
			QuestOffers:       append([]content.QuestOffer(nil), data.QuestOffers...),
			Alive:             true,
		}
		if e.Health <= 0 {
			e.Health = 100
			e.MaxHealth = 100
		}
		if e.Level <= 0 {
			e.Level = 1
		}
		if data.CombatStats != nil {
			stats := *data.CombatStats
			e.Combat = &stats
		}

		patternName := entry.MovementPattern
		if patternName == "" {
			patternName = data.MovementPattern
		}
		ctrl := NewController(e, ParsePattern(patternName), seed+int64(i)*101)
		reg.Add(e, ctrl)
	}

	slog.Info("roster spawned", "entities", reg.Len())
	return reg
}
