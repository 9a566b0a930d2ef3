// Package content holds the static per-archetype metadata the simulation
// consumes: dialogue line sets, trade inventories, quest offers, combat
// stats and movement tuning. Loaded once at startup; read-only afterwards.
package content

// TradeItem is one entry in a merchant's inventory.
type TradeItem struct {
	Name  string `yaml:"name" json:"name"`
	Price int    `yaml:"price" json:"price"`
}

// QuestOffer is a quest an entity can hand out. Claimed is per-entity
// runtime state; the content default is always unclaimed.
type QuestOffer struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	RewardGold  int    `yaml:"reward_gold" json:"reward_gold"`
	RewardXP    int    `yaml:"reward_xp" json:"reward_xp"`
	Claimed     bool   `yaml:"-" json:"claimed"`
}

// CombatStats describe a hostile encounter.
type CombatStats struct {
	Attack     int `yaml:"attack" json:"attack"`
	Defense    int `yaml:"defense" json:"defense"`
	XPBounty   int `yaml:"xp_bounty" json:"xp_bounty"`
	GoldBounty int `yaml:"gold_bounty" json:"gold_bounty"`
}

// ArchetypeData is the full static capability set for one archetype.
type ArchetypeData struct {
	DialogueLines     []string     `yaml:"dialogue_lines" json:"dialogue_lines"`
	TradeInventory    []TradeItem  `yaml:"trade_inventory,omitempty" json:"trade_inventory,omitempty"`
	QuestOffers       []QuestOffer `yaml:"quest_offers,omitempty" json:"quest_offers,omitempty"`
	CombatStats       *CombatStats `yaml:"combat_stats,omitempty" json:"combat_stats,omitempty"`
	BaseSpeed         float64      `yaml:"base_speed" json:"base_speed"`
	InteractionRadius float64      `yaml:"interaction_radius" json:"interaction_radius"`
	MovementPattern   string       `yaml:"movement_pattern" json:"movement_pattern"`
}

// RosterEntry spawns one named entity at session load.
type RosterEntry struct {
	Name            string             `yaml:"name" json:"name"`
	Archetype       string             `yaml:"archetype" json:"archetype"`
	X               float64            `yaml:"x" json:"x"`
	Y               float64            `yaml:"y" json:"y"`
	Health          int                `yaml:"health" json:"health"`
	Level           int                `yaml:"level" json:"level"`
	Personality     map[string]float64 `yaml:"personality,omitempty" json:"personality,omitempty"`
	MovementPattern string             `yaml:"movement_pattern,omitempty" json:"movement_pattern,omitempty"`
}

// Pack bundles archetype metadata with the world's entity roster.
type Pack struct {
	Archetypes map[string]ArchetypeData `yaml:"archetypes" json:"archetypes"`
	Roster     []RosterEntry            `yaml:"roster" json:"roster"`
}

// Archetype returns the metadata for an archetype name, falling back to an
// empty capability set so a missing archetype degrades to dialogue with no
// lines instead of failing.
func (p *Pack) Archetype(name string) ArchetypeData {
	if d, ok := p.Archetypes[name]; ok {
		return d
	}
	return ArchetypeData{BaseSpeed: 2.0, InteractionRadius: 3, MovementPattern: "stationary"}
}

// Default returns the built-in content pack: the Emberwood roster with its
// archetype dialogue, wares and quests.
func Default() *Pack {
	return &Pack{
		Archetypes: map[string]ArchetypeData{
			"villager": {
				DialogueLines: []string{
					"Oh hello! It's so nice to see a friendly face.",
					"Life in this magical realm can be quite exciting!",
					"Any local news? Well, the berries are ripe early this year.",
				},
				BaseSpeed:         2.0,
				InteractionRadius: 3,
				MovementPattern:   "small_area",
			},
			"merchant": {
				DialogueLines: []string{
					"Greetings, customer! I have the finest wares in all the land.",
					"What can I get for you?",
				},
				TradeInventory: []TradeItem{
					{Name: "Health Potion", Price: 25},
					{Name: "Iron Sword", Price: 150},
					{Name: "Leather Armor", Price: 100},
					{Name: "Lantern", Price: 40},
				},
				BaseSpeed:         1.8,
				InteractionRadius: 3,
				MovementPattern:   "work_area",
			},
			"quest_giver": {
				DialogueLines: []string{
					"Welcome, brave soul!",
					"I have knowledge of ancient quests that could make you legendary.",
				},
				QuestOffers: []QuestOffer{
					{
						Title:       "A Bundle of Timber",
						Description: "Gather 10 Wood pieces for the village stores.",
						RewardGold:  10,
						RewardXP:    50,
					},
					{
						Title:       "Crystal Clarity",
						Description: "Bring back a desert crystal, unchipped.",
						RewardGold:  30,
						RewardXP:    120,
					},
				},
				BaseSpeed:         1.2,
				InteractionRadius: 3,
				MovementPattern:   "stationary",
			},
			"companion": {
				DialogueLines: []string{
					"*happy fox noises*",
					"Patches trots alongside you, tail flicking.",
				},
				BaseSpeed:         3.0,
				InteractionRadius: 2,
				MovementPattern:   "follow_player",
			},
			"monster": {
				DialogueLines: []string{"*a low growl*"},
				CombatStats: &CombatStats{
					Attack:     15,
					Defense:    5,
					XPBounty:   100,
					GoldBounty: 25,
				},
				BaseSpeed:         2.6,
				InteractionRadius: 3,
				MovementPattern:   "aggressive_patrol",
			},
			"elder": {
				DialogueLines: []string{
					"Sit a while, young one. These woods were old before I was born.",
					"The lakes move, you know. Not quickly. But they move.",
				},
				BaseSpeed:         1.0,
				InteractionRadius: 3,
				MovementPattern:   "stationary",
			},
			"ranger": {
				DialogueLines: []string{
					"Keep to the grass paths after dark.",
					"I've tracked the wolf as far as the north ridge.",
				},
				BaseSpeed:         3.2,
				InteractionRadius: 3,
				MovementPattern:   "wide_patrol",
			},
			"stranger": {
				DialogueLines: []string{
					"...",
					"We have not met. Let us keep it that way.",
				},
				BaseSpeed:         2.2,
				InteractionRadius: 2,
				MovementPattern:   "random",
			},
		},
		Roster: []RosterEntry{
			{Name: "Eldric the Wise", Archetype: "quest_giver", X: 87.5, Y: 16.7, Health: 100, Level: 12,
				Personality: map[string]float64{"wisdom": 95, "friendliness": 80, "aggression": 5}},
			{Name: "Gorin Goldbeard", Archetype: "merchant", X: 25, Y: 66.7, Health: 100, Level: 8,
				Personality: map[string]float64{"greed": 70, "friendliness": 65, "aggression": 10}},
			{Name: "Maya Brightsmile", Archetype: "villager", X: 62.5, Y: 33.3, Health: 100, Level: 3,
				Personality: map[string]float64{"friendliness": 90, "curiosity": 75, "aggression": 2}},
			{Name: "Thorin Swiftarrow", Archetype: "ranger", X: 37.5, Y: 26.7, Health: 100, Level: 9,
				Personality: map[string]float64{"vigilance": 85, "friendliness": 50, "aggression": 30}},
			{Name: "The Shadow", Archetype: "stranger", X: 12.5, Y: 16.7, Health: 100, Level: 10,
				Personality: map[string]float64{"secrecy": 95, "friendliness": 20, "aggression": 40}},
			{Name: "Elder Rowan", Archetype: "elder", X: 50, Y: 50, Health: 90, Level: 15,
				Personality: map[string]float64{"wisdom": 90, "friendliness": 85, "aggression": 0}},
			{Name: "Patches", Archetype: "companion", X: 55, Y: 60, Health: 80, Level: 2,
				Personality: map[string]float64{"loyalty": 95, "playfulness": 90, "aggression": 15}},
			{Name: "Grimfang", Archetype: "monster", X: 95, Y: 73.3, Health: 60, Level: 5,
				Personality: map[string]float64{"aggression": 85, "cunning": 60}},
			{Name: "Skarr the Mean", Archetype: "monster", X: 20, Y: 10, Health: 80, Level: 7,
				Personality: map[string]float64{"aggression": 92, "cunning": 40}},
		},
	}
}
