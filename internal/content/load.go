// Content pack loading. A pack file is YAML validated against an embedded
// JSON schema; loaded archetypes override the built-in defaults per key,
// and a non-empty roster replaces the default roster wholesale.
package content

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const packSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"archetypes": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"properties": {
					"dialogue_lines": {"type": "array", "items": {"type": "string"}},
					"trade_inventory": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["name", "price"],
							"properties": {
								"name": {"type": "string"},
								"price": {"type": "integer", "minimum": 0}
							}
						}
					},
					"quest_offers": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["title"],
							"properties": {
								"title": {"type": "string"},
								"description": {"type": "string"},
								"reward_gold": {"type": "integer", "minimum": 0},
								"reward_xp": {"type": "integer", "minimum": 0}
							}
						}
					},
					"combat_stats": {
						"type": "object",
						"properties": {
							"attack": {"type": "integer"},
							"defense": {"type": "integer"},
							"xp_bounty": {"type": "integer"},
							"gold_bounty": {"type": "integer"}
						}
					},
					"base_speed": {"type": "number", "minimum": 0},
					"interaction_radius": {"type": "number", "minimum": 0},
					"movement_pattern": {
						"type": "string",
						"enum": ["stationary", "small_area", "patrol", "wide_patrol", "random",
							"aggressive_patrol", "guard_area", "follow_player", "traveling", "work_area"]
					}
				}
			}
		},
		"roster": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "archetype"],
				"properties": {
					"name": {"type": "string"},
					"archetype": {"type": "string"},
					"x": {"type": "number", "minimum": 0, "maximum": 100},
					"y": {"type": "number", "minimum": 0, "maximum": 100},
					"health": {"type": "integer", "minimum": 0},
					"level": {"type": "integer", "minimum": 0},
					"personality": {
						"type": "object",
						"additionalProperties": {"type": "number", "minimum": 0, "maximum": 100}
					},
					"movement_pattern": {"type": "string"}
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("pack.schema.json", packSchema)

// Load reads a YAML content pack, validates it and merges it over the
// defaults.
func Load(path string) (*Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content pack: %w", err)
	}
	return Parse(raw)
}

// Parse validates and merges a YAML content pack document.
func Parse(raw []byte) (*Pack, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content pack: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate content pack: %w", err)
	}

	var loaded Pack
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}

	pack := Default()
	for name, data := range loaded.Archetypes {
		pack.Archetypes[name] = data
	}
	if len(loaded.Roster) > 0 {
		pack.Roster = loaded.Roster
	}

	slog.Info("content pack loaded",
		"archetypes", len(loaded.Archetypes),
		"roster", len(pack.Roster),
	)
	return pack, nil
}
