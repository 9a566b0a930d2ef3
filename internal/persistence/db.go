// Package persistence provides SQLite-based session storage: the world
// grid, the entity roster and the player's progress, saved as a full
// replace so a session survives a restart.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/emberwood/internal/content"
	"github.com/talgya/emberwood/internal/engine"
	"github.com/talgya/emberwood/internal/entities"
	"github.com/talgya/emberwood/internal/world"
)

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS world_grid (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		tiles_zstd BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		archetype TEXT NOT NULL,
		pos_x REAL NOT NULL,
		pos_y REAL NOT NULL,
		health INTEGER NOT NULL,
		max_health INTEGER NOT NULL,
		level INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		unconscious INTEGER NOT NULL,
		movement_pattern TEXT NOT NULL,
		personality_json TEXT NOT NULL,
		quests_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGrid stores the grid as a single row, tiles compressed with zstd.
// Resource nodes are not stored; they rebuild from the tiles on load.
func (db *DB) SaveGrid(g *world.Grid) error {
	raw, err := json.Marshal(g.Tiles)
	if err != nil {
		return fmt.Errorf("encode tiles: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	blob := enc.EncodeAll(raw, nil)
	enc.Close()

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO world_grid
		(id, seed, width, height, tiles_zstd) VALUES (1, ?, ?, ?, ?)`,
		g.Seed, g.Width, g.Height, blob,
	)
	return err
}

// LoadGrid rebuilds the persisted grid under a fresh epoch. Returns nil
// with no error when no grid has been saved yet.
func (db *DB) LoadGrid() (*world.Grid, error) {
	var row struct {
		Seed      int64  `db:"seed"`
		Width     int    `db:"width"`
		Height    int    `db:"height"`
		TilesZstd []byte `db:"tiles_zstd"`
	}
	err := db.conn.Get(&row, "SELECT seed, width, height, tiles_zstd FROM world_grid WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load grid: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(row.TilesZstd, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress tiles: %w", err)
	}

	var tiles [][]world.Tile
	if err := json.Unmarshal(raw, &tiles); err != nil {
		return nil, fmt.Errorf("decode tiles: %w", err)
	}

	g := &world.Grid{
		Width:  row.Width,
		Height: row.Height,
		Seed:   row.Seed,
		Epoch:  uuid.New(),
		Tiles:  tiles,
		Nodes:  make(map[world.Coord]*world.ResourceNode),
	}
	for y := range tiles {
		for x := range tiles[y] {
			if kind := tiles[y][x].Resource; kind != world.ResourceNone {
				c := world.Coord{X: x, Y: y}
				g.Nodes[c] = &world.ResourceNode{
					Coord:          c,
					Kind:           kind,
					RespawnDelayMs: world.RespawnDelay(kind),
				}
			}
		}
	}
	return g, nil
}

// SaveEntities writes the roster to the database (full replace). The
// movement pattern rides along per row so roster-level overrides survive
// a restart.
func (db *DB) SaveEntities(reg *entities.Registry) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entities"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO entities
		(id, name, archetype, pos_x, pos_y, health, max_health, level,
		 alive, unconscious, movement_pattern, personality_json, quests_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range reg.All() {
		personalityJSON, _ := json.Marshal(e.Personality)
		questsJSON, _ := json.Marshal(e.QuestOffers)

		pattern := entities.PatternStationary
		if c := reg.Controller(e.ID); c != nil {
			pattern = c.Pattern
		}

		_, err := stmt.Exec(
			e.ID, e.Name, e.Archetype.String(),
			e.Position.X, e.Position.Y,
			e.Health, e.MaxHealth, e.Level,
			boolInt(e.Alive), boolInt(e.Unconscious),
			pattern.String(),
			string(personalityJSON), string(questsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert entity %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// LoadEntities rebuilds the registry from saved rows, re-attaching static
// capabilities from the content pack and fresh controllers seeded from the
// session seed.
func (db *DB) LoadEntities(pack *content.Pack, seed int64) (*entities.Registry, error) {
	type row struct {
		ID              uint64  `db:"id"`
		Name            string  `db:"name"`
		Archetype       string  `db:"archetype"`
		PosX            float64 `db:"pos_x"`
		PosY            float64 `db:"pos_y"`
		Health          int     `db:"health"`
		MaxHealth       int     `db:"max_health"`
		Level           int     `db:"level"`
		Alive           int     `db:"alive"`
		Unconscious     int     `db:"unconscious"`
		MovementPattern string  `db:"movement_pattern"`
		PersonalityJSON string  `db:"personality_json"`
		QuestsJSON      string  `db:"quests_json"`
	}
	var rows []row
	if err := db.conn.Select(&rows, "SELECT * FROM entities ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load entities: %w", err)
	}

	reg := entities.NewRegistry()
	for i, r := range rows {
		data := pack.Archetype(r.Archetype)

		e := &entities.Entity{
			ID:                entities.EntityID(r.ID),
			Name:              r.Name,
			Archetype:         entities.ParseArchetype(r.Archetype),
			Position:          entities.Vec2{X: r.PosX, Y: r.PosY},
			Health:            r.Health,
			MaxHealth:         r.MaxHealth,
			Level:             r.Level,
			InteractionRadius: data.InteractionRadius,
			BaseSpeed:         data.BaseSpeed,
			Dialogue:          append([]string(nil), data.DialogueLines...),
			Trade:             append([]content.TradeItem(nil), data.TradeInventory...),
			Alive:             r.Alive != 0,
			Unconscious:       r.Unconscious != 0,
		}
		if data.CombatStats != nil {
			stats := *data.CombatStats
			e.Combat = &stats
		}
		if err := json.Unmarshal([]byte(r.PersonalityJSON), &e.Personality); err != nil {
			return nil, fmt.Errorf("entity %d personality: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.QuestsJSON), &e.QuestOffers); err != nil {
			return nil, fmt.Errorf("entity %d quests: %w", r.ID, err)
		}

		ctrl := entities.NewController(e, entities.ParsePattern(r.MovementPattern), seed+int64(i)*101)
		reg.Add(e, ctrl)
	}
	return reg, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, category, description) VALUES (?, ?, ?)",
			e.Tick, e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in session metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO session_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM session_meta WHERE key = ?", key)
	return value, err
}

// SaveSession performs a full save of a running simulation.
func (db *DB) SaveSession(sim *engine.Simulation) error {
	grid := sim.Grid()
	reg := sim.Registry()
	slog.Info("saving session", "tick", sim.CurrentTick(), "entities", reg.Len())

	if err := db.SaveGrid(grid); err != nil {
		return fmt.Errorf("save grid: %w", err)
	}
	if err := db.SaveEntities(reg); err != nil {
		return fmt.Errorf("save entities: %w", err)
	}
	if err := db.SaveEvents(sim.Events()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}

	stats := sim.Stats()
	statsJSON, _ := json.Marshal(stats)
	player := sim.Player()
	playerJSON, _ := json.Marshal(player)

	metas := map[string]string{
		"last_tick":    strconv.FormatUint(sim.CurrentTick(), 10),
		"player_stats": string(statsJSON),
		"player_pos":   string(playerJSON),
	}
	for k, v := range metas {
		if err := db.SaveMeta(k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	slog.Info("session saved")
	return nil
}

// LoadSession rebuilds a simulation from storage. Returns nil with no
// error when nothing has been saved yet.
func (db *DB) LoadSession(pack *content.Pack) (*engine.Simulation, error) {
	grid, err := db.LoadGrid()
	if err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, nil
	}

	reg, err := db.LoadEntities(pack, grid.Seed)
	if err != nil {
		return nil, err
	}

	var tick uint64
	if v, err := db.GetMeta("last_tick"); err == nil {
		tick, _ = strconv.ParseUint(v, 10, 64)
	}
	var stats engine.PlayerStats
	if v, err := db.GetMeta("player_stats"); err == nil {
		if err := json.Unmarshal([]byte(v), &stats); err != nil {
			return nil, fmt.Errorf("decode player stats: %w", err)
		}
	}

	sim := engine.Restore(pack, grid, reg, tick, stats)
	if v, err := db.GetMeta("player_pos"); err == nil {
		var pos entities.Vec2
		if err := json.Unmarshal([]byte(v), &pos); err == nil {
			sim.SetPlayer(pos)
		}
	}

	slog.Info("session restored", "tick", tick, "seed", grid.Seed, "entities", reg.Len())
	return sim, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
