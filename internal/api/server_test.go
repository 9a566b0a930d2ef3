package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/emberwood/internal/content"
	"github.com/talgya/emberwood/internal/engine"
	"github.com/talgya/emberwood/internal/entities"
	"github.com/talgya/emberwood/internal/world"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	sim := engine.NewSimulation(content.Default(), world.GenConfig{Width: 20, Height: 15, Seed: 42})
	srv := &Server{Sim: sim, Hub: NewHub()}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var status map[string]any
	resp := getJSON(t, ts.URL+"/api/v1/status", &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Emberwood", status["name"])
	assert.Equal(t, float64(42), status["seed"])
	assert.Equal(t, float64(9), status["entities"])
}

func TestWorldEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var body struct {
		Width  int            `json:"width"`
		Height int            `json:"height"`
		Tiles  [][]world.Tile `json:"tiles"`
		Nodes  []struct {
			Kind string `json:"kind"`
		} `json:"nodes"`
	}
	getJSON(t, ts.URL+"/api/v1/world", &body)

	assert.Equal(t, 20, body.Width)
	assert.Equal(t, 15, body.Height)
	require.Len(t, body.Tiles, 15)
	require.Len(t, body.Tiles[0], 20)
	for _, n := range body.Nodes {
		assert.NotEqual(t, "none", n.Kind)
	}
}

func TestEntityEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	var snaps []engine.EntitySnapshot
	getJSON(t, ts.URL+"/api/v1/entities", &snaps)
	require.Len(t, snaps, 9)

	var detail entities.Entity
	resp := getJSON(t, fmt.Sprintf("%s/api/v1/entity/%d", ts.URL, snaps[0].ID), &detail)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, snaps[0].Name, detail.Name)

	resp = getJSON(t, ts.URL+"/api/v1/entity/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/v1/entity/banana", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlayerMoveAndHarvest(t *testing.T) {
	srv, ts := newTestServer(t)

	var moved struct {
		Position entities.Vec2 `json:"position"`
	}
	postJSON(t, ts.URL+"/api/v1/player", entities.Vec2{X: 120, Y: -5}, &moved)
	assert.Equal(t, entities.Vec2{X: 100, Y: 0}, moved.Position, "positions clamp to the viewport")

	// Plant a known tree so the harvest is deterministic.
	g := srv.Sim.Grid()
	c := world.Coord{X: 0, Y: 0}
	g.Tiles[0][0] = world.Tile{Terrain: world.TerrainGrass, Biome: world.BiomeForest, Resource: world.ResourceTree}
	g.Nodes[c] = &world.ResourceNode{Coord: c, Kind: world.ResourceTree, RespawnDelayMs: world.RespawnTreeMs}

	var res struct {
		Harvested bool               `json:"harvested"`
		Reward    *world.Reward      `json:"reward"`
		Stats     engine.PlayerStats `json:"stats"`
	}
	postJSON(t, ts.URL+"/api/v1/harvest", map[string]int{"x": 0, "y": 0}, &res)
	require.True(t, res.Harvested)
	assert.Equal(t, "wood", res.Reward.Item)
	assert.Equal(t, 3, res.Stats.Inventory["wood"])

	// Second attempt: exhausted.
	postJSON(t, ts.URL+"/api/v1/harvest", map[string]int{"x": 0, "y": 0}, &res)
	assert.False(t, res.Harvested)
}

func TestInteractOverHTTP(t *testing.T) {
	srv, ts := newTestServer(t)

	var merchant *entities.Entity
	for _, e := range srv.Sim.Registry().All() {
		if e.Archetype == entities.ArchMerchant {
			merchant = e
			break
		}
	}
	require.NotNil(t, merchant)
	srv.Sim.SetPlayer(entities.Vec2{X: merchant.Position.X + 1, Y: merchant.Position.Y})

	var res engine.InteractionResult
	postJSON(t, ts.URL+"/api/v1/interact", map[string]uint64{"entity_id": uint64(merchant.ID)}, &res)
	assert.Equal(t, engine.InteractTrade, res.Kind)
	assert.NotEmpty(t, res.Trade)

	var ended map[string]bool
	postJSON(t, ts.URL+"/api/v1/interact/end", map[string]uint64{"entity_id": uint64(merchant.ID)}, &ended)
	assert.True(t, ended["ended"])

	resp := postJSON(t, ts.URL+"/api/v1/interact", map[string]uint64{"entity_id": 9999}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegenerateEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	var res struct {
		Seed int64 `json:"seed"`
	}
	postJSON(t, ts.URL+"/api/v1/regenerate", map[string]int64{"seed": 7}, &res)
	assert.Equal(t, int64(7), res.Seed)

	var status map[string]any
	getJSON(t, ts.URL+"/api/v1/status", &status)
	assert.Equal(t, float64(7), status["seed"])
}

func TestMutationsRejectGet(t *testing.T) {
	_, ts := newTestServer(t)

	for _, path := range []string{"/api/v1/harvest", "/api/v1/interact", "/api/v1/regenerate"} {
		resp := getJSON(t, ts.URL+path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}
}

func TestSaveWithoutDatabase(t *testing.T) {
	_, ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/v1/save", map[string]any{}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebsocketFeed(t *testing.T) {
	srv, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the subscription to register, then push a frame.
	require.Eventually(t, func() bool { return srv.Hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	snaps := srv.Sim.Tick(100)
	srv.Hub.Broadcast(srv.Sim.CurrentTick(), snaps)

	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, uint64(1), frame.Tick)
	assert.Len(t, frame.Entities, 9)
}
