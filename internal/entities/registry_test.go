package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/emberwood/internal/content"
)

func TestBuildRosterFromDefaults(t *testing.T) {
	reg := BuildRoster(content.Default(), 42)

	require.Equal(t, 9, reg.Len())

	all := reg.All()
	assert.Equal(t, "Eldric the Wise", all[0].Name)
	assert.Equal(t, ArchQuestGiver, all[0].Archetype)
	assert.NotEmpty(t, all[0].QuestOffers)

	var monsters int
	for _, e := range all {
		assert.True(t, e.Alive)
		assert.Greater(t, e.Health, 0)
		assert.Greater(t, e.BaseSpeed, 0.0)
		require.NotNil(t, reg.Controller(e.ID))
		if e.Hostile() {
			monsters++
			require.NotNil(t, e.Combat)
		}
	}
	assert.Equal(t, 2, monsters)
}

func TestRosterSpawnDeterministic(t *testing.T) {
	a := BuildRoster(content.Default(), 42)
	b := BuildRoster(content.Default(), 42)

	player := Vec2{X: 50, Y: 50}
	for i := 0; i < 100; i++ {
		for _, c := range a.Controllers() {
			c.Tick(100, player)
		}
		for _, c := range b.Controllers() {
			c.Tick(100, player)
		}
	}
	ea, eb := a.All(), b.All()
	require.Equal(t, len(ea), len(eb))
	for i := range ea {
		assert.Equal(t, ea[i].Position, eb[i].Position, ea[i].Name)
	}
}

func TestDeathResolution(t *testing.T) {
	reg := BuildRoster(content.Default(), 42)

	var monsterID, villagerID EntityID
	for _, e := range reg.All() {
		switch {
		case e.Hostile() && monsterID == 0:
			monsterID = e.ID
		case e.Archetype == ArchVillager && villagerID == 0:
			villagerID = e.ID
		}
	}
	require.NotZero(t, monsterID)
	require.NotZero(t, villagerID)

	before := reg.Len()
	reg.ApplyDeath(monsterID)
	assert.Nil(t, reg.Entity(monsterID), "slain monsters leave the arena")
	assert.Equal(t, before-1, reg.Len())

	reg.ApplyDeath(villagerID)
	v := reg.Entity(villagerID)
	require.NotNil(t, v, "civilians stay in the arena")
	assert.True(t, v.Unconscious)
	assert.Equal(t, 0, v.Health)

	// Unknown IDs are ignored.
	reg.ApplyDeath(9999)
}

func TestQuestClaimIsPerEntity(t *testing.T) {
	reg := BuildRoster(content.Default(), 1)

	var giver *Entity
	for _, e := range reg.All() {
		if e.Archetype == ArchQuestGiver {
			giver = e
			break
		}
	}
	require.NotNil(t, giver)

	q := giver.UnclaimedQuest()
	require.NotNil(t, q)
	q.Claimed = true

	next := giver.UnclaimedQuest()
	require.NotNil(t, next)
	assert.NotEqual(t, q.Title, next.Title)

	// The content pack itself stays pristine.
	fresh := content.Default().Archetypes["quest_giver"].QuestOffers
	for _, offer := range fresh {
		assert.False(t, offer.Claimed)
	}
}
