package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/survivor/internal/bt"
	"github.com/joeycumines/survivor/internal/geom"
	"github.com/joeycumines/survivor/internal/world"
)

func TestNewTree_DefaultOrder(t *testing.T) {
	t.Parallel()

	root, err := NewTree(nil)
	require.NoError(t, err)
	require.Equal(t, bt.KindSelector, root.Kind())

	var names []string
	for _, child := range root.Children() {
		names = append(names, child.Name())
	}
	assert.Equal(t, DefaultOrder, names)
}

func TestNewTree_CustomOrder(t *testing.T) {
	t.Parallel()

	root, err := NewTree(ParseOrder(" survival, combat ,wander,"))
	require.NoError(t, err)
	require.Len(t, root.Children(), 3)
	assert.Equal(t, BranchSurvival, root.Children()[0].Name())
	assert.Equal(t, BranchWander, root.Children()[2].Name())
}

func TestNewTree_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewTree([]string{"combat", "dance"})
	require.ErrorIs(t, err, ErrUnknownBranch)

	_, err = NewTree([]string{"combat", "combat"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownBranch)
}

func tick(t *testing.T, h *harness) {
	t.Helper()
	root, err := NewTree(nil)
	require.NoError(t, err)
	status, err := bt.New(h.ctx, root).Tick()
	require.NoError(t, err)
	require.Equal(t, bt.Success, status)
}

func TestTree_UnarmedAgentFleesEnemy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	change(t, h, KeyEnemiesInFOV, []world.EnemyInfo{{Location: geom.Vec(10, 0)}})

	tick(t, h)
	steering := get(t, h, KeySteeringOutput)
	assert.InDelta(t, -5, steering.LinearVelocity.X, 1e-9)
	assert.True(t, steering.RunMode)
	assert.True(t, get(t, h, KeyIsFleeing))

	// enemy gone: keeps fleeing from where it was seen
	change(t, h, KeyEnemiesInFOV, nil)
	tick(t, h)
	assert.InDelta(t, -5, get(t, h, KeySteeringOutput).LinearVelocity.X, 1e-9)
}

func TestTree_RunFromBiteLeavesFleeFlagsAloneWhenThreatIsFar(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	change(t, h, KeyInDanger, true)
	change(t, h, KeyTarget, geom.Vec(0, 80))

	for range 3 {
		tick(t, h)
		assert.False(t, get(t, h, KeyIsFleeing))
		assert.False(t, get(t, h, KeyWasFleeing))
	}
	assert.True(t, get(t, h, KeySteeringOutput).LinearVelocity.IsZero())
}

func TestTree_ArmedAgentShootsWhenFacing(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	h.give(t, 1, world.ItemPistol, 10)
	change(t, h, KeyEnemiesInFOV, []world.EnemyInfo{{Location: geom.Vec(10, 0)}})

	tick(t, h)
	assert.Equal(t, 9.0, h.items.charge[1])
	steering := get(t, h, KeySteeringOutput)
	assert.False(t, steering.AutoOrient)
	assert.Less(t, steering.LinearVelocity.X, 0.0, "backs away while shooting")

	change(t, h, KeyEnemiesInFOV, []world.EnemyInfo{{Location: geom.Vec(0, 10)}})
	tick(t, h)
	assert.Equal(t, 9.0, h.items.charge[1], "not facing, so only aims")
	assert.Greater(t, get(t, h, KeySteeringOutput).AngularVelocity, 0.0)
}

func TestTree_ArmedAgentHoldsGroundOutsideFightRadius(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	h.give(t, 1, world.ItemPistol, 10)
	change(t, h, KeyEnemiesInFOV, []world.EnemyInfo{{Location: geom.Vec(25, 0)}})

	tick(t, h)
	assert.Equal(t, 9.0, h.items.charge[1])
	steering := get(t, h, KeySteeringOutput)
	assert.True(t, steering.LinearVelocity.IsZero(), "enemy is inside the flee radius but outside the fight radius")
	assert.False(t, steering.AutoOrient)
	assert.Equal(t, DefaultTuning().FightRadius, get(t, h, KeyFleeDistance))
}

func TestTree_HealsBeforeExploring(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	h.give(t, 1, world.ItemMedkit, 5)
	p := h.player()
	p.Health = 4
	h.setPlayer(p)

	tick(t, h)
	assert.Equal(t, 4.0, h.items.charge[1])
}

func TestTree_WalksToWorthwhileItem(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	gun := h.items.spawn(3, world.ItemPistol, 10, geom.Vec(20, 0))
	change(t, h, KeyItemsInFOV, []world.EntityInfo{gun})

	tick(t, h)
	assert.InDelta(t, 5, get(t, h, KeySteeringOutput).LinearVelocity.X, 1e-9)

	p := h.player()
	p.Position = geom.Vec(19, 0)
	h.setPlayer(p)
	tick(t, h)
	assert.True(t, h.inv.ContainsItemOfType(world.ItemPistol))
}

func TestTree_ExploresWorldWhenIdle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, 5)
	tick(t, h)
	assert.Equal(t, h.ws.Waypoints()[1], get(t, h, KeyTarget))
	assert.False(t, get(t, h, KeySteeringOutput).LinearVelocity.IsZero())
}
