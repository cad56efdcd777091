package bt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testCtx records which leaves ran.
type testCtx struct {
	ran   []string
	flags map[string]bool
}

func newTestCtx() *testCtx {
	return &testCtx{flags: make(map[string]bool)}
}

func cond(name string) *Node[*testCtx] {
	return Conditional(name, func(c *testCtx) bool {
		c.ran = append(c.ran, name)
		return c.flags[name]
	})
}

func act(name string, status Status) *Node[*testCtx] {
	return Action(name, func(c *testCtx) Status {
		c.ran = append(c.ran, name)
		return status
	})
}

func TestSequence_StopsOnFailure(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Sequence("seq",
		act("a", Success),
		act("b", Failure),
		act("c", Success),
	))

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Failure, status)
	require.Equal(t, []string{"a", "b"}, ctx.ran)
}

func TestSequence_AllSucceed(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Sequence("seq", act("a", Success), act("b", Success)))

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Success, status)
	require.Equal(t, []string{"a", "b"}, ctx.ran)
}

func TestSequence_PropagatesRunning(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Sequence("seq", act("a", Running), act("b", Success)))

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Running, status)
	require.Equal(t, []string{"a"}, ctx.ran)
}

func TestSelector_StopsOnSuccess(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Selector("sel",
		act("a", Success),
		act("b", Success),
	))

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Success, status)
	require.Equal(t, []string{"a"}, ctx.ran)
}

func TestSelector_AllFail(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Selector("sel", act("a", Failure), act("b", Failure)))

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Failure, status)
	require.Equal(t, []string{"a", "b"}, ctx.ran)
}

func TestConditional_And_Inverted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		flag     bool
		inverted bool
		want     Status
	}{
		{"true", true, false, Success},
		{"false", false, false, Failure},
		{"inverted true", true, true, Failure},
		{"inverted false", false, true, Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestCtx()
			ctx.flags["x"] = tt.flag
			node := cond("x")
			if tt.inverted {
				node = Inverted(node)
			}
			status, err := New(ctx, node).Tick()
			require.NoError(t, err)
			require.Equal(t, tt.want, status)
		})
	}
}

func TestTree_ReevaluatesFromRootEachTick(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	tree := New(ctx, Selector("root",
		Sequence("guarded", cond("ready"), act("work", Success)),
		act("fallback", Success),
	))

	_, _ = tree.Tick()
	require.Equal(t, []string{"ready", "fallback"}, ctx.ran)

	ctx.ran = nil
	ctx.flags["ready"] = true
	_, _ = tree.Tick()
	require.Equal(t, []string{"ready", "work"}, ctx.ran)
}

func TestTree_Observer(t *testing.T) {
	t.Parallel()

	type event struct {
		name   string
		kind   Kind
		status Status
	}
	var events []event
	ctx := newTestCtx()
	tree := New(ctx,
		Selector("root",
			Sequence("first", Inverted(cond("blocked")), act("go", Failure)),
			act("rest", Success),
		),
		WithObserver(func(name string, kind Kind, status Status) {
			events = append(events, event{name, kind, status})
		}),
	)

	status, err := tree.Tick()
	require.NoError(t, err)
	require.Equal(t, Success, status)
	require.Equal(t, []event{
		{"not blocked", KindInverted, Success},
		{"go", KindAction, Failure},
		{"first", KindSequence, Failure},
		{"rest", KindAction, Success},
		{"root", KindSelector, Success},
	}, events)
}

func TestNode_StringAndWalk(t *testing.T) {
	t.Parallel()

	root := Selector("root",
		Sequence("s", cond("c"), act("a", Success)),
		act("b", Success),
	)
	require.Equal(t, "selector root\n  sequence s\n    condition c\n    action a\n  action b\n", root.String())

	var names []string
	root.Walk(func(depth int, n *Node[*testCtx]) {
		names = append(names, n.Name())
	})
	require.Equal(t, []string{"root", "s", "c", "a", "b"}, names)
	require.Len(t, root.Children(), 2)
	require.Equal(t, KindSelector, root.Kind())
}

func TestInverted_RequiresConditional(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Inverted(act("a", Success))
	})
	require.Panics(t, func() {
		Conditional[*testCtx]("nil", nil)
	})
}

func TestFromBool(t *testing.T) {
	t.Parallel()

	require.Equal(t, Success, FromBool(true))
	require.Equal(t, Failure, FromBool(false))
}

func TestEmptyComposites(t *testing.T) {
	t.Parallel()

	ctx := newTestCtx()
	s, err := New(ctx, Sequence[*testCtx]("empty")).Tick()
	require.NoError(t, err)
	require.Equal(t, Success, s)

	s, err = New(ctx, Selector[*testCtx]("empty")).Tick()
	require.NoError(t, err)
	require.Equal(t, Failure, s)
}
