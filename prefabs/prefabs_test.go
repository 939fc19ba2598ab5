package prefabs

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/aicore/action"
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/steering"
)

func TestEmbeddedScenesBuild(t *testing.T) {
	cases := []struct {
		file      string
		obstacles int
		grid      bool
	}{
		{"obstacles.yaml", 20, false},
		{"maze.yaml", 8, true},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			s, err := LoadScene(c.file, WithRand(rand.New(rand.NewSource(2))))
			require.NoError(t, err)

			assert.Len(t, s.Obstacles, c.obstacles)
			assert.Equal(t, c.grid, s.Decomposer != nil)
			assert.NotNil(t, s.Wander)
			assert.True(t, s.Avoid.BroadphaseEnabled())
			assert.True(t, s.Targeter.Goal().PositionSet)
		})
	}
}

func TestRandomObstaclesStayInBounds(t *testing.T) {
	s, err := LoadScene("obstacles.yaml")
	require.NoError(t, err)
	for _, o := range s.Obstacles {
		assert.GreaterOrEqual(t, o.Position.X, -s.WorldSize+4)
		assert.LessOrEqual(t, o.Position.X, s.WorldSize-4)
		assert.GreaterOrEqual(t, o.Radius, 2.0)
		assert.LessOrEqual(t, o.Radius, 4.0)
	}

	again, err := LoadScene("obstacles.yaml")
	require.NoError(t, err)
	assert.Equal(t, s.Obstacles, again.Obstacles, "seeded obstacles are reproducible")
}

func TestRandomGoalAvoidsObstacles(t *testing.T) {
	s, err := BuildScene(SceneSpec{
		WorldSize: 20,
		Obstacles: []ObstacleSpec{{Position: Vec3Spec{0, 0, 0}, Radius: 8}},
	}, WithRand(rand.New(rand.NewSource(5))))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		g := s.RandomGoal()
		assert.False(t, s.Obstacles[0].Contains(g, goalClearance), "goal %v inside obstacle", g)
	}
}

func TestBuildSceneErrors(t *testing.T) {
	cases := []struct {
		name string
		spec SceneSpec
	}{
		{"negative_world", SceneSpec{WorldSize: -1}},
		{"bad_radius", SceneSpec{Obstacles: []ObstacleSpec{{Radius: 0}}}},
		{"bad_vector", SceneSpec{Character: KinematicSpec{Position: Vec3Spec{1}}}},
		{"bad_fallback", SceneSpec{Fallback: "panic"}},
		{"bad_grid", SceneSpec{Grid: &GridSpec{}}},
		{"bad_steps", SceneSpec{ConstraintSteps: -3}},
		{"bad_random_radii", SceneSpec{RandomObstacles: &RandomObstaclesSpec{Count: 2, MinRadius: 3, MaxRadius: 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := BuildScene(c.spec)
			assert.Error(t, err)
		})
	}
}

func TestSceneStatus(t *testing.T) {
	s, err := BuildScene(SceneSpec{
		Fallback:  FallbackNone,
		Character: KinematicSpec{Position: Vec3Spec{0, 0, 0}},
		Goal:      Vec3Spec{0, 0, 30},
		Obstacles: []ObstacleSpec{{Position: Vec3Spec{0, 0, 15}, Radius: 3}},
	})
	require.NoError(t, err)
	assert.Nil(t, s.Wander)

	var out steering.SteeringOutput
	s.Pipe.GetSteering(&out)
	assert.Equal(t, StatusHonouring, s.Status())

	s.SetGoal(geom.V3(30, 0, 0))
	s.Pipe.GetSteering(&out)
	assert.Equal(t, StatusHeading, s.Status())
}

func TestActionPlan(t *testing.T) {
	plan, err := LoadActionPlan("actions.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "c", "s", "t", "w", "x"}, plan.Keys())

	high, err := plan.Build("4")
	require.NoError(t, err)
	assert.Equal(t, 6.0, high.Priority())
	assert.True(t, high.CanInterrupt())

	seq, err := plan.Build("s")
	require.NoError(t, err)
	require.IsType(t, &action.Sequence{}, seq)
	assert.Len(t, seq.(*action.Sequence).SubActions(), 2)

	again, err := plan.Build("s")
	require.NoError(t, err)
	assert.NotSame(t, seq, again)

	_, err = plan.Build("?")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestScriptedPlanAction(t *testing.T) {
	plan, err := LoadActionPlan("actions.yaml", nil)
	require.NoError(t, err)

	a, err := plan.Build("x")
	require.NoError(t, err)
	sa, ok := a.(*action.ScriptAction)
	require.True(t, ok)
	assert.Equal(t, 1.0, sa.Priority())

	m := action.NewManager()
	require.NoError(t, m.Schedule(sa))
	for i := 0; i < 3; i++ {
		m.Execute()
	}
	assert.True(t, sa.IsComplete())
	assert.Zero(t, m.Len())
}

func TestActionPlanErrors(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	cases := []struct {
		name string
		spec ActionPlanSpec
	}{
		{"missing_key", ActionPlanSpec{Actions: []ActionSpec{{Kind: KindCounted}}}},
		{"duplicate_key", ActionPlanSpec{Actions: []ActionSpec{{Key: "a"}, {Key: "a"}}}},
		{"empty_sequence", ActionPlanSpec{Actions: []ActionSpec{{Key: "a", Kind: KindSequence, Priority: p(1)}}}},
		{"unknown_kind", ActionPlanSpec{Actions: []ActionSpec{{Key: "a", Kind: "teleport"}}}},
		{"script_without_file", ActionPlanSpec{Actions: []ActionSpec{{Key: "a", Kind: KindScript}}}},
		{"missing_script", ActionPlanSpec{Actions: []ActionSpec{{Key: "a", Kind: KindScript, Script: "nope.tengo"}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewActionPlan(c.spec, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "obstacles.yaml"), []byte("name: override\nworld_size: 10\n"), 0o644))

	spec, err := LoadSceneSpec("prefabs/obstacles.yaml")
	require.NoError(t, err)
	assert.Equal(t, "override", spec.Name)

	// Files missing on disk come from the embedded copy.
	plan, err := LoadActionPlanSpec("actions.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", plan.Name)
}

func TestLoadScriptPaths(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "patrol.tengo"), []byte("// disk"), 0o644))

	cases := []struct {
		name string
		want string
	}{
		{"patrol.tengo", "// disk"},
		{"scripts/patrol.tengo", "// disk"},
		{"prefabs/scripts/patrol.tengo", "// disk"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src, err := LoadScript(c.name)
			require.NoError(t, err)
			assert.Equal(t, c.want, string(src))
		})
	}

	embedded, err := LoadScript("countdown.tengo")
	require.NoError(t, err)
	assert.Contains(t, string(embedded), "act")

	for _, bad := range []string{"", "../secret.tengo"} {
		_, err := LoadScript(bad)
		assert.Error(t, err, "name %q", bad)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "patrol.tengo")
	require.NoError(t, os.WriteFile(path, []byte("act := func(e, s) {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case ch := <-w.Events:
		assert.Equal(t, "patrol.tengo", ch.Name())
		assert.Equal(t, ChangeScript, ch.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
	require.NoError(t, w.Close())
}

func TestVec3Spec(t *testing.T) {
	cases := []struct {
		name string
		in   Vec3Spec
		want geom.Vector3
		err  bool
	}{
		{"empty", nil, geom.Vector3{}, false},
		{"ground", Vec3Spec{1, 2}, geom.V3(1, 0, 2), false},
		{"full", Vec3Spec{1, 2, 3}, geom.V3(1, 2, 3), false},
		{"bad", Vec3Spec{1, 2, 3, 4}, geom.Vector3{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := c.in.Vector()
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, v)
		})
	}
}
