package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countdownScript = `
priority := 3
can_interrupt := true
tags := ["voice"]

act := func(engine, state) {
	state.seen = engine.tick()
	if engine.tick() >= 3 {
		engine.complete()
	}
}
`

func TestScriptActionGlobals(t *testing.T) {
	a, err := NewScriptAction("countdown", []byte(countdownScript))
	require.NoError(t, err)

	assert.Equal(t, 3.0, a.Priority())
	assert.True(t, a.CanInterrupt())
	assert.Equal(t, []string{"voice"}, a.Tags())
	assert.False(t, a.IsComplete())
	assert.Equal(t, "countdown", a.ActionName())
}

func TestScriptActionPriorityOverride(t *testing.T) {
	a, err := NewScriptAction("countdown", []byte(countdownScript), WithPriority(11))
	require.NoError(t, err)
	assert.Equal(t, 11.0, a.Priority())
}

func TestScriptActionLifecycle(t *testing.T) {
	a, err := NewScriptAction("countdown", []byte(countdownScript))
	require.NoError(t, err)

	m := NewManager()
	require.NoError(t, m.Schedule(a))

	m.Execute()
	m.Execute()
	require.Len(t, m.Active(), 1)
	assert.EqualValues(t, 2, a.State()["seen"])

	m.Execute()
	assert.Empty(t, m.Active())
	assert.True(t, a.IsComplete())
	assert.Equal(t, 3, a.Ticks())
}

func TestScriptActionErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", "act := func(engine, state) {"},
		{"missing_act", "priority := 1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewScriptAction(c.name, []byte(c.src))
			assert.Error(t, err)
		})
	}
}

func TestScriptActionRuntimeErrorFinishes(t *testing.T) {
	a, err := NewScriptAction("broken", []byte(`
act := func(engine, state) {
	engine.missing()
}
`))
	require.NoError(t, err)

	a.Act()
	assert.True(t, a.IsComplete())
	a.Act()
	assert.Equal(t, 1, a.Ticks())
}

func TestScriptActionMergesWithTagged(t *testing.T) {
	a, err := NewScriptAction("talk", []byte(countdownScript), WithPriority(1))
	require.NoError(t, err)
	walk := NewCountedAction("walk", 1, 10, false, "legs")

	m := NewManager()
	require.NoError(t, m.Schedule(walk))
	require.NoError(t, m.Schedule(a))
	m.Execute()

	assert.Len(t, m.Active(), 2)
}
