package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/aicore/geom"
)

func TestGoalMerge(t *testing.T) {
	pos := geom.V3(1, 2, 3)
	vel := geom.V3(0, 0, 4)

	cases := []struct {
		name    string
		a, b    Goal
		wantErr bool
		want    Goal
	}{
		{
			name: "empty_into_empty",
		},
		{
			name: "position_and_velocity",
			a:    PositionGoal(pos),
			b:    Goal{Velocity: vel, VelocitySet: true},
			want: Goal{Position: pos, PositionSet: true, Velocity: vel, VelocitySet: true},
		},
		{
			name: "orientation_and_rotation",
			a:    Goal{Orientation: 1.5, OrientationSet: true},
			b:    Goal{Rotation: -0.5, RotationSet: true},
			want: Goal{Orientation: 1.5, OrientationSet: true, Rotation: -0.5, RotationSet: true},
		},
		{
			name:    "position_overlap",
			a:       PositionGoal(pos),
			b:       PositionGoal(geom.V3(9, 9, 9)),
			wantErr: true,
			want:    PositionGoal(pos),
		},
		{
			name:    "partial_overlap_changes_nothing",
			a:       Goal{Rotation: 1, RotationSet: true},
			b:       Goal{Position: pos, PositionSet: true, Rotation: 2, RotationSet: true},
			wantErr: true,
			want:    Goal{Rotation: 1, RotationSet: true},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, !c.wantErr, c.a.CanMerge(c.b))
			got := c.a
			err := got.Merge(c.b)
			if c.wantErr {
				require.ErrorIs(t, err, ErrGoalConflict)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestGoalUnsetChannelValuesIgnored(t *testing.T) {
	// A value left in an unset channel must not leak through a merge.
	g := PositionGoal(geom.V3(1, 0, 0))
	other := Goal{Velocity: geom.V3(5, 5, 5)}
	require.NoError(t, g.Merge(other))
	assert.False(t, g.VelocitySet)
	assert.True(t, g.Velocity.IsZero())
}

func TestGoalClear(t *testing.T) {
	g := PositionGoal(geom.V3(1, 0, 0))
	g.SetRotation(2)
	g.Clear()
	assert.True(t, g.IsEmpty())
}
