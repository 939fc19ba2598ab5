package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/aicore/geom"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec is written as [x, y, z]. Two values mean [x, z] on the ground.
type Vec3Spec []float64

func (v Vec3Spec) Vector() (geom.Vector3, error) {
	switch len(v) {
	case 0:
		return geom.Vector3{}, nil
	case 2:
		return geom.V3(v[0], 0, v[1]), nil
	case 3:
		return geom.V3(v[0], v[1], v[2]), nil
	}
	return geom.Vector3{}, fmt.Errorf("prefabs: vector needs 2 or 3 values, got %d", len(v))
}

type KinematicSpec struct {
	Position    Vec3Spec `yaml:"position"`
	Velocity    Vec3Spec `yaml:"velocity"`
	Orientation float64  `yaml:"orientation"`
}

type ObstacleSpec struct {
	Position Vec3Spec `yaml:"position"`
	Radius   float64  `yaml:"radius"`
}

type RandomObstaclesSpec struct {
	Count     int     `yaml:"count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	Seed      int64   `yaml:"seed"`
}

type WanderSpec struct {
	Volatility float64 `yaml:"volatility"`
	TurnSpeed  float64 `yaml:"turn_speed"`
}

type GridSpec struct {
	CellSize float64 `yaml:"cell_size"`
	Budget   int     `yaml:"budget"`
}

// SceneSpec describes one character, its pipeline and the obstacle field.
type SceneSpec struct {
	Name            string               `yaml:"name"`
	WorldSize       float64              `yaml:"world_size"`
	Character       KinematicSpec        `yaml:"character"`
	Goal            Vec3Spec             `yaml:"goal"`
	ConstraintSteps int                  `yaml:"constraint_steps"`
	AvoidMargin     float64              `yaml:"avoid_margin"`
	MaxAcceleration float64              `yaml:"max_acceleration"`
	Broadphase      bool                 `yaml:"broadphase"`
	Fallback        string               `yaml:"fallback"`
	Wander          WanderSpec           `yaml:"wander"`
	Obstacles       []ObstacleSpec       `yaml:"obstacles"`
	RandomObstacles *RandomObstaclesSpec `yaml:"random_obstacles"`
	Grid            *GridSpec            `yaml:"grid"`
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

// ActionSpec describes one action. Children are used by combination and
// sequence kinds; Script names a file under scripts/.
type ActionSpec struct {
	Key       string       `yaml:"key"`
	Name      string       `yaml:"name"`
	Kind      string       `yaml:"kind"`
	Count     int          `yaml:"count"`
	Priority  *float64     `yaml:"priority"`
	Interrupt bool         `yaml:"interrupt"`
	Tags      []string     `yaml:"tags"`
	Children  []ActionSpec `yaml:"children"`
	Script    string       `yaml:"script"`
}

type ActionPlanSpec struct {
	Name    string       `yaml:"name"`
	Actions []ActionSpec `yaml:"actions"`
}

func LoadActionPlanSpec(filename string) (ActionPlanSpec, error) {
	return LoadSpec[ActionPlanSpec](filename)
}
