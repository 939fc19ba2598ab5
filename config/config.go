package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to environment overrides, e.g. AICORE_WORLD_SIZE
// or AICORE_WINDOW_WIDTH.
const EnvPrefix = "AICORE"

type Config struct {
	Debug bool `mapstructure:"debug"`

	Window   WindowConfig   `mapstructure:"window"`
	World    WorldConfig    `mapstructure:"world"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Motion   MotionConfig   `mapstructure:"motion"`
	Actions  ActionsConfig  `mapstructure:"actions"`
}

type WindowConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

type WorldConfig struct {
	Scene     string  `mapstructure:"scene"`
	Size      float64 `mapstructure:"size"`
	Obstacles int     `mapstructure:"obstacles"`
	Seed      int64   `mapstructure:"seed"`
	HotReload bool    `mapstructure:"hot_reload"`
}

type PipelineConfig struct {
	ConstraintSteps int     `mapstructure:"constraint_steps"`
	AvoidMargin     float64 `mapstructure:"avoid_margin"`
	MaxAcceleration float64 `mapstructure:"max_acceleration"`
	Broadphase      bool    `mapstructure:"broadphase"`
}

type MotionConfig struct {
	Drag      float64       `mapstructure:"drag"`
	MaxSpeed  float64       `mapstructure:"max_speed"`
	TickRate  int           `mapstructure:"tick_rate"`
	GoalReach float64       `mapstructure:"goal_reach"`
	Step      time.Duration `mapstructure:"step"`
}

type ActionsConfig struct {
	Plan string `mapstructure:"plan"`
}

// TickDuration is the simulation step in seconds.
func (c *Config) TickDuration() float64 {
	if c.Motion.Step > 0 {
		return c.Motion.Step.Seconds()
	}
	if c.Motion.TickRate > 0 {
		return 1 / float64(c.Motion.TickRate)
	}
	return 1.0 / 60
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.scale", 7.5)
	v.SetDefault("world.scene", "obstacles.yaml")
	v.SetDefault("world.size", 50.0)
	v.SetDefault("world.obstacles", 20)
	v.SetDefault("world.seed", 0)
	v.SetDefault("world.hot_reload", false)
	v.SetDefault("pipeline.constraint_steps", 100)
	v.SetDefault("pipeline.avoid_margin", 2.0)
	v.SetDefault("pipeline.max_acceleration", 50.0)
	v.SetDefault("pipeline.broadphase", true)
	v.SetDefault("motion.drag", 0.1)
	v.SetDefault("motion.max_speed", 20.0)
	v.SetDefault("motion.tick_rate", 60)
	v.SetDefault("motion.goal_reach", 2.0)
	v.SetDefault("motion.step", "0s")
	v.SetDefault("actions.plan", "actions.yaml")
}

// Load reads the YAML file at path over the defaults. An empty path uses
// defaults and environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalid = errors.New("config: invalid value")

func (c *Config) Validate() error {
	switch {
	case c.World.Size <= 0:
		return fmt.Errorf("%w: world.size must be positive", ErrInvalid)
	case c.World.Obstacles < 0:
		return fmt.Errorf("%w: world.obstacles must not be negative", ErrInvalid)
	case c.Pipeline.ConstraintSteps < 1:
		return fmt.Errorf("%w: pipeline.constraint_steps must be positive", ErrInvalid)
	case c.Motion.Drag < 0 || c.Motion.Drag > 1:
		return fmt.Errorf("%w: motion.drag must be within [0, 1]", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	}
	return nil
}

// NewLogger builds a development logger when debug is set and a production
// logger otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
