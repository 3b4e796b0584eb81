// Package config loads springy's settings from defaults, an optional TOML file and
// SPRINGY_* environment variables, in increasing order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/TFMV/springy/physics"
	"github.com/TFMV/springy/runner"
)

// EnvPrefix is the prefix of environment overrides, e.g. SPRINGY_LAYOUT_REPULSION
const EnvPrefix = "SPRINGY"

// Config is the full configuration
type Config struct {
	Layout LayoutConfig `mapstructure:"layout" toml:"layout"`
	Run    RunConfig    `mapstructure:"run" toml:"run"`
	Graph  GraphConfig  `mapstructure:"graph" toml:"graph"`
	Output OutputConfig `mapstructure:"output" toml:"output"`
	Log    LogConfig    `mapstructure:"log" toml:"log"`
}

// LayoutConfig holds the physics tunables
type LayoutConfig struct {
	Stiffness     float64 `mapstructure:"stiffness" toml:"stiffness"`
	Repulsion     float64 `mapstructure:"repulsion" toml:"repulsion"`
	Damping       float64 `mapstructure:"damping" toml:"damping"`
	CenterAttract float64 `mapstructure:"center_attract" toml:"center_attract"`
}

// RunConfig controls the tick loop
type RunConfig struct {
	TimeStep       float64 `mapstructure:"time_step" toml:"time_step"`
	MaxIterations  int     `mapstructure:"max_iterations" toml:"max_iterations"`
	Threshold      float64 `mapstructure:"threshold" toml:"threshold"`
	TicksPerSecond float64 `mapstructure:"ticks_per_second" toml:"ticks_per_second"`
}

// GraphConfig selects the demo graph to lay out
type GraphConfig struct {
	Shape  string `mapstructure:"shape" toml:"shape"`
	Size   int    `mapstructure:"size" toml:"size"`
	Seed   int64  `mapstructure:"seed" toml:"seed"`
	Seeder string `mapstructure:"seeder" toml:"seeder"` // xorshift or noise
}

// OutputConfig controls the report
type OutputConfig struct {
	Format string `mapstructure:"format" toml:"format"`
}

// LogConfig controls logging
type LogConfig struct {
	Debug bool `mapstructure:"debug" toml:"debug"`
	JSON  bool `mapstructure:"json" toml:"json"`
}

// Default returns the built-in configuration
func Default() *Config {
	run := runner.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{
			Stiffness:     physics.DefaultStiffness,
			Repulsion:     physics.DefaultRepulsion,
			Damping:       physics.DefaultDamping,
			CenterAttract: physics.DefaultCenterAttract,
		},
		Run: RunConfig{
			TimeStep:      physics.DefaultTimeStep,
			MaxIterations: run.MaxIterations,
			Threshold:     run.Threshold,
		},
		Graph: GraphConfig{
			Shape:  "ring",
			Size:   12,
			Seed:   1,
			Seeder: "xorshift",
		},
		Output: OutputConfig{Format: "json"},
	}
}

// SetDefaults registers every default with v
func SetDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("layout.stiffness", def.Layout.Stiffness)
	v.SetDefault("layout.repulsion", def.Layout.Repulsion)
	v.SetDefault("layout.damping", def.Layout.Damping)
	v.SetDefault("layout.center_attract", def.Layout.CenterAttract)

	v.SetDefault("run.time_step", def.Run.TimeStep)
	v.SetDefault("run.max_iterations", def.Run.MaxIterations)
	v.SetDefault("run.threshold", def.Run.Threshold)
	v.SetDefault("run.ticks_per_second", def.Run.TicksPerSecond)

	v.SetDefault("graph.shape", def.Graph.Shape)
	v.SetDefault("graph.size", def.Graph.Size)
	v.SetDefault("graph.seed", def.Graph.Seed)
	v.SetDefault("graph.seeder", def.Graph.Seeder)

	v.SetDefault("output.format", def.Output.Format)

	v.SetDefault("log.debug", def.Log.Debug)
	v.SetDefault("log.json", def.Log.JSON)
}

// New returns a viper instance with defaults and environment binding. path, if not
// empty, names a TOML file to read.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return v, nil
}

// Load reads the configuration. An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the layout cannot run with
func (c *Config) Validate() error {
	switch {
	case c.Layout.Stiffness < 0:
		return errors.Newf("layout.stiffness must not be negative, got %g", c.Layout.Stiffness)
	case c.Layout.Repulsion < 0:
		return errors.Newf("layout.repulsion must not be negative, got %g", c.Layout.Repulsion)
	case c.Layout.Damping <= 0 || c.Layout.Damping > 1:
		return errors.WithHint(
			errors.Newf("layout.damping must be in (0, 1], got %g", c.Layout.Damping),
			"values near 0.5 settle quickly without freezing the layout")
	case c.Layout.CenterAttract < 0:
		return errors.Newf("layout.center_attract must not be negative, got %g", c.Layout.CenterAttract)
	case c.Run.TimeStep <= 0:
		return errors.Newf("run.time_step must be positive, got %g", c.Run.TimeStep)
	case c.Run.MaxIterations <= 0:
		return errors.Newf("run.max_iterations must be positive, got %d", c.Run.MaxIterations)
	case c.Run.Threshold <= 0:
		return errors.Newf("run.threshold must be positive, got %g", c.Run.Threshold)
	case c.Run.TicksPerSecond < 0:
		return errors.Newf("run.ticks_per_second must not be negative, got %g", c.Run.TicksPerSecond)
	case c.Graph.Size < 0:
		return errors.Newf("graph.size must not be negative, got %d", c.Graph.Size)
	case c.Graph.Seeder != "xorshift" && c.Graph.Seeder != "noise":
		return errors.Newf("graph.seeder must be xorshift or noise, got %q", c.Graph.Seeder)
	}
	return nil
}

// Write renders cfg as TOML to path
func Write(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}
