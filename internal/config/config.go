package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

const (
	DefaultSystem       = "pendulum"
	DefaultIntegrator   = "rk4"
	DefaultInitialAngle = 110.0
	DefaultStepSize     = 0.04
	DefaultDuration     = 30.0
	DefaultSurface      = "tui"
	DefaultOutputDir    = "frames"
)

// Surface names accepted in the surface field.
var Surfaces = []string{"tui", "window", "svg", "png", "log", "mqtt", "audio", "none"}

// Config describes one run. Angles are degrees in the file and radians
// everywhere else.
type Config struct {
	System     string `yaml:"system"`
	Integrator string `yaml:"integrator"`

	InitialTime  float64 `yaml:"initial_time"`
	InitialAngle float64 `yaml:"initial_angle"`
	InitialOmega float64 `yaml:"initial_omega"`
	Damping      float64 `yaml:"damping"`
	Length       float64 `yaml:"length"`
	Gravity      float64 `yaml:"gravity"`

	// Oscillator only.
	InitialPosition float64 `yaml:"initial_position"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	Frequency       float64 `yaml:"frequency"`

	StepSize      float64 `yaml:"step_size"`
	TotalDuration float64 `yaml:"total_duration"`
	Pacing        bool    `yaml:"pacing"`
	ValidateState bool    `yaml:"validate_state"`

	Surface   string `yaml:"surface"`
	OutputDir string `yaml:"output_dir"`
	MQTTURL   string `yaml:"mqtt_url"`
}

// DefaultConfig is the classic run: a damped pendulum released at 110
// degrees, stepped every 0.04 s for 30 s in real time.
func DefaultConfig() *Config {
	return &Config{
		System:          DefaultSystem,
		Integrator:      DefaultIntegrator,
		InitialAngle:    DefaultInitialAngle,
		Damping:         physics.DefaultDamping,
		Length:          physics.DefaultLength,
		Gravity:         physics.DefaultGravity,
		InitialPosition: 1,
		Frequency:       1,
		StepSize:        DefaultStepSize,
		TotalDuration:   DefaultDuration,
		Pacing:          true,
		Surface:         DefaultSurface,
		OutputDir:       DefaultOutputDir,
		MQTTURL:         "mqtt://localhost:1883/stepsim",
	}
}

// Load overlays the YAML file at path on DefaultConfig.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the YAML file at path on base, which it modifies.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

type field struct {
	name  string
	value float64
}

func (c *Config) Validate() error {
	positive := []field{{"step_size", c.StepSize}, {"total_duration", c.TotalDuration}}
	switch c.System {
	case "pendulum":
		positive = append(positive, field{"length", c.Length})
	case "oscillator":
		positive = append(positive, field{"frequency", c.Frequency})
	default:
		return fmt.Errorf("unknown system %q: %w", c.System, dynamo.ErrInvalidConfig)
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be positive, got %g: %w", p.name, p.value, dynamo.ErrInvalidConfig)
		}
	}
	if !knownSurface(c.Surface) {
		return fmt.Errorf("unknown surface %q: %w", c.Surface, dynamo.ErrInvalidConfig)
	}
	return nil
}

func knownSurface(name string) bool {
	for _, s := range Surfaces {
		if s == name {
			return true
		}
	}
	return false
}

// InitialState is the state the run starts from, in radians for the
// pendulum.
func (c *Config) InitialState() dynamo.State {
	if c.System == "oscillator" {
		return dynamo.State{c.InitialPosition, c.InitialVelocity}
	}
	return dynamo.State{c.InitialAngle * math.Pi / 180, c.InitialOmega}
}

// Params are the system parameters by the names SetParam accepts.
func (c *Config) Params() map[string]float64 {
	if c.System == "oscillator" {
		return map[string]float64{"omega": c.Frequency}
	}
	return map[string]float64{
		"length":  c.Length,
		"damping": c.Damping,
		"gravity": c.Gravity,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		InitialTime:   c.InitialTime,
		Duration:      c.TotalDuration,
		Step:          c.StepSize,
		Pacing:        c.Pacing,
		ValidateState: c.ValidateState,
	}
}

// SetField sets a numeric field by its yaml name. Angles stay in degrees.
func (c *Config) SetField(name string, v float64) error {
	switch name {
	case "initial_time":
		c.InitialTime = v
	case "initial_angle":
		c.InitialAngle = v
	case "initial_omega":
		c.InitialOmega = v
	case "damping":
		c.Damping = v
	case "length":
		c.Length = v
	case "gravity":
		c.Gravity = v
	case "initial_position":
		c.InitialPosition = v
	case "initial_velocity":
		c.InitialVelocity = v
	case "frequency":
		c.Frequency = v
	case "step_size":
		c.StepSize = v
	case "total_duration":
		c.TotalDuration = v
	default:
		return fmt.Errorf("no numeric field %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return nil
}
