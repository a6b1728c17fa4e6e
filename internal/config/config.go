package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/swing/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS   = 60
	DefaultSteps = 600
	DefaultTheme = "minimal"
	// MaxScale bounds the terminal zoom in dots per logical pixel.
	MaxScale = 16
)

type Config struct {
	Params    dynamo.Params   `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	FPS       int             `yaml:"fps"`
	// Scale is the number of terminal dots per logical pixel. Zero fits the
	// pendulum's reach into the terminal height.
	Scale float64 `yaml:"scale"`
	Theme string  `yaml:"theme"`
	Steps int     `yaml:"steps"`
}

type InitStateConfig struct {
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	Omega1 float64 `yaml:"omega1"`
	Omega2 float64 `yaml:"omega2"`
}

func DefaultConfig() *Config {
	s0 := dynamo.InitialState()
	return &Config{
		Params: dynamo.DefaultParams(),
		InitState: InitStateConfig{
			Theta1: s0.Theta1,
			Theta2: s0.Theta2,
		},
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
		Steps: DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Scale < 0 || c.Scale > MaxScale || math.IsNaN(c.Scale) {
		return fmt.Errorf("scale must be in [0, %d], got %g", MaxScale, c.Scale)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	return nil
}

func (c *Config) GetInitState() dynamo.State {
	return dynamo.State{
		Theta1: c.InitState.Theta1,
		Theta2: c.InitState.Theta2,
		Omega1: c.InitState.Omega1,
		Omega2: c.InitState.Omega2,
	}
}
