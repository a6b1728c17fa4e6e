package config

import (
	"math"
	"sort"

	"github.com/san-kum/swing/internal/dynamo"
)

var Presets = map[string]*Config{
	"classic": {
		Params:    dynamo.DefaultParams(),
		InitState: InitStateConfig{Theta1: math.Pi / 2, Theta2: math.Pi / 2},
		FPS:       DefaultFPS, Theme: DefaultTheme, Steps: DefaultSteps,
	},
	// original keeps the stronger gravity of the first web version
	"original": {
		Params:    dynamo.Params{Rod1: 125, Rod2: 125, Mass1: 10, Mass2: 10, Gravity: 1, Damping: 0.999},
		InitState: InitStateConfig{Theta1: math.Pi / 2, Theta2: math.Pi / 2},
		FPS:       DefaultFPS, Theme: DefaultTheme, Steps: DefaultSteps,
	},
	"gentle": {
		Params:    dynamo.Params{Rod1: 125, Rod2: 125, Mass1: 10, Mass2: 10, Gravity: 0.2, Damping: 0.995},
		InitState: InitStateConfig{Theta1: 0.6, Theta2: 0.6},
		FPS:       DefaultFPS, Theme: "ocean", Steps: DefaultSteps,
	},
	"heavy": {
		Params:    dynamo.Params{Rod1: 100, Rod2: 150, Mass1: 10, Mass2: 30, Gravity: 0.5, Damping: 0.9995},
		InitState: InitStateConfig{Theta1: 3.0, Theta2: 3.0},
		FPS:       DefaultFPS, Theme: "cyberpunk", Steps: DefaultSteps,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
