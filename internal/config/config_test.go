package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/swing/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Params != dynamo.DefaultParams() {
		t.Errorf("expected default params, got %+v", cfg.Params)
	}
	if cfg.GetInitState() != dynamo.InitialState() {
		t.Errorf("expected the initial state, got %v", cfg.GetInitState())
	}
	if cfg.FPS <= 0 {
		t.Error("fps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swing.yaml")
	data := []byte("params:\n  gravity: 1\n  rod1: 125\n  rod2: 125\n  mass1: 10\n  mass2: 10\n  damping: 0.999\nfps: 30\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Params.Gravity != 1 {
		t.Errorf("expected gravity 1, got %g", cfg.Params.Gravity)
	}
	if cfg.FPS != 30 {
		t.Errorf("expected fps 30, got %d", cfg.FPS)
	}
	if cfg.InitState.Theta1 != math.Pi/2 {
		t.Errorf("unset fields should keep defaults, got theta1=%g", cfg.InitState.Theta1)
	}
}

func TestLoadRejectsInvalidParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("params:\n  damping: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, dynamo.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("heavy")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative scale", func(c *Config) { c.Scale = -1 }},
		{"huge scale", func(c *Config) { c.Scale = 2000 }},
		{"infinite scale", func(c *Config) { c.Scale = math.Inf(1) }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"bad rod", func(c *Config) { c.Params.Rod1 = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("original")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params.Gravity != 1 {
		t.Errorf("expected gravity 1, got %g", cfg.Params.Gravity)
	}

	cfg.Params.Gravity = 99
	if Presets["original"].Params.Gravity != 1 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
