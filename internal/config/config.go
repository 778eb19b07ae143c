package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

const (
	DefaultSimulation = sim.TesseractKey
	DefaultFPS        = 30
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultWidth      = 800
	DefaultHeight     = 600
)

type Config struct {
	Simulation string         `yaml:"simulation"`
	FPS        int            `yaml:"fps"`
	Dt         float64        `yaml:"dt"`
	Duration   float64        `yaml:"duration"`
	Seed       int64          `yaml:"seed"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	WDistance  float64        `yaml:"w_distance,omitempty"`
	Params     map[string]any `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: DefaultSimulation,
		FPS:        DefaultFPS,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
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
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %g", c.Duration)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	var store params.Store
	return store.Merge(c.Params)
}

func (c *Config) Size() render.Size {
	return render.Size{Width: c.Width, Height: c.Height}
}

// ParamValues returns the params to apply after the simulation is selected.
// A non-zero w_distance is written under the key the simulation reads.
func (c *Config) ParamValues() map[string]any {
	out := make(map[string]any, len(c.Params)+1)
	for k, v := range c.Params {
		out[k] = v
	}
	if c.WDistance > 0 {
		out[WDistanceKey(c.Simulation)] = c.WDistance
	}
	return out
}

// WDistanceKey names the w viewpoint parameter of a simulation.
func WDistanceKey(simulation string) string {
	if simulation == sim.ClassicTesseractKey {
		return sim.PerspectiveKey
	}
	return sim.WDistanceKey
}

// Clone returns a deep enough copy for presets to be modified safely.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Params = make(map[string]any, len(c.Params))
	for k, v := range c.Params {
		if m, ok := v.(map[string]any); ok {
			inner := make(map[string]any, len(m))
			for ik, iv := range m {
				inner[ik] = iv
			}
			v = inner
		}
		cp.Params[k] = v
	}
	return &cp
}

// FrameDt is the step the interactive viewer uses at the configured FPS.
func (c *Config) FrameDt() float64 {
	if c.FPS <= 0 {
		return DefaultDt
	}
	return 1 / float64(c.FPS)
}
