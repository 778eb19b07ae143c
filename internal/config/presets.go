package config

import (
	"sort"

	"github.com/san-kum/hypersim/internal/sim"
)

var Presets = map[string]map[string]*Config{
	sim.TesseractKey: {
		"calm": {
			Simulation: sim.TesseractKey, FPS: 30, Dt: DefaultDt, Duration: 20.0,
			Params: map[string]any{"rotationSpeeds": map[string]any{"xw": 0.2, "yz": 0.3, "zw": 0.1, "xy": 0.05}},
		},
		"inside-out": {
			Simulation: sim.TesseractKey, FPS: 30, Dt: DefaultDt, Duration: 20.0,
			Params: map[string]any{"rotationSpeeds": map[string]any{"xw": 0.8, "yz": 0.0, "zw": 0.0, "xy": 0.0}},
		},
		"close-up": {
			Simulation: sim.TesseractKey, FPS: 30, Dt: DefaultDt, Duration: 10.0, WDistance: 2.0,
		},
	},
	sim.ClassicTesseractKey: {
		"legacy": {
			Simulation: sim.ClassicTesseractKey, FPS: 60, Dt: DefaultDt, Duration: 10.0,
		},
		"fast": {
			Simulation: sim.ClassicTesseractKey, FPS: 60, Dt: DefaultDt, Duration: 10.0,
			Params: map[string]any{"rotationSpeeds": map[string]any{"xw": 0.015, "yz": 0.02}},
		},
	},
	sim.HypersphereKey: {
		"glow": {
			Simulation: sim.HypersphereKey, FPS: 30, Dt: DefaultDt, Duration: 20.0,
			Params: map[string]any{"pointSize": 0.08, "useAdditiveBlending": true},
		},
		"drift": {
			Simulation: sim.HypersphereKey, FPS: 30, Dt: DefaultDt, Duration: 30.0,
			Params: map[string]any{"rotationSpeeds": map[string]any{"xw": 0.0, "yw": 0.0}},
		},
	},
	sim.SlicerKey: {
		"slow-scan": {
			Simulation: sim.SlicerKey, FPS: 30, Dt: DefaultDt, Duration: 30.0,
			Params: map[string]any{"sliceSpeed": 0.1},
		},
		"deep": {
			Simulation: sim.SlicerKey, FPS: 30, Dt: DefaultDt, Duration: 20.0,
			Params: map[string]any{"sliceAmplitude": 3.0},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(simulation, preset string) *Config {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	cfg, ok := simPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	if out.Width == 0 {
		out.Width, out.Height = DefaultWidth, DefaultHeight
	}
	return out
}

func ListPresets(simulation string) []string {
	simPresets, ok := Presets[simulation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(simPresets))
	for name := range simPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
