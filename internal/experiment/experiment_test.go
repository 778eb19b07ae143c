package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/metrics"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

func TestRun(t *testing.T) {
	exp := New(Config{Simulation: sim.TesseractKey, Dt: 0.1, Duration: 1, Seed: 1})
	for _, m := range metrics.Default() {
		exp.AddMetric(m)
	}
	frames := 0
	exp.AddObserver(func(float64, *render.Scene) { frames++ })

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(res.Times) != 11 || frames != 11 {
		t.Errorf("expected 11 frames, got %d times and %d observer calls", len(res.Times), frames)
	}
	for _, name := range res.Names() {
		if len(res.Series[name]) != len(res.Times) {
			t.Errorf("series %s has %d samples", name, len(res.Series[name]))
		}
	}
	if res.Metrics["extent"] <= 0 {
		t.Errorf("expected positive extent, got %f", res.Metrics["extent"])
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("a tesseract at w distance 4 should stay bounded, got %f", res.Metrics["stability"])
	}
	if exp.Scene().Live() != 0 {
		t.Errorf("run leaked %d handles", exp.Scene().Live())
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() *Result {
		exp := New(Config{Simulation: sim.HypersphereKey, Dt: 0.05, Duration: 0.5, Seed: 42})
		exp.AddMetric(metrics.NewExtent())
		res, err := exp.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a, b := run(), run()
	for i := range a.Series["extent"] {
		if a.Series["extent"][i] != b.Series["extent"][i] {
			t.Fatalf("frame %d differs between seeded runs", i)
		}
	}
}

func TestRunAppliesParams(t *testing.T) {
	exp := New(Config{
		Simulation: sim.TesseractKey,
		Dt:         0.1,
		Duration:   0.5,
		Params:     map[string]any{"rotationSpeeds": map[string]any{"xw": 0.0, "yz": 0.0, "zw": 0.0, "xy": 0.0}},
	})
	m := metrics.NewMotion()
	exp.AddMetric(m)
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Metrics["motion"] != 0 {
		t.Errorf("expected a still tesseract, got motion %f", res.Metrics["motion"])
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := New(Config{Simulation: sim.TesseractKey}).Run(context.Background()); err == nil {
		t.Error("expected error for zero dt")
	}

	_, err := New(Config{Simulation: "nope", Dt: 0.1, Duration: 1}).Run(context.Background())
	if !errors.Is(err, host.ErrUnknownSimulation) {
		t.Errorf("expected unknown simulation, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exp := New(Config{Simulation: sim.SlicerKey, Dt: 0.1, Duration: 1})
	if _, err := exp.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
	if exp.Scene().Live() != 0 {
		t.Error("cancelled run leaked handles")
	}
}
