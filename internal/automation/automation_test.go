package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

const tour = `
name: tour
description: visit two simulations and make sure nothing leaks
dt: 0.05
steps:
  - select: tesseract
  - set:
      rotationSpeeds:
        xw: 1.0
  - run: 0.5
  - expect:
      active: tesseract
      live: 2
  - select: hypersphere
  - resize: {width: 320, height: 240}
  - run: 0.25
  - select: unknown
    allow_error: true
  - expect:
      active: ""
      live: 0
`

func newRunner() *Runner {
	scene := render.NewScene()
	return NewRunner(host.New(scene, host.WithSeed(1)), scene)
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(tour))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if sc.Name != "tour" || len(sc.Steps) != 9 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	r := newRunner()
	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 9 {
		t.Fatalf("expected 9 results, got %d", len(results))
	}
	if results[2].Frames != 10 {
		t.Errorf("expected 10 frames, got %d", results[2].Frames)
	}
	if results[4].Simulation != sim.HypersphereKey || results[4].Live != 1 {
		t.Errorf("unexpected select result %+v", results[4])
	}
	if !errors.Is(results[7].Err, host.ErrUnknownSimulation) {
		t.Errorf("expected unknown simulation error, got %v", results[7].Err)
	}
	if r.Host.Size() != (render.Size{Width: 320, Height: 240}) {
		t.Errorf("resize not applied: %+v", r.Host.Size())
	}
}

func TestRunScenarioStopsOnFailure(t *testing.T) {
	sc, err := ParseScenario([]byte(`
steps:
  - select: tesseract
  - expect:
      live: 5
  - run: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	results, err := newRunner().RunScenario(context.Background(), sc)
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected expectation failure, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected to stop after 2 steps, ran %d", len(results))
	}
}

func TestRunScenarioSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.svg")
	sc := &Scenario{Steps: []ScenarioStep{{Select: sim.SlicerKey}, {Run: 0.1}, {Snapshot: path}}}
	if _, err := newRunner().RunScenario(context.Background(), sc); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<line") {
		t.Error("snapshot has no strokes")
	}
}

func TestParseScenarioRejectsEmptyStep(t *testing.T) {
	if _, err := ParseScenario([]byte("steps:\n  - allow_error: true\n")); err == nil {
		t.Error("expected error for a step without an action")
	}
	if _, err := ParseScenario([]byte("steps: [\n")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(tour), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Dt != 0.05 {
		t.Errorf("expected dt 0.05, got %f", sc.Dt)
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &ParameterSweep{
		Simulation: sim.TesseractKey,
		ParamName:  sim.WDistanceKey,
		ParamMin:   2,
		ParamMax:   6,
		NumSteps:   3,
		Duration:   0.2,
		Dt:         0.1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || results[1].ParamValue != 4 {
		t.Fatalf("unexpected sweep %+v", results)
	}
	// a closer w viewpoint magnifies the projection
	if results[0].Metrics["extent"] <= results[2].Metrics["extent"] {
		t.Errorf("expected extent to shrink with distance: %v vs %v",
			results[0].Metrics["extent"], results[2].Metrics["extent"])
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{NumSteps: 0}); err == nil {
		t.Error("expected error for empty sweep")
	}
}
