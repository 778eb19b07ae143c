package automation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hypersim/internal/experiment"
	"github.com/san-kum/hypersim/internal/export"
	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/metrics"
	"github.com/san-kum/hypersim/internal/render"
)

// DefaultDt is the frame step used when a scenario does not set one.
const DefaultDt = 1.0 / 60

// Scenario defines a scripted session against a host
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Dt          float64        `yaml:"dt"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Exactly one action field
// should be set; AllowError lets an expected failure pass.
type ScenarioStep struct {
	Select     string         `yaml:"select,omitempty"`
	Set        map[string]any `yaml:"set,omitempty"`
	Resize     *Size          `yaml:"resize,omitempty"`
	Run        float64        `yaml:"run,omitempty"`
	Snapshot   string         `yaml:"snapshot,omitempty"`
	Expect     *Expectation   `yaml:"expect,omitempty"`
	AllowError bool           `yaml:"allow_error,omitempty"`
}

type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Expectation checks host state. An empty Active means no simulation.
type Expectation struct {
	Active *string `yaml:"active,omitempty"`
	Live   *int    `yaml:"live,omitempty"`
}

// ErrExpectation is wrapped when an expect step does not hold.
var ErrExpectation = errors.New("automation: expectation failed")

func (s ScenarioStep) action() string {
	switch {
	case s.Select != "":
		return "select"
	case s.Set != nil:
		return "set"
	case s.Resize != nil:
		return "resize"
	case s.Run > 0:
		return "run"
	case s.Snapshot != "":
		return "snapshot"
	case s.Expect != nil:
		return "expect"
	}
	return ""
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if step.action() == "" {
			return nil, fmt.Errorf("automation: step %d has no action", i+1)
		}
	}
	return &scenario, nil
}

// StepResult records what a step did.
type StepResult struct {
	Action     string
	Simulation string
	Frames     int
	Live       int
	Err        error
}

// Runner plays scenarios against one host drawing into scene.
type Runner struct {
	Host   *host.Host
	Scene  *render.Scene
	Camera *render.Camera
	Logger *log.Logger

	elapsed float64
}

func NewRunner(h *host.Host, scene *render.Scene) *Runner {
	return &Runner{Host: h, Scene: scene, Camera: render.NewCamera()}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// RunScenario executes all steps in a scenario, stopping at the first
// failure that is not allowed.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	dt := scenario.Dt
	if dt <= 0 {
		dt = DefaultDt
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r.logf("step %d/%d: %s", i+1, len(scenario.Steps), step.action())

		res := StepResult{Action: step.action()}
		res.Err = r.step(ctx, step, dt, &res)
		res.Simulation = r.Host.Key()
		res.Live = r.Scene.Live()
		results = append(results, res)

		if res.Err != nil && !step.AllowError {
			return results, fmt.Errorf("step %d (%s): %w", i+1, res.Action, res.Err)
		}
	}
	return results, nil
}

func (r *Runner) step(ctx context.Context, step ScenarioStep, dt float64, res *StepResult) error {
	switch res.Action {
	case "select":
		return r.Host.Select(step.Select)
	case "set":
		return r.Host.SetParams(step.Set)
	case "resize":
		return r.Host.Resize(render.Size{Width: step.Resize.Width, Height: step.Resize.Height})
	case "run":
		n := int(step.Run/dt + 0.5)
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.elapsed += dt
			if err := r.Host.Tick(dt, r.elapsed); err != nil {
				return err
			}
			res.Frames++
		}
		return nil
	case "snapshot":
		size := r.Host.Size()
		if size.Width <= 0 || size.Height <= 0 {
			size = render.Size{Width: 800, Height: 600}
		}
		svg := export.SceneToSVG(r.Scene, r.Camera, size)
		return os.WriteFile(step.Snapshot, []byte(svg), 0644)
	case "expect":
		return r.check(step.Expect)
	}
	return fmt.Errorf("automation: unknown action")
}

func (r *Runner) check(e *Expectation) error {
	if e.Active != nil && r.Host.Key() != *e.Active {
		return fmt.Errorf("%w: active is %q, want %q", ErrExpectation, r.Host.Key(), *e.Active)
	}
	if e.Live != nil && r.Scene.Live() != *e.Live {
		return fmt.Errorf("%w: %d live handles, want %d", ErrExpectation, r.Scene.Live(), *e.Live)
	}
	return nil
}

// ParameterSweep runs one simulation per value of a single parameter.
type ParameterSweep struct {
	Simulation string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Duration   float64
	Dt         float64
	Seed       int64
}

// SweepResult holds the aggregate metrics of one sweep point
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

// RunSweep executes a parameter sweep. Points run concurrently, each with its
// own scene and host; results keep the order of the parameter values.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step")
	}
	results := make([]SweepResult, sweep.NumSteps)
	errs := make([]error, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	var wg sync.WaitGroup
	for i := 0; i < sweep.NumSteps; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			paramVal := sweep.ParamMin + float64(idx)*paramStep

			exp := experiment.New(experiment.Config{
				Simulation: sweep.Simulation,
				Dt:         sweep.Dt,
				Duration:   sweep.Duration,
				Seed:       sweep.Seed,
				Params:     map[string]any{sweep.ParamName: paramVal},
			})
			for _, m := range metrics.Default() {
				exp.AddMetric(m)
			}

			result, err := exp.Run(ctx)
			if err != nil {
				errs[idx] = fmt.Errorf("sweep %s=%g: %w", sweep.ParamName, paramVal, err)
				return
			}
			results[idx] = SweepResult{ParamValue: paramVal, Metrics: result.Metrics}
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
