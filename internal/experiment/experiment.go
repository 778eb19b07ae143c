// Package experiment runs a simulation headless at a fixed time step and
// records per-frame metrics.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/metrics"
	"github.com/san-kum/hypersim/internal/render"
)

type Config struct {
	Simulation string
	Dt         float64
	Duration   float64
	Seed       int64
	Size       render.Size
	Params     map[string]any
}

// Result holds the per-frame series and the aggregate value of every metric.
type Result struct {
	Times   []float64
	Series  map[string][]float64
	Metrics map[string]float64
}

// Names returns the recorded series names, sorted.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Series))
	for name := range r.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Observer is called after every frame.
type Observer func(t float64, scene *render.Scene)

type Experiment struct {
	cfg       Config
	registry  *host.Registry
	logger    *log.Logger
	metrics   []metrics.Metric
	observers []Observer
	scene     *render.Scene
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg, scene: render.NewScene()}
}

func (e *Experiment) WithRegistry(r *host.Registry) *Experiment {
	e.registry = r
	return e
}

func (e *Experiment) WithLogger(l *log.Logger) *Experiment {
	e.logger = l
	return e
}

func (e *Experiment) AddMetric(m metrics.Metric) {
	e.metrics = append(e.metrics, m)
}

func (e *Experiment) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// Scene is the in-memory target the run draws into.
func (e *Experiment) Scene() *render.Scene { return e.scene }

// Steps is the number of frames a run takes.
func (e *Experiment) Steps() int {
	if e.cfg.Dt <= 0 {
		return 0
	}
	return int(math.Round(e.cfg.Duration / e.cfg.Dt))
}

func (e *Experiment) Run(ctx context.Context) (res *Result, err error) {
	if e.cfg.Dt <= 0 {
		return nil, fmt.Errorf("experiment: dt must be positive, got %g", e.cfg.Dt)
	}

	opts := []host.Option{host.WithSeed(e.cfg.Seed), host.WithSize(e.cfg.Size)}
	if e.registry != nil {
		opts = append(opts, host.WithRegistry(e.registry))
	}
	if e.logger != nil {
		opts = append(opts, host.WithLogger(e.logger))
	}
	h := host.New(e.scene, opts...)
	defer func() {
		err = errors.Join(err, h.Close())
	}()

	if err := h.Select(e.cfg.Simulation); err != nil {
		return nil, err
	}
	if len(e.cfg.Params) > 0 {
		if err := h.SetParams(e.cfg.Params); err != nil {
			return nil, fmt.Errorf("experiment: params: %w", err)
		}
	}

	steps := e.Steps()
	res = &Result{
		Times:   make([]float64, 0, steps+1),
		Series:  make(map[string][]float64, len(e.metrics)),
		Metrics: make(map[string]float64, len(e.metrics)),
	}
	for _, m := range e.metrics {
		m.Reset()
	}
	e.record(res, 0)

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		t := float64(i) * e.cfg.Dt
		if err := h.Tick(e.cfg.Dt, t); err != nil {
			return res, fmt.Errorf("experiment: frame %d: %w", i, err)
		}
		e.record(res, t)
	}

	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res, nil
}

func (e *Experiment) record(res *Result, t float64) {
	res.Times = append(res.Times, t)
	for _, m := range e.metrics {
		m.Observe(e.scene, t)
		res.Series[m.Name()] = append(res.Series[m.Name()], m.Last())
	}
	for _, o := range e.observers {
		o(t, e.scene)
	}
}
