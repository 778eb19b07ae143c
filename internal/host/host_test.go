package host_test

import (
	"bytes"
	"errors"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

// recorder is a simulation that logs its lifecycle calls into a shared
// journal and borrows one mesh so handle accounting can be checked.
type recorder struct {
	key     string
	journal *[]string
	env     sim.Env
	state   sim.State
	mesh    *render.Mesh
	failErr error
	updates int
	last    params.Snapshot
	lastDt  float64
}

func (r *recorder) Key() string      { return r.key }
func (r *recorder) Info() sim.Info   { return sim.Info{Key: r.key, Title: r.key} }
func (r *recorder) State() sim.State { return r.state }

func (r *recorder) Controls() []sim.Control {
	return []sim.Control{{ID: r.key + "Speed", Kind: sim.Slider, Max: 1}}
}

func (r *recorder) Initialize() error {
	*r.journal = append(*r.journal, r.key+":initialize")
	if r.failErr != nil {
		return r.failErr
	}
	m, err := r.env.Target.AcquireMesh()
	if err != nil {
		return err
	}
	r.mesh = m
	r.state = sim.Active
	return nil
}

func (r *recorder) Update(dt, _ float64, p params.Snapshot) error {
	if r.state != sim.Active {
		return &sim.LifecycleError{Sim: r.key, Op: "update", State: r.state, Err: sim.ErrNotActive}
	}
	r.updates++
	r.last = p
	r.lastDt = dt
	return nil
}

func (r *recorder) OnResize(render.Size) error { return nil }

func (r *recorder) Cleanup() error {
	if r.state == sim.Disposed {
		return nil
	}
	*r.journal = append(*r.journal, r.key+":cleanup")
	r.state = sim.Disposed
	if r.mesh != nil {
		return r.env.Target.Release(r.mesh)
	}
	return nil
}

var _ = Describe("Host", func() {
	var (
		scene   *render.Scene
		journal []string
		built   map[string]*recorder
		reg     *host.Registry
		h       *host.Host
		logs    *bytes.Buffer
	)

	record := func(key string) host.Factory {
		return func(env sim.Env) sim.Simulation {
			r := &recorder{key: key, journal: &journal, env: env}
			built[key] = r
			return r
		}
	}

	BeforeEach(func() {
		scene = render.NewScene()
		journal = nil
		built = map[string]*recorder{}
		reg = host.NewRegistry()
		reg.Register("hypercube", record("hypercube"))
		reg.Register("hypersphere", record("hypersphere"))
		logs = &bytes.Buffer{}
		h = host.New(scene, host.WithRegistry(reg), host.WithLogger(log.New(logs, "", 0)))
	})

	Describe("Select", func() {
		It("cleans up the outgoing simulation exactly once before initializing the next", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.Select("hypersphere")).To(Succeed())

			Expect(journal).To(Equal([]string{
				"hypercube:initialize",
				"hypercube:cleanup",
				"hypersphere:initialize",
			}))
			Expect(h.Key()).To(Equal("hypersphere"))
			Expect(scene.Live()).To(Equal(1))
			Expect(logs.String()).To(ContainSubstring("loaded simulation: hypersphere"))
		})

		It("leaves nothing active after an unknown key", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.Select("hypersphere")).To(Succeed())

			err := h.Select("unknown")
			Expect(err).To(MatchError(host.ErrUnknownSimulation))

			var unknown *host.UnknownSimulationError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Key).To(Equal("unknown"))

			Expect(h.Active()).To(BeNil())
			Expect(h.Key()).To(BeEmpty())
			Expect(scene.Live()).To(BeZero())
			Expect(built["hypersphere"].State()).To(Equal(sim.Disposed))
			Expect(journal).To(HaveLen(4))
		})

		It("reports an initialize failure and leaves nothing active", func() {
			reg.Register("broken", func(env sim.Env) sim.Simulation {
				return &recorder{key: "broken", journal: &journal, env: env, failErr: errors.New("no gpu")}
			})
			Expect(h.Select("hypercube")).To(Succeed())

			Expect(h.Select("broken")).To(MatchError(ContainSubstring("no gpu")))
			Expect(h.Active()).To(BeNil())
			Expect(scene.Live()).To(BeZero())
			Expect(logs.String()).To(ContainSubstring("failed to load simulation broken"))
		})

		It("activates the next simulation even when the outgoing cleanup fails", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(scene.Release(built["hypercube"].mesh)).To(Succeed())

			Expect(h.Select("hypersphere")).To(MatchError(render.ErrReleased))
			Expect(h.Key()).To(Equal("hypersphere"))
			Expect(h.Active().State()).To(Equal(sim.Active))
			Expect(logs.String()).To(ContainSubstring("cleanup of hypercube failed"))
		})

		It("resets parameters for the incoming simulation", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.SetParam("rotationSpeeds.xw", 2.0)).To(Succeed())
			Expect(h.Params().Len()).To(Equal(1))

			Expect(h.Select("hypersphere")).To(Succeed())
			Expect(h.Params().Len()).To(BeZero())
		})
	})

	Describe("Tick", func() {
		It("is a no-op without an active simulation", func() {
			Expect(h.Tick(0.016, 0.016)).To(Succeed())
		})

		It("forwards the latest parameters and clamps negative dt", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.SetParam("pointSize", 0.1)).To(Succeed())
			Expect(h.SetParams(map[string]any{"rotationSpeeds": map[string]any{"xw": 1}})).To(Succeed())

			Expect(h.Tick(-1, 0.5)).To(Succeed())

			r := built["hypercube"]
			Expect(r.updates).To(Equal(1))
			Expect(r.lastDt).To(BeZero())
			Expect(r.last.FloatOr("pointSize", 0)).To(Equal(0.1))
			Expect(r.last.FloatOr("rotationSpeeds.xw", 0)).To(Equal(1.0))
		})

		It("restores control defaults on ResetParams", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.SetParam("hypercubeSpeed", 0.8)).To(Succeed())
			Expect(h.SetParam("pointSize", 0.1)).To(Succeed())

			h.ResetParams()
			Expect(h.Tick(0.016, 0.016)).To(Succeed())

			r := built["hypercube"]
			v, ok := r.last.Float("hypercubeSpeed")
			Expect(ok).To(BeTrue())
			Expect(v).To(BeZero())
			_, ok = r.last.Float("pointSize")
			Expect(ok).To(BeFalse())
		})

		It("undoes a sticky override of a built-in simulation", func() {
			th := host.New(scene, host.WithSize(render.Size{Width: 80, Height: 24}))
			defer th.Close()
			Expect(th.Select(sim.TesseractKey)).To(Succeed())
			Expect(th.SetParam(sim.WDistanceKey, 2.0)).To(Succeed())
			Expect(th.Tick(0, 0)).To(Succeed())

			th.ResetParams()
			Expect(th.Tick(0, 0)).To(Succeed())

			var lines *render.LineSet
			for _, handle := range scene.Handles() {
				if l, ok := handle.(*render.LineSet); ok {
					lines = l
				}
			}
			Expect(lines).NotTo(BeNil())
			Expect(lines.Points[0].X).To(BeNumerically("~", -0.75*4/(4+0.75+1e-5), 1e-9))
		})

		It("rejects malformed parameters", func() {
			Expect(h.SetParam("a.b.c", 1.0)).To(MatchError(params.ErrInvalidKey))
			Expect(h.SetParam("name", "text")).To(MatchError(params.ErrUnsupportedValue))
		})
	})

	Describe("Close", func() {
		It("releases everything and is idempotent", func() {
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(h.Close()).To(Succeed())
			Expect(h.Close()).To(Succeed())
			Expect(scene.Live()).To(BeZero())
			Expect(journal).To(Equal([]string{"hypercube:initialize", "hypercube:cleanup"}))
		})
	})

	Describe("Resize", func() {
		It("hands the latest size to the next simulation", func() {
			size := render.Size{Width: 640, Height: 480}
			Expect(h.Resize(size)).To(Succeed())
			Expect(h.Select("hypercube")).To(Succeed())
			Expect(built["hypercube"].env.Size).To(Equal(size))
		})
	})
})

var _ = Describe("Default registry", func() {
	It("knows the built-in simulations", func() {
		Expect(host.DefaultRegistry().Keys()).To(Equal([]string{
			sim.ClassicTesseractKey, sim.HypersphereKey, sim.SlicerKey, sim.TesseractKey,
		}))
	})

	It("describes simulations without initializing them", func() {
		info, err := host.DefaultRegistry().Info(sim.HypersphereKey)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Title).To(Equal("Hypersphere Point Cloud"))

		_, err = host.DefaultRegistry().Controls("nope")
		Expect(err).To(MatchError(host.ErrUnknownSimulation))
	})

	DescribeTable("swapping never leaks render buffers",
		func(from, to string) {
			scene := render.NewScene()
			h := host.New(scene, host.WithSeed(7), host.WithSize(render.Size{Width: 80, Height: 24}))

			Expect(h.Select(from)).To(Succeed())
			Expect(h.Tick(0.016, 0.016)).To(Succeed())
			Expect(h.Select(to)).To(Succeed())
			Expect(h.Tick(0.016, 0.032)).To(Succeed())
			Expect(h.Active().State()).To(Equal(sim.Active))

			Expect(h.Close()).To(Succeed())
			Expect(scene.Live()).To(BeZero())
			acquired, released := scene.Stats()
			Expect(released).To(Equal(acquired))
		},
		Entry("tesseract to hypersphere", sim.TesseractKey, sim.HypersphereKey),
		Entry("hypersphere to slicer", sim.HypersphereKey, sim.SlicerKey),
		Entry("slicer to classic", sim.SlicerKey, sim.ClassicTesseractKey),
		Entry("classic to tesseract", sim.ClassicTesseractKey, sim.TesseractKey),
		Entry("same key twice", sim.TesseractKey, sim.TesseractKey),
	)
})
