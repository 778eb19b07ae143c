package viz

import (
	"fmt"
	"image"
	"io"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/metrics"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
)

const (
	defaultCols     = 60
	defaultRows     = 20
	historyCapacity = 300
	panelWidth      = 52
	maxFrameDt      = 0.1
)

type TickMsg time.Time

type screen int

const (
	screenMenu screen = iota
	screenSim
)

// Options configures a viewer session.
type Options struct {
	// Simulation skips the menu when set.
	Simulation string
	FPS        int
	Seed       int64
	// Params are applied after Simulation is first loaded.
	Params   map[string]any
	Registry *host.Registry
	Logger   *log.Logger
	// GIFPath is where G recordings are written.
	GIFPath string
}

// Model drives a host from Bubble Tea messages.
type Model struct {
	screen   screen
	keys     []string
	cursor   int
	registry *host.Registry

	host   *host.Host
	scene  *render.Scene
	canvas *render.Canvas
	camera *render.Camera
	extent *metrics.Extent

	history  []float64
	fps      int
	elapsed  float64
	frames   int
	lastTick time.Time
	running  bool
	control  int
	status   string
	loadErr  error
	showHelp bool

	width, height int

	initialKey    string
	initialParams map[string]any

	gifPath   string
	recording bool
	gifFrames []*image.Paletted
}

func NewModel(opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Registry == nil {
		opts.Registry = host.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "hypersim.gif"
	}

	scene := render.NewScene()
	hopts := []host.Option{host.WithRegistry(opts.Registry), host.WithLogger(opts.Logger)}
	if opts.Seed != 0 {
		hopts = append(hopts, host.WithSeed(opts.Seed))
	}

	canvas := render.NewCanvas(defaultCols, defaultRows)
	m := Model{
		screen:        screenMenu,
		keys:          opts.Registry.Keys(),
		registry:      opts.Registry,
		host:          host.New(scene, append(hopts, host.WithSize(canvas.DotSize()))...),
		scene:         scene,
		canvas:        canvas,
		camera:        render.NewCamera(),
		extent:        metrics.NewExtent(),
		history:       make([]float64, 0, historyCapacity),
		fps:           opts.FPS,
		running:       true,
		width:         defaultCols + panelWidth,
		height:        defaultRows,
		initialKey:    opts.Simulation,
		initialParams: opts.Params,
		gifPath:       opts.GIFPath,
	}
	if opts.Simulation != "" {
		m.load(opts.Simulation)
		for i, k := range m.keys {
			if k == opts.Simulation {
				m.cursor = i
			}
		}
	}
	return m
}

// Host exposes the underlying host, mostly for shutdown.
func (m Model) Host() *host.Host { return m.host }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// load selects key on the host. A failure is shown in the status line and
// leaves the viewer running with nothing active.
func (m *Model) load(key string) {
	m.screen = screenSim
	m.elapsed, m.frames, m.control = 0, 0, 0
	m.history = m.history[:0]
	m.extent.Reset()
	m.lastTick = time.Time{}

	m.loadErr, m.status = nil, ""
	if err := m.host.Select(key); err != nil {
		if m.host.Active() == nil {
			m.loadErr = err
			m.status = "simulation failed to load: " + err.Error()
			return
		}
		// only the outgoing simulation's cleanup failed
		m.status = "cleanup failed: " + err.Error()
	}
	if key == m.initialKey && len(m.initialParams) > 0 {
		if err := m.host.SetParams(m.initialParams); err != nil {
			m.status = "bad parameters: " + err.Error()
		}
	}
	m.render()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if m.screen == screenMenu {
			return m.menuKey(msg)
		}
		return m.simKey(msg)
	case TickMsg:
		if m.screen == screenSim {
			m.step(time.Time(msg))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(10, w-panelWidth-4)
	rows := max(5, h-2)
	m.canvas.Resize(cols, rows)
	if err := m.host.Resize(m.canvas.DotSize()); err != nil {
		m.status = err.Error()
	}
	m.render()
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.keys) > 0 {
			m.load(m.keys[m.cursor])
		}
	}
	return m, nil
}

func (m Model) simKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if err := m.host.Close(); err != nil {
			m.status = err.Error()
		}
		m.screen = screenMenu
	case " ":
		m.running = !m.running
	case "tab":
		if n := len(m.host.Controls()); n > 0 {
			m.control = (m.control + 1) % n
		}
	case "up":
		m.adjust(1)
	case "down":
		m.adjust(-1)
	case "r":
		m.host.ResetParams()
	case "n":
		m.cycle(1)
	case "p":
		m.cycle(-1)
	case "h", "left":
		m.camera.Orbit(-0.1, 0)
	case "l", "right":
		m.camera.Orbit(0.1, 0)
	case "k":
		m.camera.Orbit(0, 0.1)
	case "j":
		m.camera.Orbit(0, -0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "t":
		NextTheme()
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	m.render()
	return m, nil
}

func (m *Model) cycle(dir int) {
	if len(m.keys) == 0 {
		return
	}
	m.cursor = (m.cursor + dir + len(m.keys)) % len(m.keys)
	m.load(m.keys[m.cursor])
}

// adjust moves the selected control one step, or flips a checkbox.
func (m *Model) adjust(dir int) {
	controls := m.host.Controls()
	if len(controls) == 0 {
		return
	}
	c := controls[m.control%len(controls)]
	snap := m.host.Params()

	var err error
	switch c.Kind {
	case sim.Checkbox:
		on, ok := snap.Bool(c.ID)
		if !ok {
			on = c.DefaultOn
		}
		err = m.host.SetParam(c.ID, !on)
	default:
		v := snap.FloatOr(c.ID, c.Default) + float64(dir)*c.Step
		v = max(c.Min, min(c.Max, v))
		err = m.host.SetParam(c.ID, v)
	}
	if err != nil {
		m.status = err.Error()
	}
}

// step advances the host by the wall time since the last tick, capped so a
// stalled terminal does not make the simulation jump.
func (m *Model) step(now time.Time) {
	dt := 1 / float64(m.fps)
	if !m.lastTick.IsZero() {
		dt = min(maxFrameDt, max(0, now.Sub(m.lastTick).Seconds()))
	}
	m.lastTick = now

	if m.running && m.host.Active() != nil {
		m.elapsed += dt
		if err := m.host.Tick(dt, m.elapsed); err != nil {
			m.status = err.Error()
		}
		m.frames++
		m.extent.Observe(m.scene, m.elapsed)
		m.history = append(m.history, m.extent.Last())
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
	m.render()
	if m.recording {
		m.captureFrame()
	}
}

func (m *Model) render() {
	render.Rasterize(m.canvas, m.scene, m.camera)
}

func (m Model) View() string {
	if m.screen == screenMenu {
		return m.viewMenu()
	}
	canvas := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.canvas.String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(canvas), statsStyle.Render(m.viewPanel()))
	if m.showHelp {
		return helpBox + "\n" + main
	}
	return main
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle().Render("HYPERSIM") + "\n")
	b.WriteString("    " + mutedStyle().Render("four-dimensional objects in three") + "\n")
	b.WriteString("    " + Separator(34) + "\n\n")
	for i, key := range m.keys {
		title := key
		if info, err := m.registry.Info(key); err == nil {
			title = info.Title
		}
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", activeStyle().Render("▸"), valueStyle.Bold(true).Render(fmt.Sprintf("%-18s", key)), activeStyle().Render(title)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", mutedStyle().Render(fmt.Sprintf("%-18s", key)), mutedStyle().Render(title)))
		}
	}
	if m.status != "" {
		b.WriteString("\n    " + errorStyle().Render(m.status) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

func (m Model) viewPanel() string {
	var s strings.Builder
	active := m.host.Active()

	switch {
	case active != nil:
		info := active.Info()
		s.WriteString(headerStyle().Render(strings.ToUpper(info.Title)) + "\n")
		s.WriteString(mutedStyle().Width(panelWidth-14).Render(info.Description) + "\n\n")
	default:
		s.WriteString(headerStyle().Render("NO SIMULATION") + "\n\n")
	}

	status := StatusRunning.Render(AnimatedSpinner(m.frames) + " RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n")
	if m.status != "" {
		s.WriteString(errorStyle().Render(m.status) + "\n")
	}
	s.WriteString("\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Extent"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.elapsed)) + "\n")
	s.WriteString(labelStyle.Render("Frames") + valueStyle.Render(fmt.Sprintf("%d", m.frames)) + "\n")
	s.WriteString(labelStyle.Render("Buffers") + valueStyle.Render(fmt.Sprintf("%d live", m.scene.Live())) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(CurrentTheme.Name) + "\n")

	s.WriteString("\nCONTROLS\n")
	s.WriteString(m.viewControls())

	s.WriteString(helpStyle.Render("SP:Pause TAB:Control ↑↓:Adjust R:Reset\nN/P:Switch HJKL:Orbit +-:Zoom G:Record ?:Help"))
	return s.String()
}

func (m Model) viewControls() string {
	controls := m.host.Controls()
	if len(controls) == 0 {
		return labelStyle.Render("  (none)") + "\n"
	}
	snap := m.host.Params()
	var s strings.Builder
	for i, c := range controls {
		line := fmt.Sprintf("%-24s %s", c.Label, controlValue(c, snap))
		if i == m.control%len(controls) {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}
	return s.String()
}

func controlValue(c sim.Control, snap params.Snapshot) string {
	if c.Kind == sim.Checkbox {
		on, ok := snap.Bool(c.ID)
		if !ok {
			on = c.DefaultOn
		}
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	v := snap.FloatOr(c.ID, c.Default)
	ratio := 0.0
	if c.Max > c.Min {
		ratio = (v - c.Min) / (c.Max - c.Min)
	}
	return ProgressBar(ratio, 10) + fmt.Sprintf(" %.3f", v)
}

const helpBox = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  Tab      - Next control             ║
║  Up/Down  - Adjust control           ║
║  R        - Reset parameters         ║
║  N/P      - Next/previous simulation ║
║  H/L J/K  - Orbit camera             ║
║  +/-      - Zoom                     ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Esc      - Back to menu             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the viewer and cleans up the active simulation on exit.
func Run(opts Options) error {
	final, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	if m, ok := final.(Model); ok {
		if cerr := m.Host().Close(); err == nil {
			err = cerr
		}
	}
	return err
}
