package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/integrators"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 240
	trailLength     = 400
	frameInterval   = time.Second / 30
)

var canvasStyle = lipgloss.NewStyle().Padding(1, 2)

type TickMsg time.Time

type point struct{ x, y float64 }

// Model is the bubbletea model of the watch view: a top-down projection of
// the bodies next to the step count, energy and drift.
type Model struct {
	initial       []physics.Body
	bodies        []physics.Body
	integ         *integrators.Leapfrog
	limit         int
	stepsPerFrame int
	step          int
	running       bool
	scale         float64
	canvas        *Canvas
	trails        [][]point
	drift         *metrics.EnergyDrift
	trace         *metrics.EnergyTrace
	showHelp      bool
}

// NewModel validates bodies and normalizes their momentum the same way the
// simulator does. cfg.Steps > 0 stops the view after that many steps.
func NewModel(bodies []physics.Body, cfg dynamo.Config, stepsPerFrame int) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	ref := physics.Handle(cfg.Reference)
	if err := physics.ValidateSystem(bodies, ref); err != nil {
		return Model{}, err
	}
	initial := physics.Clone(bodies)
	if err := physics.OffsetMomentum(initial, ref); err != nil {
		return Model{}, err
	}
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	m := Model{
		initial:       initial,
		bodies:        physics.Clone(initial),
		integ:         integrators.NewLeapfrog(len(initial), cfg.Dt),
		limit:         cfg.Steps,
		stepsPerFrame: stepsPerFrame,
		running:       true,
		scale:         fitScale(initial),
		canvas:        NewCanvas(width, height),
		trails:        make([][]point, len(initial)),
		drift:         metrics.NewEnergyDrift(),
		trace:         metrics.NewEnergyTrace(historyCapacity),
	}
	m.observe()
	m.draw()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles key presses and advances the simulation on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.scale /= 1.25
		case "-", "_":
			m.scale *= 1.25
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case TickMsg:
		if m.running {
			m.advance()
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

// advance runs one frame worth of steps, never past the step limit.
func (m *Model) advance() {
	n := m.stepsPerFrame
	if m.limit > 0 {
		n = min(n, m.limit-m.step)
	}
	if n <= 0 {
		m.running = false
		return
	}
	m.integ.Advance(m.bodies, n)
	m.step += n
	m.observe()
	m.record()
}

func (m *Model) observe() {
	m.drift.Observe(m.step, m.bodies, m.integ.Pairs())
	m.trace.Observe(m.step, m.bodies, m.integ.Pairs())
}

func (m *Model) record() {
	for i := range m.bodies {
		m.trails[i] = append(m.trails[i], point{m.bodies[i].Pos.X, m.bodies[i].Pos.Y})
		if len(m.trails[i]) > trailLength {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.bodies = physics.Clone(m.initial)
	m.step = 0
	m.running = true
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
	m.drift.Reset()
	m.trace.Reset()
	m.observe()
}

// project maps ecliptic coordinates in AU to canvas sub-pixels, keeping the
// aspect ratio and putting the origin at the center.
func (m *Model) project(x, y float64) (int, int) {
	cx, cy := width, height*2
	f := float64(min(cx, cy)) / m.scale
	return cx + int(math.Round(x*f)), cy - int(math.Round(y*f))
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for _, p := range trail {
			m.canvas.Set(m.project(p.x, p.y))
		}
	}
	for i := range m.bodies {
		x, y := m.project(m.bodies[i].Pos.X, m.bodies[i].Pos.Y)
		arm := 1
		if i == 0 {
			arm = 2
		}
		m.canvas.DrawMarker(x, y, arm)
	}
}

// Step returns the number of steps taken since the last reset.
func (m Model) Step() int { return m.step }

// Bodies returns the current state. Callers must not modify it.
func (m Model) Bodies() []physics.Body { return m.bodies }

func (m Model) Running() bool { return m.running }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(Title.Render("N-BODY") + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	years := float64(m.step) * m.integ.Dt()
	drift := m.drift.Value()
	s.WriteString(Row("Bodies", fmt.Sprintf("%d (%d pairs)", len(m.bodies), len(m.integ.Pairs()))) + "\n")
	s.WriteString(Row("Step", fmt.Sprintf("%d", m.step)) + "\n")
	s.WriteString(Row("Time", fmt.Sprintf("%.2f yr", years)) + "\n")
	s.WriteString(Row("Energy", sim.FormatEnergy(m.drift.Current())) + "\n")
	s.WriteString(MetricLabel.Render("Drift") + DriftStyle(drift).Render(fmt.Sprintf("%.3e", drift)) + "\n")
	s.WriteString(Row("Scale", fmt.Sprintf("%.1f AU", m.scale)) + "\n")

	if energies := m.trace.Energies(); len(energies) > 1 {
		chart := asciigraph.Plot(energies,
			asciigraph.Height(5),
			asciigraph.Width(30),
			asciigraph.Precision(6),
			asciigraph.Caption("energy"),
		)
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\n" + Separator(36) + "\n")
	if m.showHelp {
		s.WriteString(KeyHint.Render("space  pause/resume\nr      reset\n+ -    zoom\n?      help\nq      quit"))
	} else {
		s.WriteString(KeyHint.Render("SP:Pause R:Reset +/-:Zoom ?:Help Q:Quit"))
	}

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, Panel.Render(s.String()))
}

// fitScale returns a half-width in AU that keeps every body on screen.
func fitScale(bodies []physics.Body) float64 {
	r := 0.0
	for i := range bodies {
		r = math.Max(r, math.Hypot(bodies[i].Pos.X, bodies[i].Pos.Y))
	}
	if r == 0 {
		return 1
	}
	return r * 1.1
}

// RunWatch starts the watch view and blocks until the user quits.
func RunWatch(bodies []physics.Body, cfg dynamo.Config, stepsPerFrame int) error {
	m, err := NewModel(bodies, cfg, stepsPerFrame)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
