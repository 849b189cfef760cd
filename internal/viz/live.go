package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sandsim/internal/config"
	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 300
)

type TickMsg time.Time

// Model drives a solver from terminal input and draws it.
type Model struct {
	solver *physics.Solver
	scene  *config.Config
	view   Viewport
	canvas *Canvas
	brush  Brush

	mouse    dynamo.Vec2
	hasMouse bool
	painting bool

	running   bool
	lastTick  time.Time
	frameDt   float64
	maxDt     float64
	elapsed   float64
	fps       float64
	countHist []float64
	notice    string
}

// NewModel wraps a solver built from scene. scene is kept so the scene
// can be restored.
func NewModel(solver *physics.Solver, scene *config.Config) Model {
	cfg := solver.Config()
	return Model{
		solver:    solver,
		scene:     scene,
		view:      NewViewport(width, height, cfg.Width, cfg.Height),
		canvas:    NewCanvas(width, height),
		brush:     NewBrush(),
		running:   true,
		frameDt:   scene.FrameDt,
		maxDt:     scene.MaxFrameDt,
		countHist: make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/120, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		dt := m.frameDt
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		m.advance(dt)
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if mat, ok := materialKeys[key]; ok {
		m.brush.Material = mat
		return m, nil
	}
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "z":
		m.brush.Shape = physics.ShapeCircle
	case "x":
		m.brush.Shape = physics.ShapeRect
	case "g":
		m.brush.Toggle(1)
	case "f":
		m.brush.Toggle(-1)
	case "o":
		m.solver.ToggleOptimization()
	case "r":
		m.solver.Reset()
		m.countHist = m.countHist[:0]
	case "R":
		m.solver.Reset()
		if err := m.scene.Populate(m.solver); err != nil {
			m.notice = err.Error()
		}
		m.countHist = m.countHist[:0]
	case ".":
		if !m.running {
			m.step(m.frameDt)
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.mouse, m.hasMouse = m.view.ToWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.painting = true
			if m.hasMouse {
				m.brush.Spawn(m.solver, m.mouse)
			}
		case tea.MouseButtonRight:
			if m.hasMouse && !m.brush.PlaceWall(m.solver, m.mouse) {
				m.notice = "too close to another wall"
			}
		}
	case tea.MouseActionRelease:
		m.painting = false
	}
}

func (m *Model) resize(w, h int) {
	cols := w - statsWidth - 2*canvasPadX - 2
	rows := h - 2*canvasPadY
	if cols < 20 {
		cols = 20
	}
	if rows < 10 {
		rows = 10
	}
	cfg := m.solver.Config()
	m.view = NewViewport(cols, rows, cfg.Width, cfg.Height)
	m.canvas = NewCanvas(cols, rows)
}

// advance runs one wall-clock frame: held tools act, then the solver
// steps by the clamped delta.
func (m *Model) advance(dt float64) {
	if dt > 0 {
		m.fps = 0.9*m.fps + 0.1/dt
	}
	if !m.running {
		return
	}
	if m.painting && m.hasMouse {
		m.brush.Spawn(m.solver, m.mouse)
	}
	m.step(dt)
}

func (m *Model) step(dt float64) {
	if dt > m.maxDt {
		dt = m.maxDt
	}
	if dt < 0 {
		dt = 0
	}
	m.brush.ApplyAttractor(m.solver, m.mouse, m.hasMouse)
	m.solver.Update(dt)
	m.elapsed += dt

	m.countHist = append(m.countHist, float64(len(m.solver.Particles())))
	if len(m.countHist) > historyCapacity {
		m.countHist = m.countHist[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()

	wall := obstacleColor.Hex()
	for _, o := range m.solver.Obstacles() {
		switch o := o.(type) {
		case *physics.Circle:
			cx, cy := m.view.ToCanvas(o.Pos)
			m.canvas.DrawCircle(cx, cy, m.view.Dots(o.Radius), wall)
		case *physics.Rect:
			x0, y0 := m.view.ToCanvas(o.Pos.Sub(dynamo.Vec2{X: o.HalfW, Y: o.HalfH}))
			x1, y1 := m.view.ToCanvas(o.Pos.Add(dynamo.Vec2{X: o.HalfW, Y: o.HalfH}))
			m.canvas.DrawLine(x0, y0, x1, y0, wall)
			m.canvas.DrawLine(x1, y0, x1, y1, wall)
			m.canvas.DrawLine(x1, y1, x0, y1, wall)
			m.canvas.DrawLine(x0, y1, x0, y0, wall)
		}
	}

	ps := m.solver.Particles()
	for i := range ps {
		p := &ps[i]
		if !p.Pos.IsValid() {
			continue
		}
		x, y := m.view.ToCanvas(p.Pos)
		m.canvas.FillCircle(x, y, m.view.Dots(p.Radius)-1, Shade(p).Hex())
	}

	if a, ok := m.solver.Attractor(); ok {
		color := "#32ff32"
		if a.Force < 0 {
			color = "#ff3232"
		}
		x, y := m.view.ToCanvas(a.Pos)
		m.canvas.DrawCircle(x, y, m.view.Dots(20), color)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	st := m.solver.Stats()
	var s strings.Builder
	s.WriteString(headerStyle.Render(GradientText("SANDSIM", "#ffb000", "#1e64fa")) + "\n")

	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.countHist) > 1 {
		chart := asciigraph.Plot(m.countHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Particles"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("FPS", fmt.Sprintf("%.1f", m.fps))
	row("Time", fmt.Sprintf("%.2fs", m.elapsed))
	row("Particles", fmt.Sprintf("%d", st.Particles))
	row("Sleeping", fmt.Sprintf("%d", st.Sleeping))
	if st.Particles > 0 {
		s.WriteString(labelStyle.Render("") + ProgressBar(float64(st.Sleeping)/float64(st.Particles), 20) + "\n")
	}
	row("Burning", fmt.Sprintf("%d", st.Burning))
	if m.solver.Optimized() {
		s.WriteString(labelStyle.Render("Optimize") + OptimizeOn.Render("ON (spatial grid)") + "\n")
	} else {
		s.WriteString(labelStyle.Render("Optimize") + OptimizeOff.Render("OFF (brute force)") + "\n")
	}
	s.WriteString("\n")
	row("Material", strings.ToUpper(m.brush.Material.String()))
	row("Wall", m.brush.Shape.String())
	switch m.brush.Attract {
	case 1:
		row("Tool", "pull")
	case -1:
		row("Tool", "push")
	}
	if m.notice != "" {
		s.WriteString(StatusPaused.Render(m.notice) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\n" +
		"1-4 Water/Sand/Stone/Fire\n" +
		"Z/X Wall shape  G/F Pull/Push\n" +
		"L-click Spawn  R-click Wall\n" +
		"O Optimize  r Clear  R Restore\n" +
		"SP Pause  . Step  Q Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live viewer on the terminal.
func Run(solver *physics.Solver, scene *config.Config) error {
	p := tea.NewProgram(NewModel(solver, scene), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
