package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/relsim/internal/analysis"
	"github.com/san-kum/relsim/internal/nbody"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
	trailLength  = 1200
	historyCap   = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live orbit view: it owns the simulation and steps it a
// fixed number of times per frame.
type Model struct {
	sys          *nbody.System
	prec         *analysis.Precession
	name         string
	dt           float64
	stepsPerTick int
	scale        float64 // AU per half-canvas

	canvas        *Canvas
	trail         []struct{ x, y int }
	sepHistory    []float64
	initialEnergy float64
	running       bool
}

func NewModel(sys *nbody.System, name string, dt float64) Model {
	if dt <= 0 {
		dt = 1e-4
	}
	scale := 0.0
	for i := range sys.Bodies {
		if r := sys.Bodies[i].Pos.Norm(); r > scale {
			scale = r
		}
	}
	if scale == 0 {
		scale = 1
	}

	m := Model{
		sys:          sys,
		name:         name,
		dt:           dt,
		stepsPerTick: int(math.Max(1, 0.002/dt)), // ~0.06 sim time units per tick
		scale:        scale * 1.4,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		trail:        make([]struct{ x, y int }, 0, trailLength),
		sepHistory:   make([]float64, 0, historyCap),
		running:      true,
	}
	if len(sys.Bodies) >= 2 {
		m.prec = analysis.NewPrecession(0, 1)
	}
	m.initialEnergy = sys.Energy()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.stepsPerTick *= 2
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.stepsPerTick; i++ {
		m.sys.Step(m.dt)
		if m.prec != nil {
			m.prec.Observe(m.sys.Bodies, m.sys.Time())
		}
	}
	if len(m.sys.Bodies) >= 2 {
		sep := m.sys.Bodies[1].Pos.Sub(m.sys.Bodies[0].Pos).Norm()
		m.sepHistory = append(m.sepHistory, sep)
		if len(m.sepHistory) > historyCap {
			m.sepHistory = m.sepHistory[1:]
		}
	}

	px, py := m.pixel(m.sys.Bodies[len(m.sys.Bodies)-1].Pos.X, m.sys.Bodies[len(m.sys.Bodies)-1].Pos.Y)
	m.trail = append(m.trail, struct{ x, y int }{px, py})
	if len(m.trail) > trailLength {
		m.trail = m.trail[1:]
	}
}

func (m *Model) pixel(x, y float64) (int, int) {
	pw, ph := m.canvas.PixelSize()
	// y flipped: screen rows grow downward.
	return pw/2 + int(x/m.scale*float64(pw/2)),
		ph/2 - int(y/m.scale*float64(ph/2))
}

func (m *Model) draw() {
	m.canvas.Clear()
	for i, pt := range m.trail {
		if i > 0 {
			prev := m.trail[i-1]
			m.canvas.DrawLine(prev.x, prev.y, pt.x, pt.y)
		} else {
			m.canvas.Set(pt.x, pt.y)
		}
	}
	for i := range m.sys.Bodies {
		px, py := m.pixel(m.sys.Bodies[i].Pos.X, m.sys.Bodies[i].Pos.Y)
		// fatten the body to a 2x2 dot blob
		m.canvas.Set(px, py)
		m.canvas.Set(px+1, py)
		m.canvas.Set(px, py+1)
		m.canvas.Set(px+1, py+1)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.sepHistory) > 1 {
		chart := asciigraph.Plot(m.sepHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Separation"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f yr", m.sys.Time())) + "\n")
	s.WriteString(labelStyle.Render("Model") + valueStyle.Render(m.sys.Correction.String()) + "\n")
	if m.sys.Correction == nbody.Implicit {
		s.WriteString(labelStyle.Render("Rounds") + valueStyle.Render(fmt.Sprintf("%d", m.sys.CorrectionRounds())) + "\n")
	}
	if m.initialEnergy != 0 {
		drift := math.Abs(m.sys.Energy()-m.initialEnergy) / math.Abs(m.initialEnergy)
		s.WriteString(labelStyle.Render("E drift") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")
	}
	if m.prec != nil {
		s.WriteString(labelStyle.Render("Perihelia") + valueStyle.Render(fmt.Sprintf("%d", len(m.prec.Perihelia()))) + "\n")
		if rate := m.prec.RatePerOrbit(); rate != 0 {
			s.WriteString(labelStyle.Render("Precession") + valueStyle.Render(fmt.Sprintf("%.3e rad/orbit", rate)) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\nSP:Pause  +/-:Speed  Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
