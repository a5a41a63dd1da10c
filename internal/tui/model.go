package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/render"
	"github.com/san-kum/stepsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 30
	historyCapacity = 120
	fps             = 30
	gaugeWidth      = 20
)

// FrameMsg carries one completed simulation step into the program.
type FrameMsg sim.Frame

// DoneMsg reports that the simulation has returned.
type DoneMsg struct {
	Steps int
	Err   error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// gauge eases towards its target with a critically damped spring so the
// bars do not jump between frames.
type gauge struct {
	spring   harmonica.Spring
	pos, vel float64
	target   float64
	max      float64
}

func newGauge(max float64) gauge {
	return gauge{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0), max: max}
}

func (g *gauge) step() {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
}

func (g *gauge) ratio() float64 {
	if g.max <= 0 {
		return 0
	}
	return g.pos / g.max
}

// Model draws the latest frame it has been sent. It never advances the
// simulation itself.
type Model struct {
	title  string
	scene  render.SceneFunc
	canvas *Braille

	frame  sim.Frame
	frames int
	done   bool
	err    error

	omega, accel gauge
	history      []float64
}

// NewModel builds a model for scene. omegaMax and accelMax scale the
// gauges.
func NewModel(title string, scene render.SceneFunc, omegaMax, accelMax float64) Model {
	return Model{
		title:   title,
		scene:   scene,
		canvas:  NewBraille(canvasWidth, canvasHeight),
		omega:   newGauge(omegaMax),
		accel:   newGauge(accelMax),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case FrameMsg:
		m.frame = sim.Frame(msg)
		m.frames++
		if v, ok := m.frame.Quantity(physics.QuantityOmega); ok {
			m.omega.target = math.Abs(v)
		}
		if v, ok := m.frame.Quantity(physics.QuantityAcceleration); ok {
			m.accel.target = v
		}
		if v, ok := m.frame.Quantity(physics.QuantityTheta); ok {
			if len(m.history) == historyCapacity {
				m.history = append(m.history[:0], m.history[1:]...)
			}
			m.history = append(m.history, v)
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
	case tickMsg:
		m.omega.step()
		m.accel.step()
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.frames > 0 {
		m.canvas.Clear()
		if err := m.scene(m.frame).Draw(m.canvas); err != nil && m.err == nil {
			m.err = fmt.Errorf("draw: %w", err)
		}
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	for _, l := range m.canvas.Labels {
		if l.Style.Math || l.S == m.title {
			continue
		}
		style := valueStyle
		if c, ok := textColors[l.Style.Color]; ok {
			style = style.Foreground(c)
		}
		s.WriteString(style.Render(plot.PlainText(l.S)) + "\n")
	}

	s.WriteString("\n" + labelStyle.Render("|ω|") + bar(m.omega.ratio(), gaugeWidth) + "\n")
	s.WriteString(labelStyle.Render("y_A") + bar(m.accel.ratio(), gaugeWidth) + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(24), asciigraph.Caption("θ (rad)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("q: quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed.Render("FAILED: " + m.err.Error())
	case m.done:
		return statusDone.Render(fmt.Sprintf("FINISHED after %d steps", m.frames))
	default:
		return statusRunning.Render(fmt.Sprintf("RUNNING  step %d  t=%.2fs", m.frame.Step, m.frame.Time))
	}
}
