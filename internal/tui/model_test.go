package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/render"
	"github.com/san-kum/stepsim/internal/sim"
)

func testModel() Model {
	scene := render.NewPendulum(plot.NewColorIndex())
	return NewModel("Damped Pendulum", scene.Scene, 5, 7)
}

func pendulumFrame(step int, theta, omega float64) sim.Frame {
	p := physics.NewDampedPendulum()
	x := dynamo.State{theta, omega}
	return sim.Frame{Step: step, Time: float64(step) * 0.04, State: x, Quantities: p.Quantities(0, x)}
}

func TestModelQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := testModel().Update(key)
		if cmd == nil {
			t.Fatalf("%s: no command", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", key)
		}
	}
}

func TestModelFrame(t *testing.T) {
	var m tea.Model = testModel()
	m, _ = m.Update(FrameMsg(pendulumFrame(1, math.Pi/2, 2)))
	m, _ = m.Update(FrameMsg(pendulumFrame(2, math.Pi/2-0.08, 1.9)))

	got := m.(Model)
	if got.frames != 2 || got.frame.Step != 2 {
		t.Fatalf("frames = %d, step = %d", got.frames, got.frame.Step)
	}
	if len(got.history) != 2 {
		t.Errorf("history length = %d, want 2", len(got.history))
	}
	if got.omega.target != 1.9 {
		t.Errorf("omega gauge target = %g", got.omega.target)
	}

	view := got.View()
	for _, want := range []string{"DAMPED PENDULUM", "RUNNING", "t:   0.08", "θ:", "ω:", "y_A:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, `\theta`) {
		t.Error("view still holds TeX markup")
	}
}

func TestModelHistoryBounded(t *testing.T) {
	var m tea.Model = testModel()
	for i := 1; i <= historyCapacity+10; i++ {
		m, _ = m.Update(FrameMsg(pendulumFrame(i, 0.1, 0)))
	}
	if n := len(m.(Model).history); n != historyCapacity {
		t.Errorf("history length = %d, want %d", n, historyCapacity)
	}
}

func TestModelGaugesEase(t *testing.T) {
	var m tea.Model = testModel()
	m, _ = m.Update(FrameMsg(pendulumFrame(1, 0, 4)))
	for i := 0; i < 5; i++ {
		var cmd tea.Cmd
		m, cmd = m.Update(tickMsg{})
		if cmd == nil {
			t.Fatal("tick did not schedule the next tick")
		}
	}
	g := m.(Model).omega
	if g.pos <= 0 || g.pos >= 4 {
		t.Errorf("gauge position %g should be between 0 and the target", g.pos)
	}
}

func TestModelDone(t *testing.T) {
	var m tea.Model = testModel()
	m, _ = m.Update(FrameMsg(pendulumFrame(1, 0.1, 0)))
	m, _ = m.Update(DoneMsg{Steps: 1})
	if !strings.Contains(m.View(), "FINISHED") {
		t.Error("finished run not reported")
	}

	m, _ = m.Update(DoneMsg{Err: errors.New("boom")})
	if !strings.Contains(m.View(), "FAILED: boom") {
		t.Error("failure not reported")
	}
}

type recordingSender struct{ msgs []tea.Msg }

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestSurfaceForwardsFrames(t *testing.T) {
	rec := &recordingSender{}
	s := sim.New(physics.NewDampedPendulum(), integrators.NewRK4(), NewSurface(rec))
	result, err := s.Run(context.Background(), dynamo.State{1, 0}, sim.Config{Duration: 0.4, Step: 0.04})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.msgs) != result.Steps || result.Steps != 10 {
		t.Fatalf("sent %d messages for %d steps", len(rec.msgs), result.Steps)
	}
	if f, ok := rec.msgs[9].(FrameMsg); !ok || f.Step != 10 {
		t.Errorf("last message = %#v", rec.msgs[9])
	}
}
