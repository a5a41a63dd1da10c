package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/stepsim/internal/sim"
)

// Sender is the part of *tea.Program a Surface needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Surface forwards every frame to a running bubbletea program. Send
// returns immediately once the program has exited, so a run never blocks
// on a closed terminal.
type Surface struct {
	p Sender
}

func NewSurface(p Sender) *Surface {
	return &Surface{p: p}
}

func (s *Surface) Render(f sim.Frame) error {
	s.p.Send(FrameMsg(f))
	return nil
}

// RunFunc runs a simulation against surface until ctx is cancelled.
type RunFunc func(ctx context.Context, surface sim.Surface) (*sim.Result, error)

// Run starts the program and the simulation together. Quitting the
// program cancels the simulation; a finished simulation leaves the last
// frame on screen until the user quits.
func Run(ctx context.Context, m Model, run RunFunc, opts ...tea.ProgramOption) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)

	type outcome struct {
		result *sim.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := run(ctx, NewSurface(p))
		steps := 0
		if result != nil {
			steps = result.Steps
		}
		p.Send(DoneMsg{Steps: steps, Err: err})
		done <- outcome{result, err}
	}()

	_, progErr := p.Run()
	cancel()
	out := <-done

	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return out.result, fmt.Errorf("terminal: %w", progErr)
	}
	if errors.Is(out.err, context.Canceled) {
		return out.result, nil
	}
	return out.result, out.err
}
