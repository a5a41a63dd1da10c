package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/sim"
)

// SceneFunc builds the drawing for one frame.
type SceneFunc func(f sim.Frame) plot.Drawable

// CanvasSurface is a sim.Surface that clears the canvas, draws the scene of
// each frame and presents it.
type CanvasSurface struct {
	Canvas plot.Canvas
	Scene  SceneFunc
}

func NewCanvasSurface(c plot.Canvas, scene SceneFunc) *CanvasSurface {
	return &CanvasSurface{Canvas: c, Scene: scene}
}

func (s *CanvasSurface) Render(f sim.Frame) error {
	if err := plot.Frame(s.Canvas, s.Scene(f)); err != nil {
		return fmt.Errorf("render step %d: %w", f.Step, err)
	}
	return nil
}

// FrameSink opens the destination of the n-th presented frame, counting
// from 1.
type FrameSink func(n int) (io.WriteCloser, error)

// DirSink writes frames to dir as prefix_000001.ext and so on, creating
// dir if needed.
func DirSink(dir, prefix, ext string) FrameSink {
	return func(n int) (io.WriteCloser, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create frame dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%06d.%s", prefix, n, ext))
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create frame: %w", err)
		}
		return f, nil
	}
}
