package render

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/stepsim/internal/plot"
)

// Series is one named column of a recorded run.
type Series struct {
	Name   string
	Values []float64
}

// SaveSeriesPNG plots every series against times and writes an 8x4 inch
// PNG to path. Line colours come from a fresh ColorIndex so repeated calls
// look the same.
func SaveSeriesPNG(path, title, xlabel string, times []float64, series ...Series) error {
	if len(times) == 0 || len(series) == 0 {
		return fmt.Errorf("plot data invalid: %d samples, %d series", len(times), len(series))
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Add(plotter.NewGrid())

	alloc := plot.NewColorIndex()
	palette := plot.DefaultPalette()
	for _, s := range series {
		if len(s.Values) != len(times) {
			return fmt.Errorf("series %q has %d values for %d samples", s.Name, len(s.Values), len(times))
		}
		pts := make(plotter.XYs, len(times))
		for i := range times {
			pts[i].X = times[i]
			pts[i].Y = s.Values[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = palette.RGBA(alloc.Next())
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	return savePlotPNG(p, 8, 4, path)
}

func savePlotPNG(p *gplot.Plot, widthIn, heightIn float64, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	w := vg.Length(widthIn) * vg.Inch
	h := vg.Length(heightIn) * vg.Inch

	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}
