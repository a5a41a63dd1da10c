package plot

import (
	"fmt"
	"image/color"
	"sync"
)

// distinctColors is the cycle handed out by ColorIndex.
var distinctColors = []int{2, 3, 4, 6, 7, 5, 8, 9, 10, 11, 12, 13}

// ColorIndex hands out default line colours. Create one per application
// and pass it to every NewAttributes call that needs a default colour.
// It is safe for concurrent use.
type ColorIndex struct {
	mu   sync.Mutex
	next int
}

func NewColorIndex() *ColorIndex {
	return &ColorIndex{}
}

// Next returns the next colour of the cycle.
func (c *ColorIndex) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := distinctColors[c.next%len(distinctColors)]
	c.next++
	return idx
}

// Reset restarts the cycle at its first colour.
func (c *ColorIndex) Reset() {
	c.mu.Lock()
	c.next = 0
	c.mu.Unlock()
}

// Palette maps colour indices to RGBA. Indices 0 to 7 are white, black,
// red, green, blue, cyan, yellow and magenta; 8 to 19 a second set of
// distinct colours; 80 to 335 a 256-step colormap. Anything else is black.
type Palette struct {
	basic    []color.RGBA
	colormap []color.RGBA
}

const (
	ColormapOffset = 80
	ColormapSize   = 256
)

func DefaultPalette() *Palette {
	p := &Palette{
		basic: []color.RGBA{
			{255, 255, 255, 255},
			{0, 0, 0, 255},
			{255, 0, 0, 255},
			{0, 255, 0, 255},
			{0, 0, 255, 255},
			{0, 255, 255, 255},
			{255, 255, 0, 255},
			{255, 0, 255, 255},
			{255, 127, 14, 255},
			{44, 160, 44, 255},
			{148, 103, 189, 255},
			{140, 86, 75, 255},
			{227, 119, 194, 255},
			{127, 127, 127, 255},
			{188, 189, 34, 255},
			{23, 190, 207, 255},
			{31, 119, 180, 255},
			{214, 39, 40, 255},
			{174, 199, 232, 255},
			{255, 187, 120, 255},
		},
	}
	p.colormap = gradient(ColormapSize, []color.RGBA{
		{48, 18, 59, 255},
		{70, 134, 251, 255},
		{27, 229, 181, 255},
		{164, 252, 60, 255},
		{251, 185, 56, 255},
		{228, 70, 10, 255},
		{122, 4, 3, 255},
	})
	return p
}

func (p *Palette) RGBA(idx int) color.RGBA {
	switch {
	case idx >= 0 && idx < len(p.basic):
		return p.basic[idx]
	case idx >= ColormapOffset && idx < ColormapOffset+len(p.colormap):
		return p.colormap[idx-ColormapOffset]
	default:
		return color.RGBA{0, 0, 0, 255}
	}
}

// Hex returns the colour as #rrggbb.
func (p *Palette) Hex(idx int) string {
	c := p.RGBA(idx)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func gradient(n int, stops []color.RGBA) []color.RGBA {
	out := make([]color.RGBA, n)
	segments := len(stops) - 1
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n-1) * float64(segments)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		frac := pos - float64(seg)
		a, b := stops[seg], stops[seg+1]
		out[i] = color.RGBA{
			R: lerp8(a.R, b.R, frac),
			G: lerp8(a.G, b.G, frac),
			B: lerp8(a.B, b.B, frac),
			A: 255,
		}
	}
	return out
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
