package plot

type LineType int

const (
	LineSolid        LineType = 1
	LineDashed       LineType = 2
	LineDotted       LineType = 3
	LineDashedDotted LineType = 4
)

type MarkerType int

const (
	MarkerDot           MarkerType = 1
	MarkerPlus          MarkerType = 2
	MarkerAsterisk      MarkerType = 3
	MarkerCircle        MarkerType = 4
	MarkerDiagonalCross MarkerType = 5
	MarkerSolidCircle   MarkerType = -1
	MarkerTriangleUp    MarkerType = -3
	MarkerSquare        MarkerType = -7
	MarkerSolidSquare   MarkerType = -8
)

// Solid reports whether the marker is drawn filled.
func (m MarkerType) Solid() bool {
	return m == MarkerSolidCircle || m == MarkerSolidSquare || m == MarkerDot
}

const (
	DefaultMarkerColor = 1
	DefaultMarkerSize  = 1.0
	DefaultLineWidth   = 1.0
)

// Attributes is the line and marker style of a drawable.
type Attributes struct {
	LineType    LineType
	MarkerType  MarkerType
	LineColor   int
	MarkerColor int
	LineWidth   float64
	MarkerSize  float64
}

type AttrOption func(*Attributes)

func WithLineType(t LineType) AttrOption     { return func(a *Attributes) { a.LineType = t } }
func WithMarkerType(t MarkerType) AttrOption { return func(a *Attributes) { a.MarkerType = t } }
func WithMarkerColor(c int) AttrOption       { return func(a *Attributes) { a.MarkerColor = c } }
func WithLineWidth(w float64) AttrOption     { return func(a *Attributes) { a.LineWidth = w } }
func WithMarkerSize(s float64) AttrOption    { return func(a *Attributes) { a.MarkerSize = s } }

// WithLineColor fixes the line colour. Without it NewAttributes takes the
// next index from the allocator.
func WithLineColor(c int) AttrOption {
	return func(a *Attributes) { a.LineColor = c }
}

// NewAttributes returns solid lines with dot markers in colour 1. The line
// colour is drawn from alloc unless an option sets one; alloc may be nil
// only when it does.
func NewAttributes(alloc *ColorIndex, opts ...AttrOption) Attributes {
	a := Attributes{
		LineType:    LineSolid,
		MarkerType:  MarkerDot,
		LineColor:   -1,
		MarkerColor: DefaultMarkerColor,
		LineWidth:   DefaultLineWidth,
		MarkerSize:  DefaultMarkerSize,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.LineColor < 0 {
		if alloc == nil {
			a.LineColor = DefaultMarkerColor
		} else {
			a.LineColor = alloc.Next()
		}
	}
	return a
}

// TextStyle is the style of a text drawable.
type TextStyle struct {
	Color  int
	Height float64
	// Math marks LaTeX-style text such as "\omega=\dot{\theta}".
	Math bool
}

const DefaultCharHeight = 0.027
