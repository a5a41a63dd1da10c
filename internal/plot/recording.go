package plot

// Op is one recorded canvas call.
type Op struct {
	Name  string
	X, Y  []float64
	Attrs Attributes
	Color int
	S     string
	Style TextStyle
}

// Recording is a Canvas that keeps every call of the current frame. It is
// used as a display list by surfaces that draw on another goroutine.
type Recording struct {
	Ops    []Op
	Frames int
}

func (r *Recording) Clear() error {
	r.Ops = r.Ops[:0]
	return nil
}

func (r *Recording) Polyline(x, y []float64, a Attributes) error {
	r.Ops = append(r.Ops, Op{Name: "polyline", X: clone(x), Y: clone(y), Attrs: a})
	return nil
}

func (r *Recording) Polymarker(x, y []float64, a Attributes) error {
	r.Ops = append(r.Ops, Op{Name: "polymarker", X: clone(x), Y: clone(y), Attrs: a})
	return nil
}

func (r *Recording) FillArea(x, y []float64, color int) error {
	r.Ops = append(r.Ops, Op{Name: "fillarea", X: clone(x), Y: clone(y), Color: color})
	return nil
}

func (r *Recording) Arrow(x1, y1, x2, y2 float64, a Attributes) error {
	r.Ops = append(r.Ops, Op{Name: "drawarrow", X: []float64{x1, x2}, Y: []float64{y1, y2}, Attrs: a})
	return nil
}

func (r *Recording) Text(x, y float64, s string, style TextStyle) error {
	r.Ops = append(r.Ops, Op{Name: "text", X: []float64{x}, Y: []float64{y}, S: s, Style: style})
	return nil
}

func (r *Recording) Present() error {
	r.Frames++
	return nil
}

// Draw replays the recorded operations on c without clearing it.
func (r *Recording) Draw(c Canvas) error {
	for _, op := range r.Ops {
		var err error
		switch op.Name {
		case "polyline":
			err = c.Polyline(op.X, op.Y, op.Attrs)
		case "polymarker":
			err = c.Polymarker(op.X, op.Y, op.Attrs)
		case "fillarea":
			err = c.FillArea(op.X, op.Y, op.Color)
		case "drawarrow":
			err = c.Arrow(op.X[0], op.Y[0], op.X[1], op.Y[1], op.Attrs)
		case "text":
			err = c.Text(op.X[0], op.Y[0], op.S, op.Style)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
