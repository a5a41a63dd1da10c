package plot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleScene(alloc *ColorIndex) Group {
	rod := NewAttributes(alloc, WithLineColor(1))
	bob := NewAttributes(alloc, WithMarkerType(MarkerSolidCircle), WithMarkerColor(86), WithMarkerSize(5))
	arrow := NewAttributes(alloc, WithLineColor(4))
	return Group{
		FillArea{X: []float64{0.46, 0.54, 0.54, 0.46}, Y: []float64{0.79, 0.79, 0.81, 0.81}, Color: 1},
		Polyline{X: []float64{0.5, 0.8758}, Y: []float64{0.8, 0.9368}, Attrs: rod},
		Polymarker{X: []float64{0.8758}, Y: []float64{0.9368}, Attrs: bob},
		Arrow{X1: 0.8758, Y1: 0.9368, X2: 0.9, Y2: 0.95, Attrs: arrow},
		Text{X: 0.05, Y: 0.96, S: "Damped Pendulum", Style: TextStyle{Color: 1, Height: 0.024}},
		Text{X: 0.05, Y: 0.9, S: `\omega=\dot{\theta}`, Style: TextStyle{Color: 1, Height: 0.024, Math: true}},
		Text{X: 0.05, Y: 0.12, S: `\omega: "-1.25" <x> & y`, Style: TextStyle{Color: 4, Height: 0.02}},
	}
}

// sameOp compares the parts of an operation a log preserves for it.
func sameOp(t *testing.T, want, got Op) {
	t.Helper()
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.X, got.X)
	require.Equal(t, want.Y, got.Y)
	switch want.Name {
	case "polyline", "drawarrow":
		require.Equal(t, want.Attrs.LineColor, got.Attrs.LineColor)
		require.Equal(t, want.Attrs.LineType, got.Attrs.LineType)
		require.Equal(t, want.Attrs.LineWidth, got.Attrs.LineWidth)
	case "polymarker":
		require.Equal(t, want.Attrs.MarkerColor, got.Attrs.MarkerColor)
		require.Equal(t, want.Attrs.MarkerType, got.Attrs.MarkerType)
		require.Equal(t, want.Attrs.MarkerSize, got.Attrs.MarkerSize)
	case "fillarea":
		require.Equal(t, want.Color, got.Color)
	case "text":
		require.Equal(t, want.S, got.S)
		require.Equal(t, want.Style, got.Style)
	}
}

func TestCommandLogRoundTrip(t *testing.T) {
	scene := sampleScene(NewColorIndex())

	direct := &Recording{}
	require.NoError(t, Frame(direct, scene))

	var buf bytes.Buffer
	log := NewCommandLog(&buf)
	require.NoError(t, Frame(log, scene))
	require.NoError(t, Frame(log, scene))
	require.NoError(t, log.Close())

	cmds, err := ParseCommands(&buf)
	require.NoError(t, err)

	replayed := &Recording{}
	require.NoError(t, Replay(cmds, replayed))
	require.Equal(t, 2, replayed.Frames)
	require.Len(t, replayed.Ops, len(direct.Ops))
	for i := range direct.Ops {
		sameOp(t, direct.Ops[i], replayed.Ops[i])
	}
}

func TestCommandLogWritesStyleChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	log := NewCommandLog(&buf)
	a := NewAttributes(nil, WithLineColor(2))

	require.NoError(t, log.Polyline([]float64{0, 1}, []float64{0, 1}, a))
	require.NoError(t, log.Polyline([]float64{0, 1}, []float64{1, 0}, a))
	a.LineColor = 4
	require.NoError(t, log.Polyline([]float64{0, 1}, []float64{1, 1}, a))
	require.NoError(t, log.Close())

	out := buf.String()
	require.Equal(t, 2, strings.Count(out, "<setlinecolorind"))
	require.Equal(t, 1, strings.Count(out, "<setlinetype"))
	require.Equal(t, 3, strings.Count(out, "<polyline"))
	require.True(t, strings.HasPrefix(out, "<gr>\n"))
	require.True(t, strings.HasSuffix(out, "</gr>\n"))
}

func TestCommandLogMarkerStyleChangesOnly(t *testing.T) {
	var buf bytes.Buffer
	log := NewCommandLog(&buf)
	a := NewAttributes(nil, WithMarkerType(MarkerSolidCircle), WithMarkerSize(5))

	require.NoError(t, log.Polymarker([]float64{0.5}, []float64{0.5}, a))
	require.NoError(t, log.Polymarker([]float64{0.6}, []float64{0.4}, a))
	a.MarkerSize = 3
	require.NoError(t, log.Polymarker([]float64{0.7}, []float64{0.3}, a))
	require.NoError(t, log.Close())

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "<setmarkertype"))
	require.Equal(t, 2, strings.Count(out, "<setmarkersize"))
	require.Equal(t, 1, strings.Count(out, "<setmarkercolorind"))
	require.Equal(t, 3, strings.Count(out, "<polymarker"))
}

func TestCommandLogRejectsMismatchedCoords(t *testing.T) {
	log := NewCommandLog(&bytes.Buffer{})
	err := log.Polyline([]float64{0, 1}, []float64{0}, NewAttributes(nil))
	require.ErrorIs(t, err, ErrCoordinates)
}

func TestParseCommands(t *testing.T) {
	src := `<gr>
<clearws/>
<setlinecolorind color="4"/>
<polyline n="2" x="0.5 0.6" y="0.8 0.4"/>
<textext x="0.05" y="0.2" text="t:   1.00"/>
<updatews/>
</gr>
`
	cmds, err := ParseCommands(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, cmds, 5)

	require.Equal(t, "setlinecolorind", cmds[1].Name)
	require.Equal(t, []int{4}, cmds[1].Ints)
	require.Equal(t, 3, cmds[1].Line)

	require.Equal(t, [][]float64{{0.5, 0.6}, {0.8, 0.4}}, cmds[2].Arrays)
	require.Equal(t, "t:   1.00", cmds[3].Text)
	require.Equal(t, []float64{0.05, 0.2}, cmds[3].Floats)
}

func TestParseCommandsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		is   error
	}{
		{"unknown", "<clearws/>\n<setviewport a=\"0\" b=\"1\" c=\"0\" d=\"1\"/>\n", 2, ErrUnknownCommand},
		{"arity", "<clearws/>\n<clearws/>\n<drawarrow x1=\"0\"/>\n", 3, nil},
		{"bad number", "<setlinecolorind color=\"red\"/>\n", 1, nil},
		{"short array", "<polyline n=\"3\" x=\"0 1\" y=\"0 1\"/>\n", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommands(strings.NewReader(tt.src))
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			require.Equal(t, tt.line, pe.Line)
			if tt.is != nil {
				require.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseCommandsMalformed(t *testing.T) {
	_, err := ParseCommands(strings.NewReader("<polyline n=\"1\" x=\"0\" y=\"0\""))
	require.Error(t, err)
}

func TestGroupStopsAtFirstError(t *testing.T) {
	rec := &Recording{}
	g := Group{
		Polyline{X: []float64{0, 1}, Y: []float64{0, 1}, Attrs: NewAttributes(nil)},
		Polymarker{X: []float64{0}, Y: nil},
		Text{X: 0, Y: 0, S: "never"},
	}
	err := g.Draw(rec)
	require.ErrorIs(t, err, ErrCoordinates)
	require.Len(t, rec.Ops, 1)
}

func TestRecordingDrawReplays(t *testing.T) {
	src := &Recording{}
	require.NoError(t, Frame(src, sampleScene(NewColorIndex())))

	dst := &Recording{}
	require.NoError(t, src.Draw(dst))
	require.Equal(t, src.Ops, dst.Ops)
	require.Equal(t, 0, dst.Frames)
}
