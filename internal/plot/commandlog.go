package plot

import (
	"bufio"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// CommandLog is a Canvas that writes every call to w as a graphics log.
// Style changes are written only when they differ from the previous call.
// Close must be called to terminate the document.
type CommandLog struct {
	w     *bufio.Writer
	err   error
	attrs Attributes
	fill  int
	text  TextStyle

	lineSet, markerSet, fillSet, textSet bool
}

func NewCommandLog(w io.Writer) *CommandLog {
	l := &CommandLog{w: bufio.NewWriter(w)}
	l.raw("<gr>\n")
	return l
}

func (l *CommandLog) Clear() error {
	l.emit("clearws")
	return l.err
}

func (l *CommandLog) Polyline(x, y []float64, a Attributes) error {
	if err := checkCoords(x, y); err != nil {
		return err
	}
	l.lineStyle(a)
	l.emit("polyline", strconv.Itoa(len(x)), floats(x), floats(y))
	return l.err
}

func (l *CommandLog) Polymarker(x, y []float64, a Attributes) error {
	if err := checkCoords(x, y); err != nil {
		return err
	}
	l.markerStyle(a)
	l.emit("polymarker", strconv.Itoa(len(x)), floats(x), floats(y))
	return l.err
}

func (l *CommandLog) FillArea(x, y []float64, color int) error {
	if err := checkCoords(x, y); err != nil {
		return err
	}
	if !l.fillSet || l.fill != color {
		l.emit("setfillcolorind", strconv.Itoa(color))
		l.fill, l.fillSet = color, true
	}
	l.emit("fillarea", strconv.Itoa(len(x)), floats(x), floats(y))
	return l.err
}

func (l *CommandLog) Arrow(x1, y1, x2, y2 float64, a Attributes) error {
	l.lineStyle(a)
	l.emit("drawarrow", float(x1), float(y1), float(x2), float(y2))
	return l.err
}

func (l *CommandLog) Text(x, y float64, s string, style TextStyle) error {
	if !l.textSet || l.text.Color != style.Color {
		l.emit("settextcolorind", strconv.Itoa(style.Color))
	}
	if !l.textSet || l.text.Height != style.Height {
		l.emit("setcharheight", float(style.Height))
	}
	l.text, l.textSet = style, true
	name := "textext"
	if style.Math {
		name = "mathtex"
	}
	l.emit(name, float(x), float(y), s)
	return l.err
}

func (l *CommandLog) Present() error {
	l.emit("updatews")
	if l.err == nil {
		l.err = l.w.Flush()
	}
	return l.err
}

func (l *CommandLog) Close() error {
	l.raw("</gr>\n")
	if l.err == nil {
		l.err = l.w.Flush()
	}
	return l.err
}

func (l *CommandLog) lineStyle(a Attributes) {
	if !l.lineSet || l.attrs.LineType != a.LineType {
		l.emit("setlinetype", strconv.Itoa(int(a.LineType)))
	}
	if !l.lineSet || l.attrs.LineWidth != a.LineWidth {
		l.emit("setlinewidth", float(a.LineWidth))
	}
	if !l.lineSet || l.attrs.LineColor != a.LineColor {
		l.emit("setlinecolorind", strconv.Itoa(a.LineColor))
	}
	l.attrs.LineType, l.attrs.LineWidth, l.attrs.LineColor = a.LineType, a.LineWidth, a.LineColor
	l.lineSet = true
}

func (l *CommandLog) markerStyle(a Attributes) {
	if !l.markerSet || l.attrs.MarkerType != a.MarkerType {
		l.emit("setmarkertype", strconv.Itoa(int(a.MarkerType)))
	}
	if !l.markerSet || l.attrs.MarkerSize != a.MarkerSize {
		l.emit("setmarkersize", float(a.MarkerSize))
	}
	if !l.markerSet || l.attrs.MarkerColor != a.MarkerColor {
		l.emit("setmarkercolorind", strconv.Itoa(a.MarkerColor))
	}
	l.attrs.MarkerType, l.attrs.MarkerSize, l.attrs.MarkerColor = a.MarkerType, a.MarkerSize, a.MarkerColor
	l.markerSet = true
}

func (l *CommandLog) emit(name string, values ...string) {
	spec, _ := lookupCommand(name)
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for i, v := range values {
		b.WriteString(" ")
		b.WriteString(spec.attrs[i])
		b.WriteString(`="`)
		xml.EscapeText(&b, []byte(v))
		b.WriteString(`"`)
	}
	b.WriteString("/>\n")
	l.raw(b.String())
}

func (l *CommandLog) raw(s string) {
	if l.err != nil {
		return
	}
	_, l.err = l.w.WriteString(s)
}

func float(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func floats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = float(v)
	}
	return strings.Join(parts, " ")
}
