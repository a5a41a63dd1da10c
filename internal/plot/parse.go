package plot

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrUnknownCommand = errors.New("plot: unknown command")

// Command is one parsed log element. Arguments are grouped by type in the
// order they appear.
type Command struct {
	Name   string
	Line   int
	Ints   []int
	Floats []float64
	Arrays [][]float64
	Text   string
}

type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseCommands reads a graphics log. The enclosing <gr> element is
// optional; any other unknown element is an error.
func ParseCommands(r io.Reader) ([]Command, error) {
	dec := xml.NewDecoder(r)
	var cmds []Command
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return cmds, nil
		}
		if err != nil {
			return nil, fmt.Errorf("plot: read log: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		line, _ := dec.InputPos()
		name := start.Name.Local
		if name == "gr" {
			continue
		}

		spec, ok := lookupCommand(name)
		if !ok {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%w %q", ErrUnknownCommand, name)}
		}
		cmd, err := decodeCommand(spec, start.Attr)
		if err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%s: %w", name, err)}
		}
		cmd.Line = line
		cmds = append(cmds, cmd)
	}
}

func decodeCommand(spec commandSpec, attrs []xml.Attr) (Command, error) {
	cmd := Command{Name: spec.name}
	if len(attrs) != len(spec.format) {
		return cmd, fmt.Errorf("want %d arguments, got %d", len(spec.format), len(attrs))
	}

	for i, kind := range spec.format {
		v := attrs[i].Value
		switch kind {
		case 'i':
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return cmd, fmt.Errorf("argument %d: %w", i+1, err)
			}
			cmd.Ints = append(cmd.Ints, n)
		case 'f':
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return cmd, fmt.Errorf("argument %d: %w", i+1, err)
			}
			cmd.Floats = append(cmd.Floats, f)
		case 's':
			cmd.Text = v
		case 'F':
			fields := strings.Fields(v)
			arr := make([]float64, len(fields))
			for j, field := range fields {
				f, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return cmd, fmt.Errorf("argument %d: %w", i+1, err)
				}
				arr[j] = f
			}
			cmd.Arrays = append(cmd.Arrays, arr)
		}
	}

	if spec.format == "iFF" {
		n := cmd.Ints[0]
		if len(cmd.Arrays[0]) != n || len(cmd.Arrays[1]) != n {
			return cmd, fmt.Errorf("n=%d but got %d x and %d y values", n, len(cmd.Arrays[0]), len(cmd.Arrays[1]))
		}
	}
	return cmd, nil
}

// Replay drives c with the parsed commands, tracking style state between
// them the way the log was written.
func Replay(cmds []Command, c Canvas) error {
	attrs := NewAttributes(nil, WithLineColor(1))
	fill := 1
	text := TextStyle{Color: 1, Height: DefaultCharHeight}

	for _, cmd := range cmds {
		var err error
		switch cmd.Name {
		case "clearws":
			err = c.Clear()
		case "updatews":
			err = c.Present()
		case "setlinetype":
			attrs.LineType = LineType(cmd.Ints[0])
		case "setlinewidth":
			attrs.LineWidth = cmd.Floats[0]
		case "setlinecolorind":
			attrs.LineColor = cmd.Ints[0]
		case "setmarkertype":
			attrs.MarkerType = MarkerType(cmd.Ints[0])
		case "setmarkersize":
			attrs.MarkerSize = cmd.Floats[0]
		case "setmarkercolorind":
			attrs.MarkerColor = cmd.Ints[0]
		case "setfillcolorind":
			fill = cmd.Ints[0]
		case "settextcolorind":
			text.Color = cmd.Ints[0]
		case "setcharheight":
			text.Height = cmd.Floats[0]
		case "polyline":
			err = c.Polyline(cmd.Arrays[0], cmd.Arrays[1], attrs)
		case "polymarker":
			err = c.Polymarker(cmd.Arrays[0], cmd.Arrays[1], attrs)
		case "fillarea":
			err = c.FillArea(cmd.Arrays[0], cmd.Arrays[1], fill)
		case "drawarrow":
			err = c.Arrow(cmd.Floats[0], cmd.Floats[1], cmd.Floats[2], cmd.Floats[3], attrs)
		case "textext", "mathtex":
			style := text
			style.Math = cmd.Name == "mathtex"
			err = c.Text(cmd.Floats[0], cmd.Floats[1], cmd.Text, style)
		default:
			err = fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
		}
		if err != nil {
			return fmt.Errorf("replay line %d (%s): %w", cmd.Line, cmd.Name, err)
		}
	}
	return nil
}
