// Package render turns simulation frames into drawings and puts them on
// canvases: SVG documents, PNG images through gonum/plot, or any other
// plot.Canvas via CanvasSurface.
package render
