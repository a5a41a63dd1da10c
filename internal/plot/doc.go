// Package plot holds the drawing capability shared by every output
// surface: style attributes, the colour-index allocator, drawable
// primitives and the Canvas they draw on.
//
// Coordinates are normalised device coordinates in [0,1]x[0,1] with the
// origin at the bottom left. Colours are palette indices.
//
// The CommandLog canvas serialises drawing calls one XML element per line:
//
//	<gr>
//	<clearws/>
//	<fillarea n="4" x="0.46 0.54 0.54 0.46" y="0.79 0.79 0.81 0.81"/>
//	<setlinecolorind color="1"/>
//	<polyline n="2" x="0.5 0.8" y="0.8 0.5"/>
//	<updatews/>
//	</gr>
//
// ParseCommands reads such a log back and Replay drives any Canvas from it.
package plot
