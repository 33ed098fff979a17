// Package sixel implements a streaming decoder for the DEC SIXEL graphics
// escape-sequence format: a byte-fed state machine that turns a DCS-wrapped
// sixel stream into an indexed-color pixel grid plus a palette, and a
// finalize step that materializes the result as a BGRA raster.
//
// The decoder is a single-owner, synchronous state machine: Parse consumes
// whatever bytes it's handed and returns, ready to resume on the next call
// — there is no goroutine, no internal buffering beyond the image grid
// itself, and no concurrent access support.
package sixel

// Parameter and table limits, matching the wire format's bounds exactly so
// a conforming encoder's output is never rejected.
const (
	// ParamsMax is the cap on parameters accepted per command before
	// further ones are silently dropped.
	ParamsMax = 16

	// ParamValueMax is the cap a single accumulated numeric parameter
	// clamps to.
	ParamValueMax = 65535

	// PaletteMax is the number of palette register slots.
	PaletteMax = 1024

	// WidthMax and HeightMax bound the image grid; Parse never grows the
	// grid past these even if the input keeps painting further out.
	WidthMax  = 4096
	HeightMax = 4096
)

// state is the decoder's current parse phase.
type state int

const (
	stateESC state = iota
	stateDCS
	stateDECSIXEL
	stateDECGRA
	stateDECGRI
	stateDECGCI
)

// colorNo is a palette index stored per pixel.
type colorNo uint16
