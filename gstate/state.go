package gstate

import (
	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

// State is one graphics-state snapshot. It is a plain value type:
// Save pushes a copy onto a slice-backed stack and Restore pops it, so
// snapshots never form a linked object graph.
type State struct {
	// Current transformation matrix
	CTM model.Matrix

	// Font reference and nominal size as last set by the backend.
	// Size may be negative (upside-down glyphs) or zero; it is
	// normalized only when a run starts.
	Font     backend.FontRef
	FontSize float64

	// Colors
	FillColor   model.Color
	StrokeColor model.Color

	// Clip region. HasClip is false until the backend sets one.
	Clip    model.BBox
	HasClip bool

	// Text state
	RenderMode    backend.RenderMode
	TextX, TextY  float64
	LetterSpacing float64
	WordSpacing   float64
	Rise          float64
}

// newState returns the default state for a fresh page.
func newState() State {
	return State{
		CTM:       model.Identity(),
		FillColor: model.Black(),
		// Stroke defaults to black as well
		StrokeColor: model.Black(),
	}
}

// TextPosition returns the current text position in page coordinates.
func (s State) TextPosition() model.Point {
	return s.CTM.Transform(model.Point{X: s.TextX, Y: s.TextY + s.Rise})
}
