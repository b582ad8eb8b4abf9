package assemble

import (
	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/occlusion"
	"github.com/tsawler/folio/style"
)

// Char is one character slot in a run. Offset is the horizontal
// spacing inserted before the character (0 when none survived the
// epsilon filter). Handle links the character to its occlusion
// verdict; Suppress forces the character invisible regardless of the
// verdict (used for characters rasterized into the background).
type Char struct {
	Char     backend.Char
	Offset   float64
	Handle   occlusion.Handle
	Suppress bool
}

// Run is a maximal sequence of characters sharing one style set and
// lying on one geometric line.
type Run struct {
	Set   style.Set
	Chars []Char
}

// Text returns the run's code points as a string, including the
// out-of-band extra code points of multi-codepoint glyphs.
func (r *Run) Text() string {
	var out []rune
	for _, c := range r.Chars {
		out = append(out, c.Char.Code)
		out = append(out, c.Char.Extra...)
	}
	return string(out)
}

// Line is an ordered sequence of runs sharing one transform class.
// Origin is the page-space position of the line's first character;
// Transform is the class used to test whether new text is parallel.
type Line struct {
	Transform model.Matrix
	Origin    model.Point
	Runs      []Run
}

// Empty reports whether the line holds no characters.
func (l *Line) Empty() bool {
	for i := range l.Runs {
		if len(l.Runs[i].Chars) > 0 {
			return false
		}
	}
	return true
}

// ClipRegion is a clip rectangle plus the index of the first line it
// affects. Regions whose bounds equal the page bounds are recorded but
// never serialized.
type ClipRegion struct {
	Rect      model.BBox
	FirstLine int
}
