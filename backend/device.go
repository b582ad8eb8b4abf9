package backend

import (
	"github.com/tsawler/folio/model"
)

// PathKind identifies how a path primitive is painted.
type PathKind int

const (
	// PathStroke is an outlined path.
	PathStroke PathKind = iota
	// PathFill is a filled path.
	PathFill
)

// String returns a string representation of the path kind.
func (k PathKind) String() string {
	switch k {
	case PathStroke:
		return "Stroke"
	case PathFill:
		return "Fill"
	default:
		return "Unknown"
	}
}

// RenderMode is the text rendering mode from the graphics state. Modes
// other than RenderFill and RenderFillStroke draw glyphs as paths or
// clip shapes and cannot be represented as live text.
type RenderMode int

const (
	RenderFill RenderMode = iota
	RenderStroke
	RenderFillStroke
	RenderInvisible
	RenderFillClip
	RenderStrokeClip
	RenderFillStrokeClip
	RenderClip
)

// IsPathOnly reports whether the mode forces glyphs to be drawn as
// paths rather than live text.
func (m RenderMode) IsPathOnly() bool {
	switch m {
	case RenderFill, RenderStroke, RenderFillStroke, RenderInvisible:
		return false
	default:
		return true
	}
}

// Char is one character-drawing event. Extra carries additional code
// points for multi-codepoint glyphs (ligatures decomposing to several
// characters) out of band, so per-character indexing stays 1:1 with the
// backend's glyph indices.
type Char struct {
	Code  rune
	Extra []rune
	Glyph GlyphRef
}

// Text returns the character's full code point sequence as a string.
func (c Char) Text() string {
	if len(c.Extra) == 0 {
		return string(c.Code)
	}
	runes := make([]rune, 0, 1+len(c.Extra))
	runes = append(runes, c.Code)
	runes = append(runes, c.Extra...)
	return string(runes)
}

// Device receives the event stream replayed by the page backend. The
// backend drives all state updates before the drawing event they
// affect; implementations never see drawing events for a page outside
// a PageBegin/PageEnd pair.
//
// A returned error aborts the current page's conversion; it must not
// corrupt state shared across pages.
type Device interface {
	PageBegin(width, height float64) error
	PageEnd() error

	SaveState() error
	RestoreState() error
	UpdateTransform(m model.Matrix) error
	UpdateFont(ref FontRef, size float64) error
	UpdateColor(fill, stroke model.Color) error
	UpdateClip(rect model.BBox) error
	UpdateTextPosition(tx, ty float64) error
	UpdateSpacing(letter, word float64) error
	UpdateRenderMode(mode RenderMode) error

	DrawChar(ch Char, pos model.Point, advance float64) error
	DrawPath(kind PathKind, rect model.BBox, opacity float64) error
	DrawImage(rect model.BBox, ref DataRef) error
}

// NopDevice is a Device that ignores every event. Embed it to implement
// only the events a component cares about.
type NopDevice struct{}

func (NopDevice) PageBegin(float64, float64) error             { return nil }
func (NopDevice) PageEnd() error                               { return nil }
func (NopDevice) SaveState() error                             { return nil }
func (NopDevice) RestoreState() error                          { return nil }
func (NopDevice) UpdateTransform(model.Matrix) error           { return nil }
func (NopDevice) UpdateFont(FontRef, float64) error            { return nil }
func (NopDevice) UpdateColor(model.Color, model.Color) error   { return nil }
func (NopDevice) UpdateClip(model.BBox) error                  { return nil }
func (NopDevice) UpdateTextPosition(float64, float64) error    { return nil }
func (NopDevice) UpdateSpacing(float64, float64) error         { return nil }
func (NopDevice) UpdateRenderMode(RenderMode) error            { return nil }
func (NopDevice) DrawChar(Char, model.Point, float64) error    { return nil }
func (NopDevice) DrawPath(PathKind, model.BBox, float64) error { return nil }
func (NopDevice) DrawImage(model.BBox, DataRef) error          { return nil }

// Broadcast fans every event out to a fixed-order list of devices.
// Each event reaches every device in list order before the next event
// is dispatched; the first error stops the broadcast.
type Broadcast struct {
	devices []Device
}

// NewBroadcast creates a broadcaster over the given devices. Order is
// significant: analyzers that later devices depend on must come first.
func NewBroadcast(devices ...Device) *Broadcast {
	return &Broadcast{devices: devices}
}

func (b *Broadcast) each(f func(Device) error) error {
	for _, d := range b.devices {
		if err := f(d); err != nil {
			return err
		}
	}
	return nil
}

func (b *Broadcast) PageBegin(width, height float64) error {
	return b.each(func(d Device) error { return d.PageBegin(width, height) })
}

func (b *Broadcast) PageEnd() error {
	return b.each(func(d Device) error { return d.PageEnd() })
}

func (b *Broadcast) SaveState() error {
	return b.each(func(d Device) error { return d.SaveState() })
}

func (b *Broadcast) RestoreState() error {
	return b.each(func(d Device) error { return d.RestoreState() })
}

func (b *Broadcast) UpdateTransform(m model.Matrix) error {
	return b.each(func(d Device) error { return d.UpdateTransform(m) })
}

func (b *Broadcast) UpdateFont(ref FontRef, size float64) error {
	return b.each(func(d Device) error { return d.UpdateFont(ref, size) })
}

func (b *Broadcast) UpdateColor(fill, stroke model.Color) error {
	return b.each(func(d Device) error { return d.UpdateColor(fill, stroke) })
}

func (b *Broadcast) UpdateClip(rect model.BBox) error {
	return b.each(func(d Device) error { return d.UpdateClip(rect) })
}

func (b *Broadcast) UpdateTextPosition(tx, ty float64) error {
	return b.each(func(d Device) error { return d.UpdateTextPosition(tx, ty) })
}

func (b *Broadcast) UpdateSpacing(letter, word float64) error {
	return b.each(func(d Device) error { return d.UpdateSpacing(letter, word) })
}

func (b *Broadcast) UpdateRenderMode(mode RenderMode) error {
	return b.each(func(d Device) error { return d.UpdateRenderMode(mode) })
}

func (b *Broadcast) DrawChar(ch Char, pos model.Point, advance float64) error {
	return b.each(func(d Device) error { return d.DrawChar(ch, pos, advance) })
}

func (b *Broadcast) DrawPath(kind PathKind, rect model.BBox, opacity float64) error {
	return b.each(func(d Device) error { return d.DrawPath(kind, rect, opacity) })
}

func (b *Broadcast) DrawImage(rect model.BBox, ref DataRef) error {
	return b.each(func(d Device) error { return d.DrawImage(rect, ref) })
}
