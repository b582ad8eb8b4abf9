package gstate

import (
	"errors"
	"math"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/style"
)

// ErrPageNotBegun is returned when a state event arrives for a page
// that was never begun. This is a backend contract violation and is
// fatal for the page's conversion only.
var ErrPageNotBegun = errors.New("graphics state event before page begin")

// ErrStackUnderflow is returned when Restore is called on an empty
// state stack.
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// dirtyMask tracks which state fields changed since the last run began.
type dirtyMask uint8

const (
	dirtyTransform dirtyMask = 1 << iota
	dirtyFont
	dirtyColor
	dirtyClip
	dirtyTextPos
	dirtyRenderMode

	dirtyAll = dirtyTransform | dirtyFont | dirtyColor | dirtyClip | dirtyTextPos | dirtyRenderMode
)

// BreakLevel classifies what a pending state change means for the
// current output run.
type BreakLevel int

const (
	// BreakNone means the current run can be extended.
	BreakNone BreakLevel = iota
	// BreakRun means a new run must start on the current line.
	BreakRun
	// BreakLine means the current line must close and a new one open.
	BreakLine
)

// String returns a string representation of the break level.
func (b BreakLevel) String() string {
	switch b {
	case BreakNone:
		return "None"
	case BreakRun:
		return "Run"
	case BreakLine:
		return "Line"
	default:
		return "Unknown"
	}
}

// LineContext describes the currently open output line, if any.
type LineContext struct {
	// Active is false when no line is open.
	Active bool
	// Transform is the open line's transform class.
	Transform model.Matrix
}

// Config holds configuration for a Tracker.
type Config struct {
	// Eps is the tolerance for matrix proportionality tests
	// (default 1e-6).
	Eps float64
	// MinFontSize replaces a font size that evaluates to zero after
	// transform scaling (default 0.001).
	MinFontSize float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Eps:         1e-6,
		MinFontSize: 0.001,
	}
}

// RunStyle is the normalized style of a starting run: the interned
// style IDs plus the corrected values they were derived from.
type RunStyle struct {
	Set style.Set

	Font     backend.FontRef
	FontSize float64
	Fill     model.Color
	Stroke   model.Color
	Mode     backend.RenderMode
	// Transform is the sign-compensated drawing matrix, translation
	// included (the interned class ignores translation).
	Transform model.Matrix
}

// Tracker maintains the graphics-state stack for one page and
// classifies each character-drawing event as a continuation of the
// current run or the start of a new run or line.
//
// The tracker implements backend.Device for the state events; drawing
// events only advance the text position. It interns style values into
// a document-scoped registry shared with the page assembler.
type Tracker struct {
	registry *style.Registry
	config   Config

	stack    []State
	dirty    dirtyMask
	pageOpen bool
}

// NewTracker creates a tracker installing styles into reg.
func NewTracker(reg *style.Registry) *Tracker {
	return NewTrackerWithConfig(reg, DefaultConfig())
}

// NewTrackerWithConfig creates a tracker with custom configuration.
func NewTrackerWithConfig(reg *style.Registry, config Config) *Tracker {
	if config.Eps <= 0 {
		config.Eps = DefaultConfig().Eps
	}
	if config.MinFontSize <= 0 {
		config.MinFontSize = DefaultConfig().MinFontSize
	}
	return &Tracker{
		registry: reg,
		config:   config,
	}
}

// Current returns the top-of-stack state.
func (t *Tracker) Current() State {
	if len(t.stack) == 0 {
		return newState()
	}
	return t.stack[len(t.stack)-1]
}

func (t *Tracker) top() *State {
	return &t.stack[len(t.stack)-1]
}

// PageBegin resets the tracker for a new page. All dirty bits start
// set so the first character always opens a fresh run.
func (t *Tracker) PageBegin(width, height float64) error {
	t.stack = t.stack[:0]
	t.stack = append(t.stack, newState())
	t.dirty = dirtyAll
	t.pageOpen = true
	return nil
}

// PageEnd closes the page.
func (t *Tracker) PageEnd() error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	t.pageOpen = false
	return nil
}

// SaveState pushes a copy of the current state.
func (t *Tracker) SaveState() error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	t.stack = append(t.stack, t.Current())
	return nil
}

// RestoreState pops the state stack. Because a restore may revert any
// field, every dirty bit is set afterwards.
func (t *Tracker) RestoreState() error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	if len(t.stack) <= 1 {
		return ErrStackUnderflow
	}
	t.stack = t.stack[:len(t.stack)-1]
	t.dirty = dirtyAll
	return nil
}

// UpdateTransform replaces the current transformation matrix.
func (t *Tracker) UpdateTransform(m model.Matrix) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if s.CTM != m {
		s.CTM = m
		t.dirty |= dirtyTransform
	}
	return nil
}

// UpdateFont sets the current font reference and nominal size.
func (t *Tracker) UpdateFont(ref backend.FontRef, size float64) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if s.Font != ref || s.FontSize != size {
		s.Font = ref
		s.FontSize = size
		t.dirty |= dirtyFont
	}
	return nil
}

// UpdateColor sets the fill and stroke colors.
func (t *Tracker) UpdateColor(fill, stroke model.Color) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if !s.FillColor.Equals(fill) || !s.StrokeColor.Equals(stroke) {
		s.FillColor = fill
		s.StrokeColor = stroke
		t.dirty |= dirtyColor
	}
	return nil
}

// UpdateClip sets the current clip rectangle.
func (t *Tracker) UpdateClip(rect model.BBox) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if !s.HasClip || !s.Clip.Equals(rect, t.config.Eps) {
		s.Clip = rect
		s.HasClip = true
		t.dirty |= dirtyClip
	}
	return nil
}

// UpdateTextPosition sets the text position in text space.
func (t *Tracker) UpdateTextPosition(tx, ty float64) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	s.TextX = tx
	s.TextY = ty
	t.dirty |= dirtyTextPos
	return nil
}

// UpdateSpacing sets the letter and word spacing. A spacing change is
// a font-class style change for run-break purposes.
func (t *Tracker) UpdateSpacing(letter, word float64) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if s.LetterSpacing != letter || s.WordSpacing != word {
		s.LetterSpacing = letter
		s.WordSpacing = word
		t.dirty |= dirtyFont
	}
	return nil
}

// UpdateRenderMode sets the text rendering mode.
func (t *Tracker) UpdateRenderMode(mode backend.RenderMode) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	s := t.top()
	if s.RenderMode != mode {
		s.RenderMode = mode
		t.dirty |= dirtyRenderMode
	}
	return nil
}

// DrawChar advances the text position by the character's advance
// width. Run classification happens in RunBreak before the converter
// forwards the character to the assembler.
func (t *Tracker) DrawChar(ch backend.Char, pos model.Point, advance float64) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	t.top().TextX += advance
	return nil
}

// DrawPath is ignored by the tracker.
func (t *Tracker) DrawPath(kind backend.PathKind, rect model.BBox, opacity float64) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	return nil
}

// DrawImage is ignored by the tracker.
func (t *Tracker) DrawImage(rect model.BBox, ref backend.DataRef) error {
	if !t.pageOpen {
		return ErrPageNotBegun
	}
	return nil
}

// RunBreak classifies the pending state changes against the open line.
// A clip change or a transform that is no longer proportional to the
// line's transform closes the line; font, color, render-mode, or
// parallel transform changes start a new run; a bare text-position
// move is a continuation (the assembler records it as an offset).
func (t *Tracker) RunBreak(line LineContext) BreakLevel {
	if !line.Active {
		return BreakLine
	}
	if t.dirty&dirtyClip != 0 {
		return BreakLine
	}
	if t.dirty&dirtyTransform != 0 {
		if !t.Current().CTM.IsProportionalTo(line.Transform, t.config.Eps) {
			return BreakLine
		}
		// Parallel but possibly rescaled: same line, and the style
		// set decides whether the run actually changes.
		return BreakRun
	}
	if t.dirty&(dirtyFont|dirtyColor|dirtyRenderMode) != 0 {
		return BreakRun
	}
	return BreakNone
}

// BeginRun normalizes the current state, interns its style values, and
// clears the dirty bits. Numeric edge cases are corrected in place:
// a negative font size is negated with the transform's linear part
// sign-compensated, and a size that evaluates to zero after transform
// scaling is forced up to MinFontSize.
func (t *Tracker) BeginRun() RunStyle {
	s := t.Current()

	size := s.FontSize
	m := s.CTM
	if size < 0 {
		size = -size
		m = m.NegateLinear()
	}
	if math.IsNaN(size) {
		size = t.config.MinFontSize
	}
	for i := range m {
		if math.IsNaN(m[i]) {
			m = model.Identity()
			break
		}
	}

	scale := math.Max(math.Abs(m[0]), math.Abs(m[3]))
	if size*scale < t.config.MinFontSize {
		size = t.config.MinFontSize
	}

	fill := s.FillColor
	if s.RenderMode == backend.RenderInvisible {
		fill = model.TransparentColor()
	}

	rs := RunStyle{
		Font:      s.Font,
		FontSize:  size,
		Fill:      fill,
		Stroke:    s.StrokeColor,
		Mode:      s.RenderMode,
		Transform: m,
	}
	rs.Set = style.Set{
		Valid:         true,
		FontSize:      t.registry.Install(style.FontSize(size)),
		LetterSpacing: t.registry.Install(style.LetterSpacing(s.LetterSpacing)),
		WordSpacing:   t.registry.Install(style.WordSpacing(s.WordSpacing)),
		FillColor:     t.registry.Install(style.FillColor(fill)),
		StrokeColor:   t.registry.Install(style.StrokeColor(s.StrokeColor)),
		Transform:     t.registry.Install(style.Transform(m)),
	}

	t.dirty = 0
	return rs
}

// CurrentClip returns the active clip rectangle, if any.
func (t *Tracker) CurrentClip() (model.BBox, bool) {
	s := t.Current()
	return s.Clip, s.HasClip
}

// Depth returns the state stack depth. Useful for diagnostics.
func (t *Tracker) Depth() int {
	return len(t.stack)
}
