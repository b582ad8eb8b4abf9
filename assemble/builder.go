package assemble

import (
	"fmt"
	"math"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/occlusion"
	"github.com/tsawler/folio/style"
)

// Config holds configuration for a Builder.
type Config struct {
	// HorizontalEps is the smallest inter-character offset worth
	// emitting; smaller offsets are treated as zero so near-invisible
	// spacing artifacts never reach the output (default 0.01).
	HorizontalEps float64
	// Eps is the tolerance for matrix proportionality tests
	// (default 1e-6).
	Eps float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		HorizontalEps: 0.01,
		Eps:           1e-6,
	}
}

// Builder accumulates runs of characters into lines and serializes a
// page's lines and clip regions into markup. It consumes the run
// decisions of the graphics-state tracker, references styles through
// the shared registry, and reads visibility verdicts from the
// occlusion detector at serialization time.
//
// All builder state is per page. Reset (or abort) discards it without
// touching the shared registry.
type Builder struct {
	registry *style.Registry
	detector *occlusion.Detector
	config   Config

	pageWidth  float64
	pageHeight float64

	lines   []Line
	open    bool
	curSet  style.Set
	pending float64
	clips   []ClipRegion

	warnings []string
}

// NewBuilder creates a builder with default configuration.
func NewBuilder(reg *style.Registry, det *occlusion.Detector) *Builder {
	return NewBuilderWithConfig(reg, det, DefaultConfig())
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(reg *style.Registry, det *occlusion.Detector, config Config) *Builder {
	if config.HorizontalEps <= 0 {
		config.HorizontalEps = DefaultConfig().HorizontalEps
	}
	if config.Eps <= 0 {
		config.Eps = DefaultConfig().Eps
	}
	return &Builder{
		registry: reg,
		detector: det,
		config:   config,
	}
}

// Reset clears all per-page state and records the page bounds used for
// clip suppression.
func (b *Builder) Reset(pageWidth, pageHeight float64) {
	b.pageWidth = pageWidth
	b.pageHeight = pageHeight
	b.lines = b.lines[:0]
	b.open = false
	b.curSet = style.Set{}
	b.pending = 0
	b.clips = b.clips[:0]
	b.warnings = b.warnings[:0]
}

// OpenLine closes any open line and starts a new one with the given
// transform class and origin.
func (b *Builder) OpenLine(transform model.Matrix, origin model.Point) {
	b.CloseLine()
	b.lines = append(b.lines, Line{
		Transform: transform,
		Origin:    origin,
	})
	b.open = true
	b.curSet = style.Set{}
	b.pending = 0
}

// CloseLine finalizes the current line. Empty lines are dropped.
func (b *Builder) CloseLine() {
	if !b.open {
		return
	}
	b.open = false
	if last := len(b.lines) - 1; last >= 0 && b.lines[last].Empty() {
		b.lines = b.lines[:last]
	}
	b.curSet = style.Set{}
	b.pending = 0
}

// CurrentLine describes the open line for run-break classification.
func (b *Builder) CurrentLine() (model.Matrix, bool) {
	if !b.open {
		return model.Matrix{}, false
	}
	return b.lines[len(b.lines)-1].Transform, true
}

// AppendChar appends a character to the current run, starting a new
// run first if the style set differs from the current run's. A
// character arriving with no open line or an invalid style set is a
// logic defect elsewhere: the builder warns and keeps going rather
// than failing the page.
func (b *Builder) AppendChar(ch backend.Char, set style.Set, handle occlusion.Handle, suppress bool) {
	if !b.open {
		b.warn(fmt.Sprintf("character %q appended with no open line", ch.Text()))
		b.OpenLine(model.Identity(), model.Point{})
	}
	if !set.Valid {
		b.warn(fmt.Sprintf("character %q appended with empty style set", ch.Text()))
	}

	line := &b.lines[len(b.lines)-1]
	if len(line.Runs) == 0 || !set.Equals(b.curSet) {
		line.Runs = append(line.Runs, Run{Set: set})
		b.curSet = set
	}

	offset := b.pending
	b.pending = 0
	if math.Abs(offset) < b.config.HorizontalEps {
		offset = 0
	}

	run := &line.Runs[len(line.Runs)-1]
	run.Chars = append(run.Chars, Char{
		Char:     ch,
		Offset:   offset,
		Handle:   handle,
		Suppress: suppress,
	})
}

// AppendOffset records inter-character spacing before the next
// character. Consecutive offsets accumulate; the epsilon filter is
// applied to the sum when the next character arrives.
func (b *Builder) AppendOffset(width float64) {
	b.pending += width
}

// NextLineIndex returns the index the next opened line will get.
func (b *Builder) NextLineIndex() int {
	return len(b.lines)
}

// RegisterClip records a clip region taking effect at the given line
// index. Regions matching the page bounds are kept for bookkeeping but
// never serialized.
func (b *Builder) RegisterClip(rect model.BBox, firstLine int) {
	if firstLine < 0 {
		firstLine = 0
	}
	b.clips = append(b.clips, ClipRegion{Rect: rect, FirstLine: firstLine})
}

// Lines returns the accumulated lines. The caller must not retain the
// slice across a Reset.
func (b *Builder) Lines() []Line {
	return b.lines
}

// Clips returns the registered clip regions in registration order.
func (b *Builder) Clips() []ClipRegion {
	return b.clips
}

// Warnings returns the defects recorded while building this page.
func (b *Builder) Warnings() []string {
	return b.warnings
}

func (b *Builder) warn(msg string) {
	b.warnings = append(b.warnings, msg)
}
