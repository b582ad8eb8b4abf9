package occlusion

import (
	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

// Handle identifies a registered character box within one page.
type Handle int

// Config holds configuration for a Detector.
type Config struct {
	// OpacityThreshold is the minimum opacity for a primitive to
	// occlude. Primitives below the threshold are ignored entirely;
	// a primitive at exactly the threshold occludes (default 0.5).
	OpacityThreshold float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		OpacityThreshold: 0.5,
	}
}

// charBox is the per-character visibility state. A corner is clear
// until some later-drawn primitive's rectangle contains it; the
// character is covered once all four corners are obstructed.
type charBox struct {
	rect model.BBox
	// clear marks corners not yet obstructed, indexed as
	// model.BBox.Corners orders them.
	clear [4]bool
}

func (c *charBox) clearCount() int {
	n := 0
	for _, ok := range c.clear {
		if ok {
			n++
		}
	}
	return n
}

// Detector tracks which characters are visually occluded by later-drawn
// non-character primitives, in painter's order. It is independent of
// the graphics-state tracker; both are driven by the same event stream.
//
// All state is per page; Reset (or PageBegin) clears it.
type Detector struct {
	config Config
	chars  []charBox
	frozen bool
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return NewDetectorWithConfig(DefaultConfig())
}

// NewDetectorWithConfig creates a detector with custom configuration.
func NewDetectorWithConfig(config Config) *Detector {
	if config.OpacityThreshold <= 0 {
		config.OpacityThreshold = DefaultConfig().OpacityThreshold
	}
	return &Detector{config: config}
}

// Reset clears all per-page state.
func (d *Detector) Reset() {
	d.chars = d.chars[:0]
	d.frozen = false
}

// AddCharBBox registers a character's rectangle, initially fully
// visible, and returns its handle. Handles are allocated sequentially
// per page and correspond 1:1 with drawn characters.
func (d *Detector) AddCharBBox(rect model.BBox) Handle {
	h := Handle(len(d.chars))
	d.chars = append(d.chars, charBox{
		rect:  rect,
		clear: [4]bool{true, true, true, true},
	})
	return h
}

// AddNonCharBBox tests every previously registered character against a
// later-drawn primitive's rectangle. A corner is obstructed when it
// falls inside the rectangle (closed intervals: a corner exactly on
// the edge counts). Primitives with opacity below the threshold never
// occlude.
func (d *Detector) AddNonCharBBox(rect model.BBox, opacity float64) {
	if opacity < d.config.OpacityThreshold {
		return
	}
	if d.frozen {
		return
	}

	for i := range d.chars {
		c := &d.chars[i]
		corners := c.rect.Corners()
		for j := 0; j < 4; j++ {
			if c.clear[j] && rect.Contains(corners[j]) {
				c.clear[j] = false
			}
		}
	}
}

// Freeze ends the page trace. Later primitives no longer affect
// visibility; verdicts are final.
func (d *Detector) Freeze() {
	d.frozen = true
}

// Visible returns the visibility verdict for a handle. An out-of-range
// handle fails safe by reporting covered, never visible, so a defect
// elsewhere cannot render garbage into the visible layer.
func (d *Detector) Visible(h Handle) bool {
	if h < 0 || int(h) >= len(d.chars) {
		return false
	}
	return d.chars[h].clearCount() > 0
}

// Covered reports the inverse of Visible.
func (d *Detector) Covered(h Handle) bool {
	return !d.Visible(h)
}

// CornersClear returns how many of a character's corners remain
// unobstructed (0-4). Out-of-range handles report 0.
func (d *Detector) CornersClear(h Handle) int {
	if h < 0 || int(h) >= len(d.chars) {
		return 0
	}
	return d.chars[h].clearCount()
}

// HasPartialCoverage reports whether any character currently has 1-3
// corners obstructed. The background strategy may escalate raster
// resolution for such pages; the verdict is only final once the page
// trace is frozen.
func (d *Detector) HasPartialCoverage() bool {
	for i := range d.chars {
		if n := d.chars[i].clearCount(); n >= 1 && n <= 3 {
			return true
		}
	}
	return false
}

// CoveredCount returns the number of fully covered characters.
func (d *Detector) CoveredCount() int {
	n := 0
	for i := range d.chars {
		if d.chars[i].clearCount() == 0 {
			n++
		}
	}
	return n
}

// Len returns the number of registered characters.
func (d *Detector) Len() int {
	return len(d.chars)
}

// Device adapter: the detector consumes the same event stream as the
// other analyzers. Character boxes are registered by the converter
// (which knows the glyph metrics), so DrawChar is ignored here.

type deviceAdapter struct {
	backend.NopDevice
	d *Detector
}

// AsDevice wraps the detector as a backend.Device that feeds path and
// image primitives into the occlusion trace and resets on page begin.
func (d *Detector) AsDevice() backend.Device {
	return deviceAdapter{d: d}
}

func (a deviceAdapter) PageBegin(width, height float64) error {
	a.d.Reset()
	return nil
}

func (a deviceAdapter) PageEnd() error {
	a.d.Freeze()
	return nil
}

func (a deviceAdapter) DrawPath(kind backend.PathKind, rect model.BBox, opacity float64) error {
	a.d.AddNonCharBBox(rect, opacity)
	return nil
}

func (a deviceAdapter) DrawImage(rect model.BBox, ref backend.DataRef) error {
	// Images are assumed opaque for coverage purposes.
	a.d.AddNonCharBBox(rect, 1)
	return nil
}
