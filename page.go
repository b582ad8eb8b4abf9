package folio

import (
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/folio/assemble"
	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/background"
	"github.com/tsawler/folio/gstate"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/occlusion"
	"github.com/tsawler/folio/style"
)

// clipEps is the tolerance for deciding whether a state restore
// changed the effective clip rectangle.
const clipEps = 1e-6

// pageConverter implements backend.Device for one page at a time. Each
// event is dispatched to the tracker, the occlusion detector, and the
// background strategy in that fixed order; the line builder consumes
// the tracker's run-break decisions. All per-page state is discarded
// on the next page; only the style registry is document-scoped.
type pageConverter struct {
	registry *style.Registry
	options  convertOptions
	fonts    backend.FontBackend

	tracker  *gstate.Tracker
	detector *occlusion.Detector
	strategy *background.Strategy
	builder  *assemble.Builder

	// Fonts referenced anywhere in the document, and the cached glyph
	// maps for resolving glyph-only characters.
	usedFonts map[string]backend.FontRef
	glyphMaps map[string]backend.GlyphMap

	// Expected position of the next character, for offset detection.
	expected    model.Point
	hasExpected bool

	width  float64
	height float64
	open   bool
}

func newPageConverter(registry *style.Registry, factory backend.SurfaceFactory, fonts backend.FontBackend, options convertOptions) *pageConverter {
	detConfig := occlusion.DefaultConfig()
	if options.opacityThreshold > 0 {
		detConfig.OpacityThreshold = options.opacityThreshold
	}
	detector := occlusion.NewDetectorWithConfig(detConfig)

	bgConfig := background.DefaultConfig()
	if options.primitiveLimit > 0 {
		bgConfig.PrimitiveLimit = options.primitiveLimit
	}
	if options.supersample > 0 {
		bgConfig.Supersample = options.supersample
	}
	bgConfig.EscalatePartialCoverage = !options.noEscalation

	return &pageConverter{
		registry:  registry,
		options:   options,
		fonts:     fonts,
		tracker:   gstate.NewTracker(registry),
		detector:  detector,
		strategy:  background.NewStrategyWithConfig(factory, detector, bgConfig),
		builder:   assemble.NewBuilder(registry, detector),
		usedFonts: make(map[string]backend.FontRef),
		glyphMaps: make(map[string]backend.GlyphMap),
	}
}

// convert replays one page and assembles the result. An error is fatal
// for this page only.
func (pc *pageConverter) convert(src Source, n int) (*model.Page, error) {
	if err := src.ReplayPage(n, pc); err != nil {
		pc.open = false
		return nil, err
	}
	if pc.open {
		return nil, fmt.Errorf("replay ended without page end")
	}

	decision, err := pc.strategy.Finish()
	if err != nil {
		return nil, err
	}

	var markup strings.Builder
	if err := pc.builder.Dump(&markup); err != nil {
		return nil, err
	}

	page := model.NewPage(pc.width, pc.height)
	page.Markup = markup.String()
	page.Background = decision
	for _, w := range pc.builder.Warnings() {
		page.Warn(w)
	}
	for _, w := range pc.strategy.Warnings() {
		page.Warn(w)
	}

	if pc.options.ocrEnabled && decision.Mode == model.BackgroundRaster {
		recoverText(pc.strategy, pc.options.ocrLanguage, page)
	}
	return page, nil
}

func (pc *pageConverter) PageBegin(width, height float64) error {
	pc.width = width
	pc.height = height
	pc.expected = model.Point{}
	pc.hasExpected = false
	pc.open = true

	if err := pc.tracker.PageBegin(width, height); err != nil {
		return err
	}
	pc.detector.Reset()
	if err := pc.strategy.Reset(width, height); err != nil {
		return err
	}
	pc.builder.Reset(width, height)
	return nil
}

func (pc *pageConverter) PageEnd() error {
	if err := pc.tracker.PageEnd(); err != nil {
		return err
	}
	pc.detector.Freeze()
	pc.builder.CloseLine()
	pc.open = false
	return nil
}

func (pc *pageConverter) SaveState() error {
	return pc.tracker.SaveState()
}

func (pc *pageConverter) RestoreState() error {
	clipBefore, hadClip := pc.tracker.CurrentClip()
	if err := pc.tracker.RestoreState(); err != nil {
		return err
	}
	clipAfter, hasClip := pc.tracker.CurrentClip()
	if hadClip == hasClip && (!hadClip || clipBefore.Equals(clipAfter, clipEps)) {
		return nil
	}
	// A restore reverted the clip. Re-register the restored region so
	// later lines leave the popped one; registering the page bounds
	// ends clipping entirely, as the serializer drops such regions.
	rect := clipAfter
	if !hasClip {
		rect = model.NewBBox(0, 0, pc.width, pc.height)
	}
	pc.builder.RegisterClip(rect, pc.builder.NextLineIndex())
	return nil
}

func (pc *pageConverter) UpdateTransform(m model.Matrix) error {
	return pc.tracker.UpdateTransform(m)
}

func (pc *pageConverter) UpdateFont(ref backend.FontRef, size float64) error {
	if !ref.IsZero() {
		pc.usedFonts[ref.Name] = ref
	}
	return pc.tracker.UpdateFont(ref, size)
}

func (pc *pageConverter) UpdateColor(fill, stroke model.Color) error {
	return pc.tracker.UpdateColor(fill, stroke)
}

func (pc *pageConverter) UpdateClip(rect model.BBox) error {
	if err := pc.tracker.UpdateClip(rect); err != nil {
		return err
	}
	pc.builder.RegisterClip(rect, pc.builder.NextLineIndex())
	return nil
}

func (pc *pageConverter) UpdateTextPosition(tx, ty float64) error {
	return pc.tracker.UpdateTextPosition(tx, ty)
}

func (pc *pageConverter) UpdateSpacing(letter, word float64) error {
	return pc.tracker.UpdateSpacing(letter, word)
}

func (pc *pageConverter) UpdateRenderMode(mode backend.RenderMode) error {
	return pc.tracker.UpdateRenderMode(mode)
}

func (pc *pageConverter) DrawChar(ch backend.Char, pos model.Point, advance float64) error {
	if !pc.open {
		return gstate.ErrPageNotBegun
	}
	if ch.Code == 0 {
		ch.Code = pc.resolveGlyph(ch.Glyph)
	}

	lineTransform, active := pc.builder.CurrentLine()
	br := pc.tracker.RunBreak(gstate.LineContext{Active: active, Transform: lineTransform})
	rs := pc.tracker.BeginRun()

	switch br {
	case gstate.BreakLine:
		pc.builder.OpenLine(rs.Transform, pos)
	default:
		if pc.hasExpected {
			if off, ok := baselineOffset(rs.Transform, pc.expected, pos); ok {
				pc.builder.AppendOffset(off)
			}
		}
	}

	rect := charBBox(rs.Transform, pos, advance, rs.FontSize)
	h := pc.detector.AddCharBBox(rect)

	suppress := background.ShouldRasterizeChar(rs.Mode, rs.Font, false)
	if suppress {
		if err := pc.strategy.RasterizeChar(ch, pos, rs.FontSize, rs.Fill); err != nil {
			return err
		}
	} else {
		// The character may still end the page covered; its
		// background fate is settled at page end.
		if err := pc.strategy.RasterizeCharIfCovered(ch, pos, rs.FontSize, rs.Fill, h); err != nil {
			return err
		}
	}

	pc.builder.AppendChar(ch, rs.Set, h, suppress)
	if err := pc.tracker.DrawChar(ch, pos, advance); err != nil {
		return err
	}

	pc.expected = model.Point{
		X: pos.X + rs.Transform[0]*advance,
		Y: pos.Y + rs.Transform[1]*advance,
	}
	pc.hasExpected = true
	return nil
}

func (pc *pageConverter) DrawPath(kind backend.PathKind, rect model.BBox, opacity float64) error {
	if err := pc.tracker.DrawPath(kind, rect, opacity); err != nil {
		return err
	}
	pc.detector.AddNonCharBBox(rect, opacity)

	state := pc.tracker.Current()
	color := state.FillColor
	if kind == backend.PathStroke {
		color = state.StrokeColor
	}
	return pc.strategy.DrawPath(kind, rect, color, opacity)
}

func (pc *pageConverter) DrawImage(rect model.BBox, ref backend.DataRef) error {
	if err := pc.tracker.DrawImage(rect, ref); err != nil {
		return err
	}
	pc.detector.AddNonCharBBox(rect, 1)
	return pc.strategy.DrawImage(rect, ref)
}

// resolveGlyph maps a glyph-only character to a code point through the
// font backend. Unmappable glyphs become the replacement character.
func (pc *pageConverter) resolveGlyph(g backend.GlyphRef) rune {
	if pc.fonts == nil {
		return '�'
	}
	ref := pc.tracker.Current().Font
	if ref.IsZero() {
		return '�'
	}
	gm, ok := pc.glyphMaps[ref.Name]
	if !ok {
		m, err := pc.fonts.GlyphMap(ref)
		if err != nil {
			m = nil
		}
		gm = m
		pc.glyphMaps[ref.Name] = gm
	}
	r, _ := gm.Lookup(g)
	return r
}

// charBBox bounds a character cell: the advance along the baseline and
// the font size above it, both mapped through the drawing matrix.
func charBBox(m model.Matrix, pos model.Point, advance, size float64) model.BBox {
	wx, wy := m[0]*advance, m[1]*advance
	hx, hy := m[2]*size, m[3]*size

	minX, maxX := pos.X, pos.X
	minY, maxY := pos.Y, pos.Y
	for _, p := range [3][2]float64{{wx, wy}, {hx, hy}, {wx + hx, wy + hy}} {
		minX = math.Min(minX, pos.X+p[0])
		maxX = math.Max(maxX, pos.X+p[0])
		minY = math.Min(minY, pos.Y+p[1])
		maxY = math.Max(maxY, pos.Y+p[1])
	}
	return model.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// baselineOffset projects the gap between the expected and actual
// character positions onto the baseline direction, in line-space
// units. Reports false for a degenerate baseline.
func baselineOffset(m model.Matrix, expected, actual model.Point) (float64, bool) {
	dx, dy := actual.X-expected.X, actual.Y-expected.Y
	bx, by := m[0], m[1]
	len2 := bx*bx + by*by
	if len2 == 0 || math.IsNaN(len2) {
		return 0, false
	}
	return (dx*bx + dy*by) / len2, true
}
