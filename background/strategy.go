package background

import (
	"fmt"
	"image"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/occlusion"
)

// Config holds configuration for a Strategy.
type Config struct {
	// PrimitiveLimit is the vector primitive count above which a page
	// falls back to a raster background (default 5000).
	PrimitiveLimit int
	// Supersample is the raster oversampling factor: the raster
	// surface renders at this multiple of page resolution
	// (default 2).
	Supersample float64
	// EscalatePartialCoverage re-renders the background at double the
	// supersample factor when any character ends the page with 1-3
	// obstructed corners, where antialiasing seams are most visible.
	EscalatePartialCoverage bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		PrimitiveLimit:          5000,
		Supersample:             2,
		EscalatePartialCoverage: true,
	}
}

type opKind int

const (
	opPath opKind = iota
	opImage
	opGlyph
)

// drawOp is one recorded background drawing event. The full page is
// recorded so the final surface can be replayed in paint order after
// all occlusion verdicts are in. Conditional glyph ops are included
// only when their character ends the page covered.
type drawOp struct {
	kind    opKind
	path    backend.PathKind
	rect    model.BBox
	color   model.Color
	opacity float64
	img     image.Image
	ch      backend.Char
	pos     model.Point
	size    float64
	cond    bool
	handle  occlusion.Handle
}

// Strategy renders a page's non-text content, attempting vector output
// first and falling back to a raster image when the vector primitive
// count exceeds the configured limit. Every drawing event is recorded
// as well as drawn, so the fallback replays the whole page into a
// fresh raster surface.
//
// Finish must not be called before the page's occlusion tracing is
// complete: both the covered-character rasterization decisions and the
// partial-coverage escalation depend on verdicts that later drawing
// events can still change.
type Strategy struct {
	config   Config
	factory  backend.SurfaceFactory
	detector *occlusion.Detector

	width  float64
	height float64

	mode        model.BackgroundMode
	vec         backend.VectorSurface
	ops         []drawOp
	extracted   []model.ExtractedImage
	rasterChars int
	imageSeq    int
	finalScale  float64
	warnings    []string
}

// NewStrategy creates a strategy with default configuration.
func NewStrategy(factory backend.SurfaceFactory, det *occlusion.Detector) *Strategy {
	return NewStrategyWithConfig(factory, det, DefaultConfig())
}

// NewStrategyWithConfig creates a strategy with custom configuration.
func NewStrategyWithConfig(factory backend.SurfaceFactory, det *occlusion.Detector, config Config) *Strategy {
	if config.PrimitiveLimit <= 0 {
		config.PrimitiveLimit = DefaultConfig().PrimitiveLimit
	}
	if config.Supersample <= 0 {
		config.Supersample = DefaultConfig().Supersample
	}
	return &Strategy{
		config:   config,
		factory:  factory,
		detector: det,
	}
}

// Reset discards all per-page state and opens a fresh vector surface
// for the given page bounds.
func (s *Strategy) Reset(width, height float64) error {
	s.width = width
	s.height = height
	s.mode = model.BackgroundVector
	s.ops = s.ops[:0]
	s.extracted = s.extracted[:0]
	s.rasterChars = 0
	s.imageSeq = 0
	s.finalScale = s.config.Supersample
	s.warnings = s.warnings[:0]

	vec, err := s.factory.NewVectorSurface(width, height)
	if err != nil {
		return fmt.Errorf("failed to create vector surface: %w", err)
	}
	s.vec = vec
	return nil
}

// Mode returns the current rendering mode for the page.
func (s *Strategy) Mode() model.BackgroundMode {
	return s.mode
}

// RasterizedChars returns how many characters were painted into the
// background instead of being emitted as live text.
func (s *Strategy) RasterizedChars() int {
	return s.rasterChars
}

// Warnings returns the non-fatal issues recorded for this page.
func (s *Strategy) Warnings() []string {
	return s.warnings
}

// ShouldRasterizeChar reports whether a character must be painted into
// the background instead of emitted as live text: it is drawn as a
// path (clip or stroke-only render modes), its font's glyph program
// cannot be transcoded, or it ends the page fully covered.
func ShouldRasterizeChar(mode backend.RenderMode, font backend.FontRef, covered bool) bool {
	if mode.IsPathOnly() {
		return true
	}
	if font.Program != backend.ProgramStandard {
		return true
	}
	return covered
}

// DrawPath records and paints a rectangular path primitive.
func (s *Strategy) DrawPath(kind backend.PathKind, rect model.BBox, color model.Color, opacity float64) error {
	s.ops = append(s.ops, drawOp{
		kind:    opPath,
		path:    kind,
		rect:    rect,
		color:   color,
		opacity: opacity,
	})
	if s.mode != model.BackgroundVector {
		return nil
	}
	if err := s.vec.DrawPath(kind, rect, color, opacity); err != nil {
		return err
	}
	s.checkLimit()
	return nil
}

// DrawImage records and paints an embedded image. Extractable streams
// are split out as standalone files and not painted.
func (s *Strategy) DrawImage(rect model.BBox, ref backend.DataRef) error {
	if Extractable(ref) {
		asset, err := Extract(ref, fmt.Sprintf("img%d", s.imageSeq))
		if err != nil {
			s.warn(fmt.Sprintf("dropped embedded image: %v", err))
			return nil
		}
		s.imageSeq++
		s.extracted = append(s.extracted, model.ExtractedImage{Asset: asset, Rect: rect})
		return nil
	}

	img, err := decodeImage(ref)
	if err != nil {
		s.warn(fmt.Sprintf("dropped embedded image: %v", err))
		return nil
	}
	s.ops = append(s.ops, drawOp{kind: opImage, rect: rect, img: img})
	if s.mode != model.BackgroundVector {
		return nil
	}
	if err := s.vec.DrawImage(rect, img); err != nil {
		return err
	}
	s.checkLimit()
	return nil
}

// RasterizeChar records and paints a character into the background.
// The caller suppresses the matching text-layer character.
func (s *Strategy) RasterizeChar(ch backend.Char, pos model.Point, size float64, color model.Color) error {
	s.rasterChars++
	s.ops = append(s.ops, drawOp{kind: opGlyph, ch: ch, pos: pos, size: size, color: color})
	if s.mode != model.BackgroundVector {
		return nil
	}
	if err := s.vec.DrawGlyph(ch, pos, size, color); err != nil {
		return err
	}
	s.checkLimit()
	return nil
}

// RasterizeCharIfCovered records a character whose background fate
// depends on its final occlusion verdict: it is painted, in paint
// order, only if the character ends the page covered. The glyph still
// counts toward vector complexity so the fallback decision does not
// depend on verdicts that are not final yet.
func (s *Strategy) RasterizeCharIfCovered(ch backend.Char, pos model.Point, size float64, color model.Color, h occlusion.Handle) error {
	s.ops = append(s.ops, drawOp{kind: opGlyph, ch: ch, pos: pos, size: size, color: color, cond: true, handle: h})
	if s.mode != model.BackgroundVector {
		return nil
	}
	if err := s.vec.DrawGlyph(ch, pos, size, color); err != nil {
		return err
	}
	s.checkLimit()
	return nil
}

func (s *Strategy) checkLimit() {
	if s.vec.PrimitiveCount() > s.config.PrimitiveLimit {
		s.fallToRaster()
	}
}

func (s *Strategy) fallToRaster() {
	if s.mode == model.BackgroundRaster {
		return
	}
	s.mode = model.BackgroundRaster
	s.vec.Reset()
	s.warn(fmt.Sprintf("vector output exceeded %d primitives, falling back to raster", s.config.PrimitiveLimit))
}

// Finish completes the page and returns the background decision. For
// vector pages the open surface is finalized directly; raster pages
// replay the recorded drawing events into a fresh raster surface.
func (s *Strategy) Finish() (model.BackgroundDecision, error) {
	scale := s.config.Supersample
	if s.config.EscalatePartialCoverage && s.detector.HasPartialCoverage() {
		if s.mode == model.BackgroundVector {
			s.mode = model.BackgroundRaster
			s.vec.Reset()
			s.warn("partially covered characters, re-rendering background as raster")
		}
		scale *= 2
	}
	s.finalScale = scale

	rasterized := s.rasterChars
	for i := range s.ops {
		if s.ops[i].cond && s.detector.Covered(s.ops[i].handle) {
			rasterized++
		}
	}

	decision := model.BackgroundDecision{
		Mode:            s.mode,
		Extracted:       s.extracted,
		RasterizedChars: rasterized,
	}

	if s.mode == model.BackgroundVector {
		// Re-render from the recorded events: the incremental output
		// includes conditional glyphs whose verdicts were still open.
		s.vec.Reset()
		if err := s.replay(s.vec); err != nil {
			return model.BackgroundDecision{}, err
		}
		asset, err := s.vec.Finish()
		if err != nil {
			return model.BackgroundDecision{}, fmt.Errorf("failed to finish vector background: %w", err)
		}
		decision.Asset = asset
		return decision, nil
	}

	ras, err := s.factory.NewRasterSurface(s.width, s.height, scale)
	if err != nil {
		return model.BackgroundDecision{}, fmt.Errorf("failed to create raster surface: %w", err)
	}
	if err := s.replay(ras); err != nil {
		return model.BackgroundDecision{}, err
	}
	asset, err := ras.Finish()
	if err != nil {
		return model.BackgroundDecision{}, fmt.Errorf("failed to finish raster background: %w", err)
	}
	decision.Asset = asset
	return decision, nil
}

// Image returns the replayed raster image for OCR after a raster
// Finish. It re-renders from the recorded events at the same scale
// Finish emitted; vector pages return nil.
func (s *Strategy) Image() (image.Image, error) {
	if s.mode != model.BackgroundRaster {
		return nil, nil
	}
	ras, err := s.factory.NewRasterSurface(s.width, s.height, s.finalScale)
	if err != nil {
		return nil, fmt.Errorf("failed to create raster surface: %w", err)
	}
	if err := s.replay(ras); err != nil {
		return nil, err
	}
	return ras.Image(), nil
}

// replay re-draws the recorded page into a surface in paint order,
// dropping conditional glyphs whose characters stayed visible.
func (s *Strategy) replay(dst backend.Surface) error {
	for i := range s.ops {
		op := &s.ops[i]
		if op.cond && !s.detector.Covered(op.handle) {
			continue
		}
		var err error
		switch op.kind {
		case opPath:
			err = dst.DrawPath(op.path, op.rect, op.color, op.opacity)
		case opImage:
			err = dst.DrawImage(op.rect, op.img)
		case opGlyph:
			err = dst.DrawGlyph(op.ch, op.pos, op.size, op.color)
		}
		if err != nil {
			return fmt.Errorf("failed to replay page background: %w", err)
		}
	}
	return nil
}

func (s *Strategy) warn(msg string) {
	s.warnings = append(s.warnings, msg)
}
