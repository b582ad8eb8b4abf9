package render

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

var _ backend.VectorSurface = (*SVG)(nil)
var _ backend.SurfaceFactory = Factory{}

func svgOutput(t *testing.T, s *SVG) string {
	t.Helper()
	asset, err := s.Finish()
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if asset.Kind != model.AssetInline || asset.MediaType != "image/svg+xml" {
		t.Fatalf("unexpected asset %+v", asset)
	}
	return string(asset.Data)
}

func TestSVGPrimitiveCount(t *testing.T) {
	s := NewSVG(612, 792)
	if s.PrimitiveCount() != 0 {
		t.Fatalf("fresh surface should count 0, got %d", s.PrimitiveCount())
	}
	s.DrawPath(backend.PathFill, model.NewBBox(0, 0, 10, 10), model.Black(), 1)
	s.DrawPath(backend.PathStroke, model.NewBBox(20, 0, 10, 10), model.Black(), 1)
	s.DrawGlyph(backend.Char{Code: 'A'}, model.Point{X: 5, Y: 5}, 12, model.Black())
	if s.PrimitiveCount() != 3 {
		t.Errorf("expected 3 primitives, got %d", s.PrimitiveCount())
	}
}

func TestSVGDeterministicOutput(t *testing.T) {
	draw := func() *SVG {
		s := NewSVG(612, 792)
		s.DrawPath(backend.PathFill, model.NewBBox(0, 0, 10, 10), model.Black(), 0.5)
		s.DrawGlyph(backend.Char{Code: 'x'}, model.Point{X: 1, Y: 2}, 9, model.NewColor(1, 0, 0))
		return s
	}
	a := svgOutput(t, draw())
	b := svgOutput(t, draw())
	if a != b {
		t.Error("identical draw sequences should serialize identically")
	}
}

func TestSVGCoordinateFlip(t *testing.T) {
	s := NewSVG(200, 100)
	s.DrawPath(backend.PathFill, model.NewBBox(10, 20, 30, 40), model.Black(), 1)

	out := svgOutput(t, s)
	if !strings.Contains(out, `y="40"`) {
		t.Errorf("expected flipped y=40 in output: %s", out)
	}
	if !strings.Contains(out, `x="10"`) {
		t.Errorf("expected x=10 in output: %s", out)
	}
}

func TestSVGStrokeAttributes(t *testing.T) {
	s := NewSVG(100, 100)
	s.DrawPath(backend.PathStroke, model.NewBBox(0, 0, 50, 50), model.NewColor(1, 0, 0), 1)

	out := svgOutput(t, s)
	if !strings.Contains(out, `fill="none"`) || !strings.Contains(out, `stroke="#ff0000"`) {
		t.Errorf("expected stroke attributes in output: %s", out)
	}
}

func TestSVGOpacity(t *testing.T) {
	s := NewSVG(100, 100)
	s.DrawPath(backend.PathFill, model.NewBBox(0, 0, 50, 50), model.Black(), 0.25)

	out := svgOutput(t, s)
	if !strings.Contains(out, `opacity="0.25"`) {
		t.Errorf("expected opacity attribute in output: %s", out)
	}
}

func TestSVGGlyphText(t *testing.T) {
	s := NewSVG(100, 100)
	s.DrawGlyph(backend.Char{Code: 'A'}, model.Point{X: 10, Y: 30}, 12, model.Black())

	out := svgOutput(t, s)
	if !strings.Contains(out, ">A</text>") {
		t.Errorf("expected glyph text in output: %s", out)
	}
	if !strings.Contains(out, `y="70"`) {
		t.Errorf("expected flipped baseline y=70 in output: %s", out)
	}
}

func TestSVGImageDataURI(t *testing.T) {
	s := NewSVG(100, 100)
	if err := s.DrawImage(model.NewBBox(0, 0, 50, 50), image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("draw image failed: %v", err)
	}

	out := svgOutput(t, s)
	if !strings.Contains(out, "data:image/png;base64,") {
		t.Errorf("expected inlined image data in output: %s", out)
	}
}

func TestSVGReset(t *testing.T) {
	s := NewSVG(100, 100)
	s.DrawPath(backend.PathFill, model.NewBBox(0, 0, 10, 10), model.Black(), 1)
	s.Reset()

	if s.PrimitiveCount() != 0 {
		t.Errorf("reset should zero the primitive count, got %d", s.PrimitiveCount())
	}
	out := svgOutput(t, s)
	if strings.Contains(out, "<rect") {
		t.Errorf("reset output should hold no primitives: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("<svg")) {
		t.Errorf("reset output should still be a valid document: %s", out)
	}
}
