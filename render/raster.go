package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

// Raster is a raster surface backed by an RGBA image rendered at scale
// times page resolution. Page coordinates have the origin at the
// bottom-left; the image's is top-left, so y coordinates are flipped.
type Raster struct {
	width  float64
	height float64
	scale  float64
	img    *image.RGBA
}

// NewRaster creates a white raster surface for the given page bounds.
func NewRaster(width, height, scale float64) *Raster {
	pw := int(math.Ceil(width * scale))
	ph := int(math.Ceil(height * scale))
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	xdraw.Draw(img, img.Bounds(), image.White, image.Point{}, xdraw.Src)
	return &Raster{width: width, height: height, scale: scale, img: img}
}

func (r *Raster) deviceX(x float64) float32 {
	return float32(x * r.scale)
}

func (r *Raster) deviceY(y float64) float32 {
	return float32((r.height - y) * r.scale)
}

// DrawPath paints a rectangular path primitive. Strokes are drawn as
// four one-point edges.
func (r *Raster) DrawPath(kind backend.PathKind, rect model.BBox, col model.Color, opacity float64) error {
	if col.Transparent || opacity <= 0 {
		return nil
	}
	if kind == backend.PathStroke {
		w := 1.0
		r.fillRect(model.NewBBox(rect.X, rect.Y, rect.Width, w), col, opacity)
		r.fillRect(model.NewBBox(rect.X, rect.Y+rect.Height-w, rect.Width, w), col, opacity)
		r.fillRect(model.NewBBox(rect.X, rect.Y, w, rect.Height), col, opacity)
		r.fillRect(model.NewBBox(rect.X+rect.Width-w, rect.Y, w, rect.Height), col, opacity)
		return nil
	}
	r.fillRect(rect, col, opacity)
	return nil
}

func (r *Raster) fillRect(rect model.BBox, col model.Color, opacity float64) {
	ras := vector.NewRasterizer(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	ras.MoveTo(r.deviceX(rect.X), r.deviceY(rect.Y))
	ras.LineTo(r.deviceX(rect.X+rect.Width), r.deviceY(rect.Y))
	ras.LineTo(r.deviceX(rect.X+rect.Width), r.deviceY(rect.Y+rect.Height))
	ras.LineTo(r.deviceX(rect.X), r.deviceY(rect.Y+rect.Height))
	ras.ClosePath()

	src := image.NewUniform(color.NRGBA{
		R: col.R,
		G: col.G,
		B: col.B,
		A: uint8(opacity*255 + 0.5),
	})
	ras.Draw(r.img, r.img.Bounds(), src, image.Point{})
}

// DrawImage paints a decoded image scaled into the given rectangle.
func (r *Raster) DrawImage(rect model.BBox, img image.Image) error {
	x0 := int(math.Floor(float64(r.deviceX(rect.X))))
	y0 := int(math.Floor(float64(r.deviceY(rect.Y + rect.Height))))
	x1 := int(math.Ceil(float64(r.deviceX(rect.X + rect.Width))))
	y1 := int(math.Ceil(float64(r.deviceY(rect.Y))))
	dst := image.Rect(x0, y0, x1, y1)
	xdraw.ApproxBiLinear.Scale(r.img, dst, img, img.Bounds(), xdraw.Over, nil)
	return nil
}

// DrawGlyph paints a character at its baseline position. Glyph
// outlines are not available here, so a fixed bitmap face stands in
// for the original shape.
func (r *Raster) DrawGlyph(ch backend.Char, pos model.Point, size float64, col model.Color) error {
	if col.Transparent {
		return nil
	}
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255}),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(float64(r.deviceX(pos.X)) * 64),
			Y: fixed.Int26_6(float64(r.deviceY(pos.Y)) * 64),
		},
	}
	d.DrawString(ch.Text())
	return nil
}

// Image exposes the backing image.
func (r *Raster) Image() image.Image {
	return r.img
}

// Finish serializes the surface as an inline PNG asset.
func (r *Raster) Finish() (model.AssetRef, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.img); err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to encode background: %w", err)
	}
	return model.AssetRef{
		Kind:      model.AssetInline,
		Data:      buf.Bytes(),
		MediaType: "image/png",
	}, nil
}

// Factory creates the default surfaces.
type Factory struct{}

// NewFactory creates a surface factory producing SVG vector surfaces
// and RGBA raster surfaces.
func NewFactory() Factory {
	return Factory{}
}

// NewVectorSurface creates an SVG surface for one page.
func (Factory) NewVectorSurface(width, height float64) (backend.VectorSurface, error) {
	return NewSVG(width, height), nil
}

// NewRasterSurface creates an RGBA surface for one page.
func (Factory) NewRasterSurface(width, height, scale float64) (backend.RasterSurface, error) {
	return NewRaster(width, height, scale), nil
}
