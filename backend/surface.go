package backend

import (
	"image"

	"github.com/tsawler/folio/model"
)

// Surface is the drawing contract shared by vector and raster
// backends. All coordinates are page coordinates; the surface applies
// its own device transform.
type Surface interface {
	// DrawPath paints a rectangular path primitive.
	DrawPath(kind PathKind, rect model.BBox, color model.Color, opacity float64) error
	// DrawImage paints a decoded image into the given rectangle.
	DrawImage(rect model.BBox, img image.Image) error
	// DrawGlyph paints a single glyph. Used for characters that cannot
	// be emitted as live text and must become part of the background.
	DrawGlyph(ch Char, pos model.Point, size float64, color model.Color) error
}

// VectorSurface is a 2D backend producing vector output. The strategy
// queries PrimitiveCount after each draw to monitor output complexity.
type VectorSurface interface {
	Surface
	// PrimitiveCount returns the number of primitives (nodes) emitted
	// so far. Counting must be deterministic for identical draw
	// sequences.
	PrimitiveCount() int
	// Reset discards all output, returning the surface to its
	// post-creation state. Called when the page falls back to raster.
	Reset()
	// Finish returns the completed vector asset.
	Finish() (model.AssetRef, error)
}

// RasterSurface is a 2D backend producing a raster image.
type RasterSurface interface {
	Surface
	// Image exposes the backing image for OCR or inspection.
	Image() image.Image
	// Finish returns the completed raster asset.
	Finish() (model.AssetRef, error)
}

// SurfaceFactory creates surfaces for one page. The raster factory
// takes a supersample scale factor: 1 renders at page resolution,
// higher values render at a multiple and downscale for display.
type SurfaceFactory interface {
	NewVectorSurface(width, height float64) (VectorSurface, error)
	NewRasterSurface(width, height float64, scale float64) (RasterSurface, error)
}
