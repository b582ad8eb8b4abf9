// Package model provides the shared data types for the folio rendering
// core.
//
// This package defines the geometric primitives used throughout the
// pipeline and the output representation produced by a conversion. All
// rendering components ultimately produce these types, making them the
// primary API for consuming converted content.
//
// # Output Structure
//
// The [Document] type represents a complete conversion: a shared
// stylesheet plus one [Page] per source page. Each page carries its
// serialized text-layer markup and a [BackgroundDecision] describing
// how non-text content was rendered (vector markup or a raster
// fallback image, referenced through an [AssetRef]).
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and corner access
//   - [Point] - 2D point with distance calculation
//   - [Matrix] - 2D affine transformation matrix with linear-part
//     comparison and proportionality tests
//   - [Color] - RGB color with a transparency flag
//
// Matrix proportionality ([Matrix.IsProportionalTo]) is the geometric
// test for whether two pieces of text lie on parallel baselines and may
// share an output line.
package model
