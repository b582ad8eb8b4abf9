// Package render provides the default 2D surfaces for background
// rendering: an SVG vector surface and an RGBA raster surface.
//
// Both implement the surface contracts from the backend package and
// are created per page through [Factory]. The SVG surface counts one
// primitive per emitted element, so complexity-limit decisions are
// deterministic for identical draw sequences. The raster surface
// renders at a configurable multiple of page resolution and encodes
// to PNG on Finish.
//
// Host applications with their own rendering stack (such as a Cairo
// binding) can substitute any backend.SurfaceFactory implementation.
package render
