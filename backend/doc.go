// Package backend defines the contracts between the folio rendering
// core and its external collaborators.
//
// Three collaborators drive or serve the core:
//
//   - The page backend replays a parsed page description as a stream of
//     synchronous events. [Device] has one method per event kind; the
//     host loop dispatches each event to a Device. [Broadcast] fans one
//     stream out to several devices in a fixed order, which is how the
//     converter feeds the state tracker, the occlusion detector, and
//     the background strategy from a single replay.
//   - The font transcoding backend ([FontBackend]) extracts font assets
//     and glyph-to-codepoint mappings; the core never parses font
//     binaries.
//   - The 2D rendering backends ([VectorSurface], [RasterSurface])
//     execute draw calls for the page background. The core only issues
//     calls and queries the vector surface's primitive count.
//
// State updates always precede the drawing event they affect, and all
// events for a page arrive between PageBegin and PageEnd.
package backend
