// Package background renders a page's non-text content.
//
// # Vector First, Raster Fallback
//
// The [Strategy] attempts vector output first. Every drawing event is
// recorded as well as drawn; when the vector surface's primitive count
// exceeds the configured limit, the partial vector output is discarded
// and the recorded page is replayed into a raster surface at Finish.
// Pages that end with partially covered characters can optionally be
// escalated to a higher-resolution raster render.
//
// # Rasterized Characters
//
// Characters that cannot live in the text layer, because they are
// drawn as paths, belong to a glyph program the font backend cannot
// transcode, or end the page fully covered, are painted into the
// background instead. The assembler keeps the matching text-layer
// characters selectable but invisible.
//
// # Image Extraction
//
// Embedded JPEG streams in a gray or RGB color space with no remapping
// table are byte-for-byte valid image files. [Extractable] identifies
// them and [Extract] splits them out as standalone assets instead of
// painting them, keeping large photos out of the vector output. All
// other images are decoded and painted.
package background
