package model

// BackgroundMode identifies how a page's non-text content was rendered.
type BackgroundMode int

const (
	// BackgroundVector means the page background was kept as vector markup.
	BackgroundVector BackgroundMode = iota
	// BackgroundRaster means vector output exceeded the complexity limit
	// and the page fell back to a rasterized background image.
	BackgroundRaster
)

// String returns a string representation of the mode.
func (m BackgroundMode) String() string {
	switch m {
	case BackgroundVector:
		return "Vector"
	case BackgroundRaster:
		return "Raster"
	default:
		return "Unknown"
	}
}

// AssetKind identifies how a background asset is referenced.
type AssetKind int

const (
	// AssetInline means the asset data is embedded in the markup
	// (base64-encoded data URI or inline vector nodes).
	AssetInline AssetKind = iota
	// AssetExternal means the asset lives in a standalone file and the
	// markup references it by name.
	AssetExternal
)

// AssetRef references a finished background asset or an extracted
// embedded image.
type AssetRef struct {
	Kind AssetKind
	// Name is the suggested file name for external assets.
	Name string
	// Data holds the encoded asset bytes. For external assets this is
	// the file content; for inline assets the already-encoded payload.
	Data []byte
	// MediaType is the MIME type of the data (image/jpeg, image/png,
	// image/svg+xml).
	MediaType string
}

// ExtractedImage is an embedded image split out as a standalone file,
// together with its placement on the page.
type ExtractedImage struct {
	Asset AssetRef
	Rect  BBox
}

// BackgroundDecision records how a page's background was rendered.
type BackgroundDecision struct {
	Mode BackgroundMode
	// Asset references the finished background (inline or external).
	Asset AssetRef
	// Extracted lists embedded images that were split out as
	// standalone files, in drawing order.
	Extracted []ExtractedImage
	// RasterizedChars counts characters that were painted into the
	// background instead of being emitted as live text.
	RasterizedChars int
	// OCRText holds text recovered from a raster background when OCR
	// was enabled, empty otherwise.
	OCRText string
}

// Page represents a single converted page: its serialized text markup
// plus the background decision.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in points
	Height float64 // Page height in points

	// Markup is the serialized text layer: lines, runs, and clip
	// regions referencing stylesheet classes by id.
	Markup string

	// Background records how non-text content was rendered.
	Background BackgroundDecision

	// Warnings collects non-fatal issues found while converting this
	// page (suppressed runs, defective styles, budget truncation).
	Warnings []string
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
	}
}

// Warn records a page-level warning.
func (p *Page) Warn(msg string) {
	p.Warnings = append(p.Warnings, msg)
}
