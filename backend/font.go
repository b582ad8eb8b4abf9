package backend

// FontProgram classifies a font's glyph program. Non-standard programs
// (Type 3 procedures, damaged or unembeddable outlines) cannot be
// transcoded to a web font, so their glyphs are rasterized into the
// page background instead of emitted as live text.
type FontProgram int

const (
	// ProgramStandard is a transcodable outline font (TrueType, CFF, Type 1).
	ProgramStandard FontProgram = iota
	// ProgramType3 is a Type 3 font whose glyphs are drawing procedures.
	ProgramType3
	// ProgramUnknown is a font the transcoding backend cannot handle.
	ProgramUnknown
)

// String returns a string representation of the program class.
func (p FontProgram) String() string {
	switch p {
	case ProgramStandard:
		return "Standard"
	case ProgramType3:
		return "Type3"
	case ProgramUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// FontRef identifies a font resource used on a page. It is opaque to
// the core except for the program classification.
type FontRef struct {
	// Name is the backend's resource name for the font.
	Name string
	// Program classifies the glyph program.
	Program FontProgram
}

// IsZero reports whether the ref is the zero value (no font set yet).
func (r FontRef) IsZero() bool {
	return r.Name == "" && r.Program == ProgramStandard
}

// GlyphRef is a glyph index inside a font program.
type GlyphRef uint32

// FontFormat tags the binary format of an extracted font asset.
type FontFormat int

const (
	FormatTrueType FontFormat = iota
	FormatCFF
	FormatType1
	FormatWOFF
)

// String returns a string representation of the format.
func (f FontFormat) String() string {
	switch f {
	case FormatTrueType:
		return "TrueType"
	case FormatCFF:
		return "CFF"
	case FormatType1:
		return "Type1"
	case FormatWOFF:
		return "WOFF"
	default:
		return "Unknown"
	}
}

// FontAsset is a font extracted by the font transcoding backend.
type FontAsset struct {
	Data   []byte
	Format FontFormat
}

// GlyphMap maps a font's internal glyph IDs to usable code points.
type GlyphMap map[GlyphRef]rune

// Lookup returns the code point for a glyph, or the Unicode
// replacement character when the glyph has no usable mapping.
func (m GlyphMap) Lookup(g GlyphRef) (rune, bool) {
	if r, ok := m[g]; ok {
		return r, true
	}
	return '�', false
}

// FontBackend is the font transcoding collaborator. The core requests,
// per distinct font referenced, an extracted font asset and a mapping
// from internal glyph IDs to code points; it never parses font
// binaries itself.
type FontBackend interface {
	ExtractFont(ref FontRef) (FontAsset, error)
	GlyphMap(ref FontRef) (GlyphMap, error)
}
