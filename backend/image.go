package backend

// ImageEncoding identifies the compression of an embedded image stream.
type ImageEncoding int

const (
	// EncodingRaw is uncompressed or flate-compressed sample data.
	EncodingRaw ImageEncoding = iota
	// EncodingJPEG is DCT-compressed data that can be copied into a
	// standalone .jpg file without re-encoding.
	EncodingJPEG
	// EncodingOther is any other compression (JBIG2, JPX, CCITT).
	EncodingOther
)

// String returns a string representation of the encoding.
func (e ImageEncoding) String() string {
	switch e {
	case EncodingRaw:
		return "Raw"
	case EncodingJPEG:
		return "JPEG"
	case EncodingOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// DataRef is a handle to an embedded image stream owned by the page
// backend, with the metadata the background strategy needs to decide
// between extracting the stream as a standalone file and inlining it.
type DataRef interface {
	// Bytes returns the image data. For EncodingJPEG this is the
	// ready-to-use JPEG stream; otherwise decoded sample data.
	Bytes() ([]byte, error)
	// Encoding reports the stream compression.
	Encoding() ImageEncoding
	// Channels reports the color component count (1 for gray, 3 for
	// RGB, 4 for CMYK).
	Channels() int
	// HasRemap reports whether samples pass through a remapping table
	// (an indexed palette or decode array) before display.
	HasRemap() bool
}
