package folio

// convertOptions holds configuration for document conversion.
type convertOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	// Style interning tolerance
	styleEps float64

	// Background rendering
	primitiveLimit   int
	supersample      float64
	noEscalation     bool
	opacityThreshold float64

	// Output budget in bytes; 0 means unlimited
	maxOutputSize int

	// OCR of raster backgrounds
	ocrEnabled  bool
	ocrLanguage string
}

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	return convertOptions{
		pages:            nil, // nil means all pages
		styleEps:         0,   // 0 means the registry default
		primitiveLimit:   0,   // 0 means the strategy default
		supersample:      0,
		noEscalation:     false,
		opacityThreshold: 0, // 0 means the detector default
		maxOutputSize:    0,
		ocrEnabled:       false,
		ocrLanguage:      "eng",
	}
}

// clone creates a deep copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
