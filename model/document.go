package model

import "time"

// Document represents a fully converted document: one shared stylesheet
// plus the rendered pages. The stylesheet is document-scoped because
// style classes are deduplicated across all pages.
type Document struct {
	Metadata   Metadata
	Stylesheet string
	Fonts      []FontResource
	Pages      []*Page
}

// FontResource is a font asset extracted for the output document.
type FontResource struct {
	// Name matches the font references used in page markup.
	Name string
	// Format is the binary format tag (TrueType, OpenType, WOFF).
	Format string
	// Data is the font binary.
	Data []byte
}

// Metadata contains document-level information carried through from the
// source document.
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
	// Custom metadata
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		Pages: make([]*Page, 0),
	}
}

// AddPage adds a page to the document
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages) + 1
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// MarkupSize returns the cumulative size in bytes of all page markup.
// The converter uses this against its output budget.
func (d *Document) MarkupSize() int {
	total := len(d.Stylesheet)
	for _, page := range d.Pages {
		total += len(page.Markup)
	}
	return total
}
