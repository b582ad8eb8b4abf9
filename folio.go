// Package folio converts parsed page descriptions into positioned,
// styled document markup with selectable text.
//
// The package is the rendering core of a document-to-markup
// transcoder: a page backend replays each page's drawing and state
// events, and folio turns them into a shared stylesheet, per-page text
// markup, and a background asset per page.
//
// Basic usage:
//
//	doc, warnings, err := folio.Convert(src).Document()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", folio.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := folio.Convert(src).
//	    Pages(1, 2, 3).
//	    PrimitiveLimit(2000).
//	    MaxOutputSize(32 << 20).
//	    Document()
//
// For advanced use cases the lower-level gstate, occlusion, assemble,
// and background packages are also available.
package folio

import (
	"github.com/tsawler/folio/backend"
)

// Source replays a parsed document's pages into a device. It is
// implemented by the host application's page backend.
type Source interface {
	// PageCount reports the number of pages in the document.
	PageCount() int
	// ReplayPage replays page n (1-indexed) into dev: a PageBegin,
	// the page's state and drawing events in paint order, then a
	// PageEnd. State updates precede the drawing events they affect.
	ReplayPage(n int, dev backend.Device) error
}

// Convert creates a Converter for fluent configuration.
//
// Example:
//
//	doc, warnings, err := folio.Convert(src).Document()
func Convert(src Source) *Converter {
	return &Converter{
		source:  src,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument wraps a call to Document() and panics if the error is
// non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	doc := folio.MustDocument(folio.Convert(src).Document())
func MustDocument[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
