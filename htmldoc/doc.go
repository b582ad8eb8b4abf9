// Package htmldoc assembles converted documents into standalone HTML
// files.
//
// A [model.Document] carries serialized page markup, a shared
// stylesheet, background assets, and extracted fonts as separate
// pieces. This package stitches them into a single HTML document: the
// stylesheet and @font-face rules go into the head, and each page's
// background is layered beneath its text markup.
//
// # Usage
//
//	var buf bytes.Buffer
//	if err := htmldoc.Write(&buf, doc); err != nil {
//		log.Fatal(err)
//	}
//
// Assets the conversion split out as standalone files (extracted
// JPEGs, font binaries when not embedded) are listed by
// [ExternalAssets]; the caller writes them next to the HTML file or
// into [Options.AssetDir].
package htmldoc
