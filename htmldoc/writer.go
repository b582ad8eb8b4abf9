package htmldoc

import (
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/folio/model"
)

// Options controls how a document is assembled into HTML.
type Options struct {
	// Title overrides the document metadata title.
	Title string

	// AssetDir is prefixed to references to external assets (extracted
	// images, external backgrounds, font files). Empty means assets sit
	// next to the HTML file.
	AssetDir string

	// EmbedFonts inlines extracted font binaries as data URIs instead
	// of referencing external font files.
	EmbedFonts bool
}

// Write assembles doc into a standalone HTML file with fonts embedded
// inline.
func Write(w io.Writer, doc *model.Document) error {
	return WriteWithOptions(w, doc, Options{EmbedFonts: true})
}

// WriteWithOptions assembles doc into a standalone HTML file. The
// document stylesheet goes into a head style element together with
// @font-face rules for extracted fonts. Each page's background is
// inserted beneath its text markup. External assets are referenced by
// name; use [ExternalAssets] to obtain their contents.
func WriteWithOptions(w io.Writer, doc *model.Document, opts Options) error {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlNode := element(atom.Html)
	root.AppendChild(htmlNode)

	head := element(atom.Head)
	htmlNode.AppendChild(head)

	meta := element(atom.Meta)
	meta.Attr = append(meta.Attr, html.Attribute{Key: "charset", Val: "utf-8"})
	head.AppendChild(meta)

	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: documentTitle(doc, opts)})
	head.AppendChild(title)

	styleNode := element(atom.Style)
	styleNode.AppendChild(&html.Node{Type: html.TextNode, Data: stylesheet(doc, opts)})
	head.AppendChild(styleNode)

	body := element(atom.Body)
	htmlNode.AppendChild(body)

	for _, page := range doc.Pages {
		pageNode, err := buildPage(page, opts)
		if err != nil {
			return fmt.Errorf("page %d: %w", page.Number, err)
		}
		body.AppendChild(pageNode)
	}

	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("failed to render document: %w", err)
	}
	return nil
}

// ExternalAssets collects the external files the assembled HTML refers
// to, keyed by file name: external page backgrounds, extracted images,
// and font files when fonts are not embedded.
func ExternalAssets(doc *model.Document, opts Options) map[string][]byte {
	assets := make(map[string][]byte)
	for _, page := range doc.Pages {
		if page.Background.Asset.Kind == model.AssetExternal {
			assets[page.Background.Asset.Name] = page.Background.Asset.Data
		}
		for _, img := range page.Background.Extracted {
			if img.Asset.Kind == model.AssetExternal {
				assets[img.Asset.Name] = img.Asset.Data
			}
		}
	}
	if !opts.EmbedFonts {
		for _, f := range doc.Fonts {
			assets[fontFileName(f)] = f.Data
		}
	}
	return assets
}

// buildPage parses the page markup back into a node tree and inserts
// the background layers as the first children of the page frame, so
// they paint beneath every text line.
func buildPage(page *model.Page, opts Options) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(page.Markup), bodyContext())
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}
	frame := firstElement(nodes)
	if frame == nil {
		return nil, fmt.Errorf("page markup has no frame element")
	}

	// Extracted images sit above the background asset: a raster
	// background is opaque and would hide them otherwise.
	for i := len(page.Background.Extracted) - 1; i >= 0; i-- {
		img := extractedNode(page.Background.Extracted[i], opts)
		frame.InsertBefore(img, frame.FirstChild)
	}
	if bg, err := backgroundNode(page.Background.Asset, opts); err != nil {
		return nil, err
	} else if bg != nil {
		frame.InsertBefore(bg, frame.FirstChild)
	}
	return frame, nil
}

func backgroundNode(asset model.AssetRef, opts Options) (*html.Node, error) {
	switch {
	case len(asset.Data) == 0 && asset.Name == "":
		return nil, nil
	case asset.Kind == model.AssetInline && asset.MediaType == "image/svg+xml":
		nodes, err := html.ParseFragment(strings.NewReader(string(asset.Data)), bodyContext())
		if err != nil {
			return nil, fmt.Errorf("failed to parse background markup: %w", err)
		}
		wrapper := element(atom.Div)
		setClass(wrapper, "bg")
		for _, n := range nodes {
			wrapper.AppendChild(n)
		}
		return wrapper, nil
	case asset.Kind == model.AssetInline:
		img := element(atom.Img)
		setClass(img, "bg")
		setAttr(img, "src", dataURI(asset.MediaType, asset.Data))
		return img, nil
	default:
		img := element(atom.Img)
		setClass(img, "bg")
		setAttr(img, "src", assetPath(opts, asset.Name))
		return img, nil
	}
}

func extractedNode(img model.ExtractedImage, opts Options) *html.Node {
	node := element(atom.Img)
	if img.Asset.Kind == model.AssetInline {
		setAttr(node, "src", dataURI(img.Asset.MediaType, img.Asset.Data))
	} else {
		setAttr(node, "src", assetPath(opts, img.Asset.Name))
	}
	setAttr(node, "style", fmt.Sprintf(
		"position:absolute;left:%spt;bottom:%spt;width:%spt;height:%spt;",
		formatPt(img.Rect.X), formatPt(img.Rect.Y),
		formatPt(img.Rect.Width), formatPt(img.Rect.Height)))
	return node
}

func stylesheet(doc *model.Document, opts Options) string {
	var sb strings.Builder
	for _, f := range doc.Fonts {
		src := assetPath(opts, fontFileName(f))
		if opts.EmbedFonts {
			src = dataURI(fontMediaType(f.Format), f.Data)
		}
		fmt.Fprintf(&sb, "@font-face{font-family:%q;src:url(%q)format(%q);}\n",
			f.Name, src, fontFormat(f.Format))
	}
	sb.WriteString(doc.Stylesheet)
	return sb.String()
}

func documentTitle(doc *model.Document, opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	return "Document"
}

func fontFileName(f model.FontResource) string {
	ext := ".ttf"
	switch f.Format {
	case "OpenType", "CFF":
		ext = ".otf"
	case "WOFF":
		ext = ".woff"
	}
	return f.Name + ext
}

func fontFormat(format string) string {
	switch format {
	case "OpenType", "CFF":
		return "opentype"
	case "WOFF":
		return "woff"
	default:
		return "truetype"
	}
}

func fontMediaType(format string) string {
	switch format {
	case "OpenType", "CFF":
		return "font/otf"
	case "WOFF":
		return "font/woff"
	default:
		return "font/ttf"
	}
}

func assetPath(opts Options, name string) string {
	if opts.AssetDir == "" {
		return name
	}
	return path.Join(opts.AssetDir, name)
}

func dataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
}

func firstElement(nodes []*html.Node) *html.Node {
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func setClass(n *html.Node, class string) {
	setAttr(n, "class", class)
}

func setAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
