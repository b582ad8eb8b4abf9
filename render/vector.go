package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

// SVG is a vector surface emitting SVG markup. Page coordinates have
// the origin at the bottom-left; SVG's is top-left, so all y
// coordinates are flipped against the page height.
//
// The primitive count is the number of emitted element nodes, which is
// deterministic for identical draw sequences.
type SVG struct {
	width  float64
	height float64
	root   *html.Node
	count  int
}

// NewSVG creates an SVG surface for the given page bounds.
func NewSVG(width, height float64) *SVG {
	s := &SVG{width: width, height: height}
	s.Reset()
	return s
}

// DrawPath paints a rectangular path primitive.
func (s *SVG) DrawPath(kind backend.PathKind, rect model.BBox, color model.Color, opacity float64) error {
	node := svgElement("rect")
	setSVGAttr(node, "x", formatNum(rect.X))
	setSVGAttr(node, "y", formatNum(s.height-rect.Y-rect.Height))
	setSVGAttr(node, "width", formatNum(rect.Width))
	setSVGAttr(node, "height", formatNum(rect.Height))
	switch kind {
	case backend.PathStroke:
		setSVGAttr(node, "fill", "none")
		setSVGAttr(node, "stroke", color.Hex())
		setSVGAttr(node, "stroke-width", "1")
	default:
		setSVGAttr(node, "fill", color.Hex())
	}
	if opacity < 1 {
		setSVGAttr(node, "opacity", formatNum(opacity))
	}
	s.append(node)
	return nil
}

// DrawImage paints a decoded image, inlined as a PNG data URI.
func (s *SVG) DrawImage(rect model.BBox, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	node := svgElement("image")
	setSVGAttr(node, "x", formatNum(rect.X))
	setSVGAttr(node, "y", formatNum(s.height-rect.Y-rect.Height))
	setSVGAttr(node, "width", formatNum(rect.Width))
	setSVGAttr(node, "height", formatNum(rect.Height))
	setSVGAttr(node, "href", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
	setSVGAttr(node, "preserveAspectRatio", "none")
	s.append(node)
	return nil
}

// DrawGlyph paints a character as an SVG text element anchored at its
// baseline position.
func (s *SVG) DrawGlyph(ch backend.Char, pos model.Point, size float64, color model.Color) error {
	node := svgElement("text")
	setSVGAttr(node, "x", formatNum(pos.X))
	setSVGAttr(node, "y", formatNum(s.height-pos.Y))
	setSVGAttr(node, "font-size", formatNum(size))
	setSVGAttr(node, "fill", color.Hex())
	node.AppendChild(&html.Node{Type: html.TextNode, Data: ch.Text()})
	s.append(node)
	return nil
}

// PrimitiveCount returns the number of emitted element nodes.
func (s *SVG) PrimitiveCount() int {
	return s.count
}

// Reset discards all output.
func (s *SVG) Reset() {
	root := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Svg,
		Data:     "svg",
	}
	setSVGAttr(root, "xmlns", "http://www.w3.org/2000/svg")
	setSVGAttr(root, "width", formatNum(s.width))
	setSVGAttr(root, "height", formatNum(s.height))
	setSVGAttr(root, "viewBox", "0 0 "+formatNum(s.width)+" "+formatNum(s.height))
	s.root = root
	s.count = 0
}

// Finish serializes the surface as an inline SVG asset.
func (s *SVG) Finish() (model.AssetRef, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, s.root); err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to render svg: %w", err)
	}
	return model.AssetRef{
		Kind:      model.AssetInline,
		Data:      buf.Bytes(),
		MediaType: "image/svg+xml",
	}, nil
}

func (s *SVG) append(node *html.Node) {
	s.root.AppendChild(node)
	s.count++
}

func svgElement(name string) *html.Node {
	return &html.Node{
		Type: html.ElementNode,
		Data: name,
	}
}

func setSVGAttr(n *html.Node, key, val string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
