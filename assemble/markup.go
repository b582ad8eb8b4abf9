package assemble

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/style"
)

// BaseRules are the structural stylesheet rules shared by every page's
// markup. Value rules (fs/ls/ws/fc/sc/t classes) come from the style
// registry.
const BaseRules = `.pf{position:relative;overflow:hidden;}
.bg{position:absolute;left:0;bottom:0;width:100%;height:100%;}
.cl{position:absolute;overflow:hidden;}
.l{position:absolute;white-space:pre;transform-origin:0 0;}
.o{display:inline-block;}
`

// Dump serializes the page's lines and clip regions as markup. For
// each line the runs are emitted in order; characters that are covered
// per the occlusion detector, or explicitly suppressed, are wrapped in
// the shared transparent style so they stay selectable but invisible.
// Clip regions whose bounds match the page bounds are skipped.
func (b *Builder) Dump(w io.Writer) error {
	b.CloseLine()
	root := b.buildTree()
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("failed to render page markup: %w", err)
	}
	return nil
}

func (b *Builder) buildTree() *html.Node {
	page := element(atom.Div, "pf")
	setAttr(page, "style", fmt.Sprintf("width:%spt;height:%spt;",
		formatPt(b.pageWidth), formatPt(b.pageHeight)))

	pageBounds := model.NewBBox(0, 0, b.pageWidth, b.pageHeight)
	transparent := b.registry.Install(style.FillColor(model.TransparentColor()))

	for i := range b.lines {
		lineNode := b.buildLine(&b.lines[i], transparent)
		parent := page
		if clip, ok := b.clipForLine(i, pageBounds); ok {
			parent = b.clipNode(page, clip)
		}
		parent.AppendChild(lineNode)
	}
	return page
}

// clipForLine returns the clip region governing a line, skipping
// regions that match the page bounds.
func (b *Builder) clipForLine(line int, pageBounds model.BBox) (ClipRegion, bool) {
	var governing ClipRegion
	found := false
	for _, c := range b.clips {
		if c.FirstLine <= line {
			governing = c
			found = true
		}
	}
	if !found || governing.Rect.Equals(pageBounds, b.config.Eps) {
		return ClipRegion{}, false
	}
	return governing, true
}

// clipNode returns the clip wrapper for a region, reusing the previous
// wrapper when consecutive lines share one region.
func (b *Builder) clipNode(page *html.Node, clip ClipRegion) *html.Node {
	if last := page.LastChild; last != nil && getAttr(last, "class") == "cl" {
		if getAttr(last, "data-clip") == clipKey(clip) {
			return last
		}
	}
	node := element(atom.Div, "cl")
	setAttr(node, "style", fmt.Sprintf("left:%spt;bottom:%spt;width:%spt;height:%spt;",
		formatPt(clip.Rect.X), formatPt(clip.Rect.Y),
		formatPt(clip.Rect.Width), formatPt(clip.Rect.Height)))
	setAttr(node, "data-clip", clipKey(clip))
	page.AppendChild(node)
	return node
}

func clipKey(clip ClipRegion) string {
	return fmt.Sprintf("%d:%s,%s,%s,%s", clip.FirstLine,
		formatPt(clip.Rect.X), formatPt(clip.Rect.Y),
		formatPt(clip.Rect.Width), formatPt(clip.Rect.Height))
}

func (b *Builder) buildLine(line *Line, transparent style.ID) *html.Node {
	classes := "l"
	if name := b.registry.ClassName(b.registry.Install(style.Transform(line.Transform))); name != "" {
		classes += " " + name
	}
	node := element(atom.Div, classes)
	setAttr(node, "style", fmt.Sprintf("left:%spt;bottom:%spt;",
		formatPt(line.Origin.X), formatPt(line.Origin.Y)))

	for i := range line.Runs {
		node.AppendChild(b.buildRun(&line.Runs[i], transparent))
	}
	return node
}

func (b *Builder) buildRun(run *Run, transparent style.ID) *html.Node {
	classes := strings.Join(run.Set.Classes(b.registry), " ")
	node := element(atom.Span, classes)
	if !run.Set.Valid {
		setAttr(node, "data-warning", "missing-style")
	}

	// Characters are grouped into visible and suppressed segments;
	// suppressed segments get the shared transparent fill so the text
	// stays selectable but invisible.
	var visible strings.Builder
	flush := func() {
		if visible.Len() > 0 {
			node.AppendChild(textNode(visible.String()))
			visible.Reset()
		}
	}

	for _, c := range run.Chars {
		if c.Offset != 0 {
			flush()
			node.AppendChild(offsetNode(c.Offset))
		}
		suppressed := c.Suppress || b.detector.Covered(c.Handle)
		if suppressed {
			flush()
			hidden := element(atom.Span, b.registry.ClassName(transparent))
			hidden.AppendChild(textNode(c.Char.Text()))
			node.AppendChild(hidden)
			continue
		}
		visible.WriteString(c.Char.Text())
	}
	flush()
	return node
}

func offsetNode(width float64) *html.Node {
	node := element(atom.Span, "o")
	setAttr(node, "style", "margin-left:"+formatPt(width)+"pt;")
	return node
}

func element(a atom.Atom, class string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
	if class != "" {
		setAttr(node, "class", class)
	}
	return node
}

func textNode(text string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: norm.NFC.String(text),
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
