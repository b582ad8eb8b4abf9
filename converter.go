package folio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/folio/assemble"
	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/background"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/render"
	"github.com/tsawler/folio/style"
)

// Converter provides a fluent interface for converting documents.
// Each configuration method returns a new Converter instance, making
// it safe for concurrent use and allowing method chaining.
type Converter struct {
	source  Source
	factory backend.SurfaceFactory
	fonts   backend.FontBackend
	options convertOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Converter with a deep copy of
// options. This ensures immutability - each chain method returns a new
// instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		source:  c.source,
		factory: c.factory,
		fonts:   c.fonts,
		options: c.options.clone(),
		err:     c.err,
	}
}

// Pages restricts conversion to the given 1-indexed page numbers.
// Invalid page numbers are reported as warnings, not errors.
func (c *Converter) Pages(nums ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append([]int(nil), nums...)
	return newConv
}

// Factory sets the surface factory used for background rendering.
// The default renders SVG vector output and PNG raster fallbacks.
func (c *Converter) Factory(f backend.SurfaceFactory) *Converter {
	newConv := c.clone()
	newConv.factory = f
	return newConv
}

// Fonts sets the font transcoding backend used to resolve glyph-only
// characters and to extract font assets for the output document.
// Without one, unmappable glyphs render as the replacement character
// and no font resources are emitted.
func (c *Converter) Fonts(fb backend.FontBackend) *Converter {
	newConv := c.clone()
	newConv.fonts = fb
	return newConv
}

// StyleEpsilon sets the tolerance under which two numeric style values
// share one class.
func (c *Converter) StyleEpsilon(eps float64) *Converter {
	newConv := c.clone()
	newConv.options.styleEps = eps
	return newConv
}

// PrimitiveLimit sets the vector complexity limit above which a page's
// background falls back to a raster image.
func (c *Converter) PrimitiveLimit(n int) *Converter {
	newConv := c.clone()
	newConv.options.primitiveLimit = n
	return newConv
}

// OpacityThreshold sets the minimum opacity at which a drawn primitive
// occludes the text beneath it.
func (c *Converter) OpacityThreshold(v float64) *Converter {
	newConv := c.clone()
	newConv.options.opacityThreshold = v
	return newConv
}

// Supersample sets the raster oversampling factor for fallback pages.
func (c *Converter) Supersample(v float64) *Converter {
	newConv := c.clone()
	newConv.options.supersample = v
	return newConv
}

// NoEscalation disables the higher-resolution re-render of pages that
// end with partially covered characters.
func (c *Converter) NoEscalation() *Converter {
	newConv := c.clone()
	newConv.options.noEscalation = true
	return newConv
}

// MaxOutputSize sets a cumulative output budget in bytes. Once the
// generated markup and background assets exceed it, remaining pages
// are skipped with a warning. 0 means unlimited.
func (c *Converter) MaxOutputSize(bytes int) *Converter {
	newConv := c.clone()
	newConv.options.maxOutputSize = bytes
	return newConv
}

// OCR enables text recovery from raster background images. Requires
// the ocr build tag and a Tesseract installation; without them pages
// convert normally and a warning is recorded instead.
func (c *Converter) OCR() *Converter {
	newConv := c.clone()
	newConv.options.ocrEnabled = true
	return newConv
}

// OCRLanguage sets the recognition language(s), "+"-separated
// (e.g. "eng+fra"). The default is "eng".
func (c *Converter) OCRLanguage(lang string) *Converter {
	newConv := c.clone()
	newConv.options.ocrEnabled = true
	newConv.options.ocrLanguage = lang
	return newConv
}

// Document converts the selected pages and returns the finished
// document, any warnings, and an error. A page whose replay fails is
// dropped with a warning; the error return is reserved for failures
// that prevent conversion entirely.
func (c *Converter) Document() (*model.Document, []Warning, error) {
	if c.err != nil {
		return nil, nil, c.err
	}
	if c.source == nil {
		return nil, nil, fmt.Errorf("no source specified")
	}

	factory := c.factory
	if factory == nil {
		factory = render.NewFactory()
	}

	regConfig := style.DefaultConfig()
	if c.options.styleEps > 0 {
		regConfig.Eps = c.options.styleEps
	}
	registry := style.NewRegistryWithConfig(regConfig)

	pc := newPageConverter(registry, factory, c.fonts, c.options)

	var warnings []Warning
	doc := model.NewDocument()
	produced := 0

	for _, n := range c.pageNumbers() {
		if n < 1 || n > c.source.PageCount() {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("page %d out of range", n)})
			continue
		}
		if c.options.maxOutputSize > 0 && produced > c.options.maxOutputSize {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("output budget of %d bytes exceeded, skipping remaining pages", c.options.maxOutputSize),
			})
			break
		}

		page, err := pc.convert(c.source, n)
		if err != nil {
			// Fatal for this page only; the shared registry keeps all
			// installed styles.
			warnings = append(warnings, Warning{Page: n, Message: fmt.Sprintf("page dropped: %v", err)})
			continue
		}
		for _, msg := range page.Warnings {
			warnings = append(warnings, Warning{Page: n, Message: msg})
		}
		produced += len(page.Markup) + len(page.Background.Asset.Data)
		doc.AddPage(page)
	}

	var sheet strings.Builder
	sheet.WriteString(assemble.BaseRules)
	if err := registry.EmitRules(&sheet); err != nil {
		return nil, warnings, fmt.Errorf("failed to emit stylesheet: %w", err)
	}
	doc.Stylesheet = sheet.String()

	warnings = append(warnings, c.extractFonts(pc, doc)...)

	return doc, warnings, nil
}

// extractFonts requests an asset for every font the document
// referenced. Extraction failures cost the font, not the document.
func (c *Converter) extractFonts(pc *pageConverter, doc *model.Document) []Warning {
	if c.fonts == nil || len(pc.usedFonts) == 0 {
		return nil
	}

	names := make([]string, 0, len(pc.usedFonts))
	for name := range pc.usedFonts {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []Warning
	for _, name := range names {
		ref := pc.usedFonts[name]
		if ref.Program != backend.ProgramStandard {
			// Non-standard programs were rasterized; nothing to embed.
			continue
		}
		asset, err := c.fonts.ExtractFont(ref)
		if err != nil {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("font %s dropped: %v", name, err)})
			continue
		}
		doc.Fonts = append(doc.Fonts, model.FontResource{
			Name:   name,
			Format: asset.Format.String(),
			Data:   asset.Data,
		})
	}
	return warnings
}

// Stylesheet converts the selected pages and returns only the shared
// stylesheet. Mostly useful for diagnostics.
func (c *Converter) Stylesheet() (string, []Warning, error) {
	doc, warnings, err := c.Document()
	if err != nil {
		return "", warnings, err
	}
	return doc.Stylesheet, warnings, nil
}

func (c *Converter) pageNumbers() []int {
	if c.options.pages != nil {
		return c.options.pages
	}
	nums := make([]int, c.source.PageCount())
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// recoverText runs OCR over a raster background. Failures degrade to a
// warning; conversion never depends on a Tesseract installation.
func recoverText(strategy *background.Strategy, lang string, page *model.Page) {
	client, err := ocr.New()
	if err != nil {
		page.Warn(fmt.Sprintf("ocr unavailable: %v", err))
		return
	}
	defer client.Close()

	if lang != "" {
		if err := client.SetLanguage(lang); err != nil {
			page.Warn(fmt.Sprintf("ocr language %q rejected: %v", lang, err))
		}
	}
	img, err := strategy.Image()
	if err != nil || img == nil {
		page.Warn(fmt.Sprintf("ocr skipped: %v", err))
		return
	}
	text, err := client.RecognizeBackground(img)
	if err != nil {
		page.Warn(fmt.Sprintf("ocr failed: %v", err))
		return
	}
	page.Background.OCRText = text
}
