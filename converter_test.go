package folio

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
)

var _ backend.Device = (*pageConverter)(nil)

// scriptSource replays scripted page events. Each page is a sequence
// of functions invoked between PageBegin and PageEnd.
type scriptSource struct {
	width  float64
	height float64
	pages  [][]func(dev backend.Device) error
}

func (s *scriptSource) PageCount() int {
	return len(s.pages)
}

func (s *scriptSource) ReplayPage(n int, dev backend.Device) error {
	if err := dev.PageBegin(s.width, s.height); err != nil {
		return err
	}
	for _, event := range s.pages[n-1] {
		if err := event(dev); err != nil {
			return err
		}
	}
	return dev.PageEnd()
}

func setFont(name string, size float64) func(backend.Device) error {
	return func(dev backend.Device) error {
		return dev.UpdateFont(backend.FontRef{Name: name, Program: backend.ProgramStandard}, size)
	}
}

func drawChar(r rune, x, y, advance float64) func(backend.Device) error {
	return func(dev backend.Device) error {
		return dev.DrawChar(backend.Char{Code: r}, model.Point{X: x, Y: y}, advance)
	}
}

func fillRect(x, y, w, h, opacity float64) func(backend.Device) error {
	return func(dev backend.Device) error {
		return dev.DrawPath(backend.PathFill, model.NewBBox(x, y, w, h), opacity)
	}
}

func setTransform(m model.Matrix) func(backend.Device) error {
	return func(dev backend.Device) error {
		return dev.UpdateTransform(m)
	}
}

func setClip(x, y, w, h float64) func(backend.Device) error {
	return func(dev backend.Device) error {
		return dev.UpdateClip(model.NewBBox(x, y, w, h))
	}
}

func saveState(dev backend.Device) error {
	return dev.SaveState()
}

func restoreState(dev backend.Device) error {
	return dev.RestoreState()
}

func onePage(events ...func(backend.Device) error) *scriptSource {
	return &scriptSource{width: 612, height: 792, pages: [][]func(backend.Device) error{events}}
}

func countLines(markup string) int {
	return strings.Count(markup, `<div class="l`)
}

func TestConvertSimpleRun(t *testing.T) {
	src := onePage(
		setFont("F1", 12),
		drawChar('A', 10, 700, 5),
		drawChar('B', 15, 700, 5),
	)

	doc, warnings, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("expected 1 page, got %d", doc.PageCount())
	}

	page := doc.GetPage(1)
	if countLines(page.Markup) != 1 {
		t.Errorf("expected one line, got markup: %s", page.Markup)
	}
	if !strings.Contains(page.Markup, ">AB<") {
		t.Errorf("expected a single run AB, got markup: %s", page.Markup)
	}
	if strings.Contains(page.Markup, `class="cl"`) {
		t.Errorf("expected zero clip regions, got markup: %s", page.Markup)
	}
	if !strings.Contains(doc.Stylesheet, "font-size:12pt;") {
		t.Errorf("expected size rule in stylesheet: %s", doc.Stylesheet)
	}
	if !strings.Contains(doc.Stylesheet, "color:#000000;") {
		t.Errorf("expected black fill rule in stylesheet: %s", doc.Stylesheet)
	}
	if page.Background.Mode != model.BackgroundVector {
		t.Errorf("expected vector background, got %v", page.Background.Mode)
	}
}

func TestConvertCoveredChar(t *testing.T) {
	// The rectangle exactly covers the character cell; exactly
	// touching corners count as obstructed.
	src := onePage(
		setFont("F1", 12),
		drawChar('A', 10, 10, 5),
		fillRect(10, 10, 5, 12, 1),
	)

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	page := doc.GetPage(1)

	// The character stays in the text layer, wrapped invisible.
	if !strings.Contains(page.Markup, ">A</span>") {
		t.Errorf("covered char should stay selectable, got markup: %s", page.Markup)
	}
	if !strings.Contains(doc.Stylesheet, "color:transparent;") {
		t.Errorf("expected transparent rule in stylesheet: %s", doc.Stylesheet)
	}

	// The background holds the rectangle and the rasterized glyph.
	svg := string(page.Background.Asset.Data)
	if !strings.Contains(svg, "<rect") {
		t.Errorf("expected rectangle in background: %s", svg)
	}
	if !strings.Contains(svg, ">A</text>") {
		t.Errorf("expected covered glyph in background: %s", svg)
	}
	if page.Background.RasterizedChars != 1 {
		t.Errorf("expected 1 rasterized char, got %d", page.Background.RasterizedChars)
	}
}

func TestConvertIdenticalSequenceLowOpacityStaysVisible(t *testing.T) {
	src := onePage(
		setFont("F1", 12),
		drawChar('A', 10, 10, 5),
		fillRect(10, 10, 5, 12, 0.4),
	)

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	page := doc.GetPage(1)
	if !strings.Contains(page.Markup, ">A<") {
		t.Errorf("char under a translucent rect should stay visible: %s", page.Markup)
	}
	if page.Background.RasterizedChars != 0 {
		t.Errorf("expected no rasterized chars, got %d", page.Background.RasterizedChars)
	}
}

func TestConvertProportionalTransformsMerge(t *testing.T) {
	src := onePage(
		setFont("F1", 12),
		setTransform(model.Matrix{2, 0, 0, 2, 0, 0}),
		drawChar('A', 0, 0, 5),
		setTransform(model.Matrix{2, 0, 0, 2, 5, 0}),
		drawChar('B', 15, 0, 5),
		setTransform(model.Matrix{0, 2, -2, 0, 5, 5}),
		drawChar('C', 5, 5, 5),
	)

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	page := doc.GetPage(1)
	if got := countLines(page.Markup); got != 2 {
		t.Errorf("expected 2 lines (proportional merge, rotation splits), got %d: %s", got, page.Markup)
	}
}

func TestConvertRestoreEndsClipRegion(t *testing.T) {
	src := onePage(
		setFont("F1", 12),
		saveState,
		setClip(0, 0, 50, 50),
		drawChar('B', 10, 40, 5),
		restoreState,
		drawChar('C', 10, 600, 5),
	)

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	markup := doc.GetPage(1).Markup

	clipPos := strings.Index(markup, `class="cl"`)
	if clipPos < 0 {
		t.Fatalf("expected a clip wrapper: %s", markup)
	}
	if strings.Count(markup, `class="cl"`) != 1 {
		t.Errorf("expected a single clip wrapper: %s", markup)
	}
	if bPos := strings.Index(markup, ">B<"); bPos < clipPos {
		t.Errorf("clipped char should sit inside the wrapper: %s", markup)
	}
	// The wrapper must close with the clipped line; text drawn after
	// the restore belongs to the page frame again.
	if !strings.Contains(markup, ">B</span></div></div>") {
		t.Errorf("clip wrapper should end at the restore: %s", markup)
	}
	if !strings.Contains(markup, ">C<") {
		t.Errorf("char after restore missing: %s", markup)
	}
}

func TestConvertClipUpdateInsideSaveScope(t *testing.T) {
	src := onePage(
		setFont("F1", 12),
		saveState,
		setClip(0, 0, 50, 50),
		setClip(0, 0, 80, 80),
		drawChar('B', 10, 40, 5),
		restoreState,
		drawChar('C', 10, 600, 5),
	)

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	markup := doc.GetPage(1).Markup

	if !strings.Contains(markup, "width:80pt;height:80pt;") {
		t.Errorf("expected the narrowed clip geometry: %s", markup)
	}
	if !strings.Contains(markup, ">B</span></div></div>") {
		t.Errorf("clip wrapper should end at the restore: %s", markup)
	}
}

func TestConvertPageFailureIsIsolated(t *testing.T) {
	replayErr := errors.New("backend contract violation")
	src := &scriptSource{
		width:  612,
		height: 792,
		pages: [][]func(backend.Device) error{
			{setFont("F1", 12), drawChar('A', 10, 700, 5)},
			{func(backend.Device) error { return replayErr }},
			{setFont("F1", 12), drawChar('C', 10, 700, 5)},
		},
	}

	doc, warnings, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 surviving pages, got %d", doc.PageCount())
	}
	found := false
	for _, w := range warnings {
		if w.Page == 2 && strings.Contains(w.Message, "dropped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a dropped-page warning, got %v", warnings)
	}
	// Styles from the failed page's neighbors still share the registry.
	if !strings.Contains(doc.Stylesheet, "font-size:12pt;") {
		t.Errorf("stylesheet should survive a failed page: %s", doc.Stylesheet)
	}
}

func TestConvertPageSelection(t *testing.T) {
	src := &scriptSource{
		width:  612,
		height: 792,
		pages: [][]func(backend.Device) error{
			{setFont("F1", 12), drawChar('A', 10, 700, 5)},
			{setFont("F1", 12), drawChar('B', 10, 700, 5)},
		},
	}

	doc, warnings, err := Convert(src).Pages(2, 9).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("expected 1 selected page, got %d", doc.PageCount())
	}
	if !strings.Contains(doc.GetPage(1).Markup, ">B<") {
		t.Errorf("expected page 2 content, got %s", doc.GetPage(1).Markup)
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w.Message, "out of range") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected out-of-range warning, got %v", warnings)
	}
}

func TestConvertOutputBudget(t *testing.T) {
	page := []func(backend.Device) error{setFont("F1", 12), drawChar('A', 10, 700, 5)}
	src := &scriptSource{
		width:  612,
		height: 792,
		pages:  [][]func(backend.Device) error{page, page, page},
	}

	doc, warnings, err := Convert(src).MaxOutputSize(1).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("expected conversion to stop after 1 page, got %d", doc.PageCount())
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w.Message, "budget") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected budget warning, got %v", warnings)
	}
	// The aborted conversion still yields a consistent stylesheet.
	if !strings.Contains(doc.Stylesheet, "font-size:12pt;") {
		t.Errorf("stylesheet missing after abort: %s", doc.Stylesheet)
	}
}

func TestConvertStylesSharedAcrossPages(t *testing.T) {
	page := []func(backend.Device) error{setFont("F1", 12), drawChar('A', 10, 700, 5)}
	src := &scriptSource{
		width:  612,
		height: 792,
		pages:  [][]func(backend.Device) error{page, page},
	}

	doc, _, err := Convert(src).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if got := strings.Count(doc.Stylesheet, "font-size:12pt;"); got != 1 {
		t.Errorf("expected one shared size rule, got %d in %s", got, doc.Stylesheet)
	}
}

func TestConverterChainIsImmutable(t *testing.T) {
	src := &scriptSource{
		width:  612,
		height: 792,
		pages: [][]func(backend.Device) error{
			{setFont("F1", 12), drawChar('A', 10, 700, 5)},
			{setFont("F1", 12), drawChar('B', 10, 700, 5)},
		},
	}

	all := Convert(src)
	one := all.Pages(1)

	docAll, _, err := all.Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	docOne, _, err := one.Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if docAll.PageCount() != 2 || docOne.PageCount() != 1 {
		t.Errorf("chained configuration leaked: all=%d one=%d", docAll.PageCount(), docOne.PageCount())
	}
}

type fakeFontBackend struct {
	assets map[string]backend.FontAsset
	maps   map[string]backend.GlyphMap
}

func (f *fakeFontBackend) ExtractFont(ref backend.FontRef) (backend.FontAsset, error) {
	asset, ok := f.assets[ref.Name]
	if !ok {
		return backend.FontAsset{}, errors.New("unknown font")
	}
	return asset, nil
}

func (f *fakeFontBackend) GlyphMap(ref backend.FontRef) (backend.GlyphMap, error) {
	return f.maps[ref.Name], nil
}

func TestConvertFontExtraction(t *testing.T) {
	fb := &fakeFontBackend{
		assets: map[string]backend.FontAsset{
			"F1": {Data: []byte{0, 1, 0, 0}, Format: backend.FormatTrueType},
		},
		maps: map[string]backend.GlyphMap{
			"F1": {5: 'X'},
		},
	}
	src := onePage(
		setFont("F1", 12),
		func(dev backend.Device) error {
			return dev.DrawChar(backend.Char{Glyph: 5}, model.Point{X: 10, Y: 700}, 5)
		},
	)

	doc, _, err := Convert(src).Fonts(fb).Document()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if len(doc.Fonts) != 1 || doc.Fonts[0].Name != "F1" || doc.Fonts[0].Format != "TrueType" {
		t.Fatalf("unexpected font resources %+v", doc.Fonts)
	}
	if !strings.Contains(doc.GetPage(1).Markup, ">X<") {
		t.Errorf("glyph-only char should resolve through the glyph map: %s", doc.GetPage(1).Markup)
	}
}

func TestConvertNoSource(t *testing.T) {
	if _, _, err := Convert(nil).Document(); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestMustDocumentPanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustDocument(Convert(nil).Document())
}
