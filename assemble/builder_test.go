package assemble

import (
	"strings"
	"testing"

	"github.com/tsawler/folio/backend"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/occlusion"
	"github.com/tsawler/folio/style"
)

func testSet(r *style.Registry, size float64, fill model.Color) style.Set {
	return style.Set{
		Valid:         true,
		FontSize:      r.Install(style.FontSize(size)),
		LetterSpacing: r.Install(style.LetterSpacing(0)),
		WordSpacing:   r.Install(style.WordSpacing(0)),
		FillColor:     r.Install(style.FillColor(fill)),
		StrokeColor:   r.Install(style.StrokeColor(model.TransparentColor())),
		Transform:     r.Install(style.Transform(model.Identity())),
	}
}

func newPageBuilder(reg *style.Registry, det *occlusion.Detector) *Builder {
	b := NewBuilder(reg, det)
	b.Reset(612, 792)
	return b
}

func ch(r rune) backend.Char {
	return backend.Char{Code: r}
}

func TestAppendCharSameSetMergesRun(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.OpenLine(model.Identity(), model.Point{X: 10, Y: 700})
	b.AppendChar(ch('A'), set, 0, false)
	b.AppendChar(ch('B'), set, 1, false)
	b.CloseLine()

	lines := b.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if len(lines[0].Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(lines[0].Runs))
	}
	if got := lines[0].Runs[0].Text(); got != "AB" {
		t.Errorf("expected run text %q, got %q", "AB", got)
	}
}

func TestAppendCharStyleChangeStartsRun(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	black := testSet(reg, 12, model.Black())
	red := testSet(reg, 12, model.NewColor(1, 0, 0))

	b.OpenLine(model.Identity(), model.Point{})
	b.AppendChar(ch('A'), black, 0, false)
	b.AppendChar(ch('B'), red, 1, false)
	b.AppendChar(ch('C'), red, 2, false)
	b.CloseLine()

	runs := b.Lines()[0].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Text() != "A" || runs[1].Text() != "BC" {
		t.Errorf("unexpected run texts %q, %q", runs[0].Text(), runs[1].Text())
	}
}

func TestOffsetEpsilonFilter(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.OpenLine(model.Identity(), model.Point{})
	b.AppendChar(ch('A'), set, 0, false)
	b.AppendOffset(0.005)
	b.AppendChar(ch('B'), set, 1, false)
	b.AppendOffset(2.5)
	b.AppendChar(ch('C'), set, 2, false)
	b.CloseLine()

	chars := b.Lines()[0].Runs[0].Chars
	if chars[1].Offset != 0 {
		t.Errorf("sub-epsilon offset should be dropped, got %v", chars[1].Offset)
	}
	if chars[2].Offset != 2.5 {
		t.Errorf("expected offset 2.5, got %v", chars[2].Offset)
	}
}

func TestOffsetsAccumulate(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.OpenLine(model.Identity(), model.Point{})
	b.AppendChar(ch('A'), set, 0, false)
	b.AppendOffset(1.0)
	b.AppendOffset(0.5)
	b.AppendChar(ch('B'), set, 1, false)
	b.CloseLine()

	if got := b.Lines()[0].Runs[0].Chars[1].Offset; got != 1.5 {
		t.Errorf("expected accumulated offset 1.5, got %v", got)
	}
}

func TestEmptyLineDropped(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.OpenLine(model.Identity(), model.Point{})
	b.OpenLine(model.Identity(), model.Point{X: 0, Y: 20})
	b.AppendChar(ch('A'), set, 0, false)
	b.CloseLine()

	if len(b.Lines()) != 1 {
		t.Fatalf("empty line should be dropped, got %d lines", len(b.Lines()))
	}
}

func TestAppendCharWithoutLineWarns(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.AppendChar(ch('A'), set, 0, false)
	b.CloseLine()

	if len(b.Warnings()) == 0 {
		t.Error("expected a warning for character with no open line")
	}
	if len(b.Lines()) != 1 || b.Lines()[0].Runs[0].Text() != "A" {
		t.Error("character should still be kept on an auto-opened line")
	}
}

func TestInvalidSetWarnsAndKeepsChar(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())

	b.OpenLine(model.Identity(), model.Point{})
	b.AppendChar(ch('A'), style.Set{}, 0, false)
	b.CloseLine()

	found := false
	for _, w := range b.Warnings() {
		if strings.Contains(w, "empty style set") {
			found = true
		}
	}
	if !found {
		t.Error("expected empty style set warning")
	}
	if len(b.Lines()) != 1 {
		t.Error("character with empty set should still be emitted")
	}
}

func TestResetClearsState(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())
	set := testSet(reg, 12, model.Black())

	b.OpenLine(model.Identity(), model.Point{})
	b.AppendChar(ch('A'), set, 0, false)
	b.RegisterClip(model.NewBBox(0, 0, 100, 100), 0)
	b.Reset(612, 792)

	if len(b.Lines()) != 0 || len(b.Clips()) != 0 || len(b.Warnings()) != 0 {
		t.Error("reset should clear lines, clips and warnings")
	}
	if before := reg.Len(); before == 0 {
		t.Error("reset must not touch the shared registry")
	}
}

func TestRegisterClipClampsFirstLine(t *testing.T) {
	reg := style.NewRegistry()
	b := newPageBuilder(reg, occlusion.NewDetector())

	b.RegisterClip(model.NewBBox(0, 0, 50, 50), -3)
	if b.Clips()[0].FirstLine != 0 {
		t.Errorf("negative first line should clamp to 0, got %d", b.Clips()[0].FirstLine)
	}
}
