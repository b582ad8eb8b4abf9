package model

import (
	"math"
	"testing"
)

// Point Tests

func TestPointDistance(t *testing.T) {
	p1 := Point{X: 0, Y: 0}
	p2 := Point{X: 3, Y: 4}

	if d := p1.Distance(p2); d != 5 {
		t.Errorf("Expected distance 5, got %f", d)
	}
}

// BBox Tests

func TestBBoxEdges(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)

	if b.Left() != 10 {
		t.Errorf("Expected left 10, got %f", b.Left())
	}
	if b.Right() != 110 {
		t.Errorf("Expected right 110, got %f", b.Right())
	}
	if b.Bottom() != 20 {
		t.Errorf("Expected bottom 20, got %f", b.Bottom())
	}
	if b.Top() != 70 {
		t.Errorf("Expected top 70, got %f", b.Top())
	}
}

func TestBBoxCorners(t *testing.T) {
	b := NewBBox(0, 0, 10, 20)
	corners := b.Corners()

	expected := [4]Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 0, Y: 20},
		{X: 10, Y: 20},
	}
	if corners != expected {
		t.Errorf("Corners() = %v, want %v", corners, expected)
	}
}

func TestBBoxContains_EdgeIsInside(t *testing.T) {
	b := NewBBox(0, 0, 10, 10)

	// Containment uses closed intervals: points exactly on an edge
	// or corner count as inside.
	edgePoints := []Point{
		{X: 0, Y: 5},
		{X: 10, Y: 5},
		{X: 5, Y: 0},
		{X: 5, Y: 10},
		{X: 0, Y: 0},
		{X: 10, Y: 10},
	}
	for _, p := range edgePoints {
		if !b.Contains(p) {
			t.Errorf("Expected %v to be inside box", p)
		}
	}

	if b.Contains(Point{X: 10.001, Y: 5}) {
		t.Error("Point outside right edge should not be contained")
	}
}

func TestBBoxIntersects(t *testing.T) {
	b1 := NewBBox(0, 0, 10, 10)
	b2 := NewBBox(5, 5, 10, 10)
	b3 := NewBBox(20, 20, 5, 5)

	if !b1.Intersects(b2) {
		t.Error("Expected b1 to intersect b2")
	}
	if b1.Intersects(b3) {
		t.Error("Expected b1 not to intersect b3")
	}
}

func TestBBoxIntersection(t *testing.T) {
	b1 := NewBBox(0, 0, 10, 10)
	b2 := NewBBox(5, 5, 10, 10)

	inter := b1.Intersection(b2)
	want := NewBBox(5, 5, 5, 5)
	if inter != want {
		t.Errorf("Intersection = %v, want %v", inter, want)
	}
}

func TestBBoxUnion(t *testing.T) {
	b1 := NewBBox(0, 0, 10, 10)
	b2 := NewBBox(5, 5, 10, 10)

	union := b1.Union(b2)
	want := NewBBox(0, 0, 15, 15)
	if union != want {
		t.Errorf("Union = %v, want %v", union, want)
	}
}

func TestBBoxEquals(t *testing.T) {
	b1 := NewBBox(0, 0, 612, 792)
	b2 := NewBBox(0.0005, 0, 612, 792)
	b3 := NewBBox(10, 0, 612, 792)

	if !b1.Equals(b2, 0.001) {
		t.Error("Boxes within eps should be equal")
	}
	if b1.Equals(b3, 0.001) {
		t.Error("Boxes differing beyond eps should not be equal")
	}
}

// Matrix Tests

func TestIdentity(t *testing.T) {
	m := Identity()
	expected := Matrix{1, 0, 0, 1, 0, 0}
	if m != expected {
		t.Errorf("Identity() = %v, want %v", m, expected)
	}
	if !m.IsIdentity() {
		t.Error("Identity matrix should report IsIdentity")
	}
}

func TestMatrixTransform(t *testing.T) {
	m := Translate(10, 20)
	p := m.Transform(Point{X: 1, Y: 2})

	if p.X != 11 || p.Y != 22 {
		t.Errorf("Transform = %v, want {11 22}", p)
	}
}

func TestMatrixTransformBBox_Rotation(t *testing.T) {
	m := Rotate(math.Pi / 2)
	b := m.TransformBBox(NewBBox(0, 0, 10, 20))

	// A 90-degree rotation swaps width and height.
	if math.Abs(b.Width-20) > 1e-9 || math.Abs(b.Height-10) > 1e-9 {
		t.Errorf("Rotated bbox = %v, want width 20, height 10", b)
	}
}

func TestMatrixLinearEquals(t *testing.T) {
	m1 := Matrix{2, 0, 0, 2, 0, 0}
	m2 := Matrix{2, 0, 0, 2, 100, -50}
	m3 := Matrix{2, 0, 0, 2.1, 0, 0}

	if !m1.LinearEquals(m2, 0.001) {
		t.Error("Matrices differing only by translation should be linear-equal")
	}
	if m1.LinearEquals(m3, 0.001) {
		t.Error("Matrices with different linear parts should not be linear-equal")
	}
}

func TestMatrixIsProportionalTo(t *testing.T) {
	tests := []struct {
		name string
		a, b Matrix
		want bool
	}{
		{
			name: "translated copy",
			a:    Matrix{2, 0, 0, 2, 5, 0},
			b:    Matrix{2, 0, 0, 2, 0, 0},
			want: true,
		},
		{
			name: "uniform scale",
			a:    Matrix{4, 0, 0, 4, 0, 0},
			b:    Matrix{2, 0, 0, 2, 0, 0},
			want: true,
		},
		{
			name: "rotated",
			a:    Matrix{0, 2, -2, 0, 5, 5},
			b:    Matrix{2, 0, 0, 2, 0, 0},
			want: false,
		},
		{
			name: "negative scale",
			a:    Matrix{-2, 0, 0, -2, 0, 0},
			b:    Matrix{2, 0, 0, 2, 0, 0},
			want: false,
		},
		{
			name: "rotated pair",
			a:    Matrix{0, 4, -4, 0, 0, 0},
			b:    Matrix{0, 2, -2, 0, 9, 9},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IsProportionalTo(tt.b, 1e-6); got != tt.want {
				t.Errorf("IsProportionalTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixNegateLinear(t *testing.T) {
	m := Matrix{1, 2, 3, 4, 10, 20}
	neg := m.NegateLinear()

	want := Matrix{-1, -2, -3, -4, 10, 20}
	if neg != want {
		t.Errorf("NegateLinear = %v, want %v", neg, want)
	}

	// Drawing at size -s with m equals size s with the linear part of
	// m negated: the composed matrices must match.
	s := 12.0
	a := Scale(-s, -s).Multiply(m)
	b := Scale(s, s).Multiply(neg)
	if a != b {
		t.Errorf("Sign compensation mismatch: %v vs %v", a, b)
	}
}

func TestMatrixDeterminant(t *testing.T) {
	m := Matrix{2, 0, 0, 3, 100, 100}
	if d := m.Determinant(); d != 6 {
		t.Errorf("Determinant = %f, want 6", d)
	}
}

// Color Tests

func TestColorEquals(t *testing.T) {
	c1 := NewColor(0, 0, 0)
	c2 := Black()
	if !c1.Equals(c2) {
		t.Error("Black colors should be equal")
	}

	c3 := NewColor(1, 0, 0)
	if c1.Equals(c3) {
		t.Error("Black and red should not be equal")
	}
}

func TestColorTransparent_AllEqual(t *testing.T) {
	t1 := TransparentColor()
	t2 := Color{R: 255, G: 128, B: 7, Transparent: true}

	if !t1.Equals(t2) {
		t.Error("All transparent colors should compare equal")
	}
	if t1.Equals(Black()) {
		t.Error("Transparent should not equal opaque black")
	}
}

func TestColorHex(t *testing.T) {
	if hex := NewColor(1, 0, 0).Hex(); hex != "#ff0000" {
		t.Errorf("Hex = %q, want #ff0000", hex)
	}
	if hex := TransparentColor().Hex(); hex != "transparent" {
		t.Errorf("Hex = %q, want transparent", hex)
	}
}

// Document / Page Tests

func TestDocumentAddPage(t *testing.T) {
	doc := NewDocument()
	doc.AddPage(NewPage(612, 792))
	doc.AddPage(NewPage(612, 792))

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.GetPage(1).Number != 1 || doc.GetPage(2).Number != 2 {
		t.Error("Pages should be numbered in insertion order")
	}
	if doc.GetPage(0) != nil || doc.GetPage(3) != nil {
		t.Error("Out-of-range page lookup should return nil")
	}
}

func TestDocumentMarkupSize(t *testing.T) {
	doc := NewDocument()
	doc.Stylesheet = "12345"
	p := NewPage(612, 792)
	p.Markup = "1234567890"
	doc.AddPage(p)

	if size := doc.MarkupSize(); size != 15 {
		t.Errorf("MarkupSize = %d, want 15", size)
	}
}
