package style

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tsawler/folio/model"
)

// Kind identifies which style property a value belongs to. Values of
// different kinds never share an ID even when numerically equal.
type Kind int

const (
	// KindFontSize is a font size in points.
	KindFontSize Kind = iota
	// KindLetterSpacing is inter-character spacing in points.
	KindLetterSpacing
	// KindWordSpacing is inter-word spacing in points.
	KindWordSpacing
	// KindFillColor is a text fill color.
	KindFillColor
	// KindStrokeColor is a text stroke color.
	KindStrokeColor
	// KindTransform is a transform class: the linear part of an affine
	// matrix, with translation ignored.
	KindTransform
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFontSize:
		return "FontSize"
	case KindLetterSpacing:
		return "LetterSpacing"
	case KindWordSpacing:
		return "WordSpacing"
	case KindFillColor:
		return "FillColor"
	case KindStrokeColor:
		return "StrokeColor"
	case KindTransform:
		return "Transform"
	default:
		return "Unknown"
	}
}

// classPrefix returns the class-name prefix used in emitted rules.
func (k Kind) classPrefix() string {
	switch k {
	case KindFontSize:
		return "fs"
	case KindLetterSpacing:
		return "ls"
	case KindWordSpacing:
		return "ws"
	case KindFillColor:
		return "fc"
	case KindStrokeColor:
		return "sc"
	case KindTransform:
		return "t"
	default:
		return "x"
	}
}

// Value is a style value that can be interned by a Registry.
// Implementations are Scalar, ColorValue, and TransformClass.
type Value interface {
	// Kind returns the property this value styles.
	Kind() Kind
	// Rule returns the CSS declaration body for this value.
	Rule() string
}

// Scalar is a numeric style value (font size, letter or word spacing).
// Two scalars of the same kind are equal when they differ by at most
// the registry epsilon.
type Scalar struct {
	K   Kind
	Val float64
}

// FontSize creates a font-size scalar.
func FontSize(v float64) Scalar { return Scalar{K: KindFontSize, Val: v} }

// LetterSpacing creates a letter-spacing scalar.
func LetterSpacing(v float64) Scalar { return Scalar{K: KindLetterSpacing, Val: v} }

// WordSpacing creates a word-spacing scalar.
func WordSpacing(v float64) Scalar { return Scalar{K: KindWordSpacing, Val: v} }

// Kind returns the scalar's property kind.
func (s Scalar) Kind() Kind { return s.K }

// Rule returns the CSS declaration for the scalar.
func (s Scalar) Rule() string {
	v := strconv.FormatFloat(s.Val, 'f', -1, 64)
	switch s.K {
	case KindFontSize:
		return "font-size:" + v + "pt;"
	case KindLetterSpacing:
		return "letter-spacing:" + v + "pt;"
	case KindWordSpacing:
		return "word-spacing:" + v + "pt;"
	default:
		return ""
	}
}

// ColorValue is a fill or stroke color. All transparent colors of a
// kind compare equal and share one ID regardless of their RGB values.
type ColorValue struct {
	K     Kind
	Color model.Color
}

// FillColor creates a fill-color value.
func FillColor(c model.Color) ColorValue { return ColorValue{K: KindFillColor, Color: c} }

// StrokeColor creates a stroke-color value.
func StrokeColor(c model.Color) ColorValue { return ColorValue{K: KindStrokeColor, Color: c} }

// Kind returns the color's property kind.
func (c ColorValue) Kind() Kind { return c.K }

// Rule returns the CSS declaration for the color.
func (c ColorValue) Rule() string {
	switch c.K {
	case KindStrokeColor:
		return "-webkit-text-stroke-color:" + c.Color.Hex() + ";"
	default:
		return "color:" + c.Color.Hex() + ";"
	}
}

// TransformClass is the linear part of an affine matrix. Translation
// components are ignored for deduplication: text that differs only by
// position shares one transform class.
type TransformClass struct {
	Matrix model.Matrix
}

// Transform creates a transform class from a matrix. The translation
// components are zeroed so equal linear parts produce equal values.
func Transform(m model.Matrix) TransformClass {
	return TransformClass{Matrix: m.WithTranslation(0, 0)}
}

// Kind returns KindTransform.
func (t TransformClass) Kind() Kind { return KindTransform }

// Rule returns the CSS declaration for the transform class.
func (t TransformClass) Rule() string {
	m := t.Matrix
	return fmt.Sprintf("transform:matrix(%s,%s,%s,%s,0,0);",
		formatComponent(m[0]), formatComponent(m[1]),
		formatComponent(m[2]), formatComponent(m[3]))
}

func formatComponent(v float64) string {
	// Collapse negative zero so rules are byte-stable.
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsNaN reports whether a value contains a NaN component. Callers must
// reject such values before Install; the registry does not check.
func IsNaN(v Value) bool {
	switch val := v.(type) {
	case Scalar:
		return math.IsNaN(val.Val)
	case TransformClass:
		for i := 0; i < 4; i++ {
			if math.IsNaN(val.Matrix[i]) {
				return true
			}
		}
	}
	return false
}
