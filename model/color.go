package model

import "fmt"

// Color represents an RGB color with an optional transparency flag.
// A transparent color carries no visible channel information: every
// transparent color renders identically regardless of its RGB values.
type Color struct {
	R, G, B     uint8
	Transparent bool
}

// NewColor creates an opaque color from float channel values in [0, 1].
// Out-of-range values are clamped.
func NewColor(r, g, b float64) Color {
	return Color{
		R: floatToUint8(r),
		G: floatToUint8(g),
		B: floatToUint8(b),
	}
}

// TransparentColor returns the canonical transparent color.
func TransparentColor() Color {
	return Color{Transparent: true}
}

// Black returns opaque black.
func Black() Color {
	return Color{}
}

// Equals reports whether two colors render identically. Any two
// transparent colors are equal; opaque colors compare channel-wise.
func (c Color) Equals(other Color) bool {
	if c.Transparent || other.Transparent {
		return c.Transparent == other.Transparent
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Hex returns the color as a #rrggbb string. Transparent colors
// return the CSS keyword "transparent".
func (c Color) Hex() string {
	if c.Transparent {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// floatToUint8 converts a float64 color value (0.0-1.0) to uint8 (0-255)
func floatToUint8(f float64) uint8 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint8(f*255 + 0.5)
}
