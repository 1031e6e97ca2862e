package utils

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" into an opaque RGBA color
func ParseHexColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: expected #rrggbb", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatHexColor formats the RGB channels of c as lowercase "#rrggbb"
func FormatHexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ShadeColor moves each channel of hex toward black (percent < 0) or white
// (percent > 0) by |percent|/100 of the remaining distance.
// Halves round toward positive infinity: ShadeColor("#ffffff", -10) is "#e6e6e6".
func ShadeColor(hex string, percent float64) (string, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return "", err
	}
	return FormatHexColor(ShadeRGBA(c, percent)), nil
}

// ShadeRGBA is ShadeColor on a parsed color. Alpha is preserved.
func ShadeRGBA(c color.RGBA, percent float64) color.RGBA {
	target := 255.0
	if percent < 0 {
		target = 0
	}
	p := math.Min(math.Abs(percent)/100, 1)
	shade := func(ch uint8) uint8 {
		v := float64(ch)
		return uint8(math.Floor((target-v)*p+0.5) + v)
	}
	return color.RGBA{R: shade(c.R), G: shade(c.G), B: shade(c.B), A: c.A}
}
