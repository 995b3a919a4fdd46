package brand

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/poiesic/designkit/core"
)

// relativeLuminance implements the WCAG 2.x relative-luminance formula
// over sRGB channels.
func relativeLuminance(c colorful.Color) float64 {
	lin := func(ch float64) float64 {
		if ch <= 0.03928 {
			return ch / 12.92
		}
		return math.Pow((ch+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two hex colors,
// in the range [1, 21]. Returns 0 when either color fails to parse.
func ContrastRatio(fg, bg string) float64 {
	cf, err := colorful.Hex(fg)
	if err != nil {
		return 0
	}
	cb, err := colorful.Hex(bg)
	if err != nil {
		return 0
	}
	lf := relativeLuminance(cf)
	lb := relativeLuminance(cb)
	lighter, darker := lf, lb
	if darker > lighter {
		lighter, darker = darker, lighter
	}
	return (lighter + 0.05) / (darker + 0.05)
}

// Lighten raises a hex color's HSL lightness by amount (0..1). Invalid
// input is returned unchanged.
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, math.Min(1, l+amount)).Clamped().Hex()
}

// Darken lowers a hex color's HSL lightness by amount (0..1). Invalid
// input is returned unchanged.
func Darken(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, math.Max(0, l-amount)).Clamped().Hex()
}

// Palette derives light and dark variants for every valid color role in
// the profile. Keys are "<role>", "<role>-light", "<role>-dark".
func Palette(profile *core.BrandProfile) map[string]string {
	if profile == nil {
		return nil
	}
	out := make(map[string]string, len(profile.Colors)*3)
	for role, hex := range profile.Colors {
		if !core.IsHexColor(hex) {
			continue
		}
		out[role] = hex
		out[role+"-light"] = Lighten(hex, 0.2)
		out[role+"-dark"] = Darken(hex, 0.2)
	}
	return out
}
