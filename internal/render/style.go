package render

import (
	"image/color"
	"strconv"
	"strings"
)

var namedColors = map[string]color.RGBA{
	"black":       {A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, A: 255},
	"green":       {G: 128, A: 255},
	"blue":        {B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"orange":      {R: 255, G: 165, A: 255},
	"transparent": {},
}

// parseColor understands hex notation and a few named colours. Other CSS
// forms report false.
func parseColor(value string) (color.RGBA, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[value]; ok {
		return c, true
	}
	if !strings.HasPrefix(value, "#") {
		return color.RGBA{}, false
	}

	hex := value[1:]
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.RGBA{}, false
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, true
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, true
}

func colorOr(value string, fallback color.RGBA) color.RGBA {
	if c, ok := parseColor(value); ok {
		return c
	}
	return fallback
}

// withOpacity scales alpha (and the premultiplied channels) by opacity.
func withOpacity(c color.RGBA, opacity *float64) color.RGBA {
	if opacity == nil {
		return c
	}
	o := *opacity
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * o),
		G: uint8(float64(c.G) * o),
		B: uint8(float64(c.B) * o),
		A: uint8(float64(c.A) * o),
	}
}

// luminance returns the relative brightness of c in [0,1].
func luminance(c color.RGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

// contrastText picks black or white text for background bg.
func contrastText(bg color.RGBA) color.RGBA {
	if luminance(bg) > 0.6 {
		return color.RGBA{R: 17, G: 17, B: 17, A: 255}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

// parseLength converts px, rem and em lengths to pixels. Unitless numbers
// are pixels; percentages and other units report false.
func parseLength(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	scale := 1.0
	switch {
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "rem"):
		value = strings.TrimSuffix(value, "rem")
		scale = 16
	case strings.HasSuffix(value, "em"):
		value = strings.TrimSuffix(value, "em")
		scale = 16
	case strings.HasSuffix(value, "pt"):
		value = strings.TrimSuffix(value, "pt")
		scale = 4.0 / 3.0
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return n * scale, true
}

func lengthOr(value string, fallback float64) float64 {
	if n, ok := parseLength(value); ok {
		return n
	}
	return fallback
}

// isBold reports whether a CSS font weight asks for a bold face.
func isBold(weight string) bool {
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	default:
		return false
	}
}
