package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"net/url"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
)

// canvas tracks the output image and a vertical cursor inside the content
// box [left,right] x [y,bottom].
type canvas struct {
	img   *image.RGBA
	faces *faceCache
	scale float64

	fg     color.RGBA
	brand  color.RGBA
	accent color.RGBA

	left, right float64
	y, bottom   float64
}

type textRole struct {
	size  float64
	bold  bool
	color *color.RGBA
}

func (cv *canvas) full() bool {
	return cv.y >= cv.bottom
}

func (cv *canvas) fill(r image.Rectangle, c color.RGBA) {
	xdraw.Draw(cv.img, r, &image.Uniform{C: c}, image.Point{}, xdraw.Over)
}

// text draws wrapped text at the cursor and advances it.
func (cv *canvas) text(s string, role textRole, style carousel.ElementStyle) error {
	size := lengthOr(style.FontSize, role.size) * cv.scale
	bold := role.bold || isBold(style.FontWeight)
	italic := style.FontStyle == "italic"

	face, err := cv.faces.face(size, bold, italic)
	if err != nil {
		return err
	}

	col := cv.fg
	if role.color != nil {
		col = *role.color
	}
	col = withOpacity(colorOr(style.Color, col), style.Opacity)

	lineHeight := face.Metrics().Height.Ceil()
	if lh, ok := parseLength(style.LineHeight); ok && lh > 0 {
		if lh < 4 {
			lineHeight = int(lh * size)
		} else {
			lineHeight = int(lh * cv.scale)
		}
	}

	maxWidth := int(cv.right - cv.left)
	if w, ok := parseLength(style.Width); ok && int(w*cv.scale) < maxWidth {
		maxWidth = int(w * cv.scale)
	}

	for _, paragraph := range strings.Split(s, "\n") {
		for _, line := range wrapWords(face, paragraph, maxWidth) {
			cv.y += float64(lineHeight)
			if cv.y > cv.bottom+float64(lineHeight) {
				return nil
			}
			d := &font.Drawer{
				Dst:  cv.img,
				Src:  &image.Uniform{C: col},
				Face: face,
				Dot:  fixed.P(int(cv.left), int(cv.y)),
			}
			d.DrawString(line)
		}
	}
	cv.y += size * 0.35
	return nil
}

// wrapWords greedily breaks text into lines no wider than maxWidth. A word
// wider than maxWidth gets a line of its own.
func wrapWords(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

// picture draws src as a side x side square at the cursor. Sources that are
// not inline data, or fail to decode, become a placeholder block.
func (cv *canvas) picture(src string, side float64, opacity *float64) {
	cv.imageAt(src, int(cv.left), int(cv.y), int(side), opacity)
	cv.y += side + 16*cv.scale
}

func (cv *canvas) imageAt(src string, x, y, side int, opacity *float64) {
	dst := image.Rect(x, y, x+side, y+side)
	img, ok := decodeDataURI(src)
	if !ok {
		cv.fill(dst, withOpacity(cv.accent, opacity))
		return
	}
	xdraw.CatmullRom.Scale(cv.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

// iconGrid lays icons out left to right, wrapping at the right edge.
func (cv *canvas) iconGrid(srcs []string, size, gap float64) {
	if len(srcs) == 0 {
		return
	}
	x := cv.left
	rowTop := cv.y
	for _, src := range srcs {
		if x+size > cv.right {
			x = cv.left
			rowTop += size + gap
		}
		cv.imageAt(src, int(x), int(rowTop), int(size), nil)
		x += size + gap
	}
	cv.y = rowTop + size + gap
}

// pills draws short labels inside brand-coloured boxes on one wrapping row.
func (cv *canvas) pills(labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	size := 26 * cv.scale
	face, err := cv.faces.face(size, true, false)
	if err != nil {
		return err
	}
	pad := 14 * cv.scale
	height := float64(face.Metrics().Height.Ceil()) + pad
	text := contrastText(cv.brand)

	x := cv.left
	for _, label := range labels {
		width := float64(font.MeasureString(face, label).Ceil()) + 2*pad
		if x+width > cv.right && x > cv.left {
			x = cv.left
			cv.y += height + pad
		}
		cv.fill(image.Rect(int(x), int(cv.y), int(x+width), int(cv.y+height)), cv.brand)
		d := &font.Drawer{
			Dst:  cv.img,
			Src:  &image.Uniform{C: text},
			Face: face,
			Dot:  fixed.P(int(x+pad), int(cv.y+height-pad/2-float64(face.Metrics().Descent.Ceil()))),
		}
		d.DrawString(label)
		x += width + pad
	}
	cv.y += height + 2*pad
	return nil
}

// decodeDataURI decodes a base64 or percent-encoded data:image URI.
func decodeDataURI(src string) (image.Image, bool) {
	if !strings.HasPrefix(src, "data:image/") {
		return nil, false
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, false
	}

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, false
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, false
		}
		data = []byte(unescaped)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	return img, true
}
