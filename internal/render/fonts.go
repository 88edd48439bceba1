package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// faceKey identifies a face by size and style.
type faceKey struct {
	size   float64
	bold   bool
	italic bool
}

// faceCache parses the bundled Go fonts once and caches faces per size.
type faceCache struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	italic  *opentype.Font
	faces   map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse italic font: %w", err)
	}
	return &faceCache{
		regular: regular,
		bold:    bold,
		italic:  italic,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// face returns a face for size in pixels.
func (fc *faceCache) face(size float64, bold, italic bool) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	key := faceKey{size: size, bold: bold, italic: italic}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if f, ok := fc.faces[key]; ok {
		return f, nil
	}

	src := fc.regular
	switch {
	case bold:
		src = fc.bold
	case italic:
		src = fc.italic
	}

	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	fc.faces[key] = f
	return f, nil
}
