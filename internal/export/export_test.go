package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/render"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

// stubRenderer returns a tiny image and records which headline it saw.
type stubRenderer struct {
	mu       sync.Mutex
	seen     []carousel.SlideType
	failType carousel.SlideType
}

var _ render.Renderer = (*stubRenderer)(nil)

func (r *stubRenderer) Render(_ *theme.Variant, c carousel.Content, _ carousel.GlobalSettings) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, c.Type)
	if c.Type == r.failType {
		return nil, errors.New("boom")
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	return store.New(theme.MustBuiltin(), store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}))
}

func TestAllRendersInOrderAndRestoresActive(t *testing.T) {
	s := newStore(t)
	require.True(t, s.SetActiveSlide("s2"))
	r := &stubRenderer{}

	pages, err := New(r, nil).All(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, []carousel.SlideType{carousel.TypeIntro, carousel.TypeContent, carousel.TypeCTA}, r.seen)
	assert.Equal(t, "untitled-carousel-slide-1.png", pages[0].Name)
	assert.Equal(t, "s3", pages[2].SlideID)
	assert.Equal(t, "s2", s.ActiveSlideID())

	_, err = png.Decode(bytes.NewReader(pages[0].PNG))
	require.NoError(t, err)
}

func TestAllAbortsOnFirstFailure(t *testing.T) {
	s := newStore(t)
	require.True(t, s.SetActiveSlide("s1"))
	r := &stubRenderer{failType: carousel.TypeContent}

	_, err := New(r, nil).All(context.Background(), s)
	require.Error(t, err)

	var renderErr *carouselerrors.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "s2", renderErr.SlideID)
	assert.Len(t, r.seen, 2)
	assert.Equal(t, "s1", s.ActiveSlideID())
}

func TestAllHonoursCancellation(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &stubRenderer{}
	_, err := New(r, nil).All(ctx, s)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.seen)
}

func TestSlideUnknownID(t *testing.T) {
	_, err := New(&stubRenderer{}, nil).Slide(newStore(t), "missing")
	var renderErr *carouselerrors.RenderError
	require.ErrorAs(t, err, &renderErr)
}

func TestWriteFilesAndBundle(t *testing.T) {
	s := newStore(t)
	s.UpdateProjectName("My Deck!")
	e := New(&stubRenderer{}, nil)
	dir := t.TempDir()

	paths, err := e.WriteFiles(context.Background(), s, filepath.Join(dir, "out"))
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
	assert.Equal(t, "my-deck-slide-2.png", filepath.Base(paths[1]))

	bundle, err := e.WriteBundle(context.Background(), s, dir)
	require.NoError(t, err)
	assert.Equal(t, "my-deck-bundle.zip", filepath.Base(bundle))

	zr, err := zip.OpenReader(bundle)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"my-deck-slide-1.png", "my-deck-slide-2.png", "my-deck-slide-3.png"}, names)
}

func TestNamesFallBackToCarousel(t *testing.T) {
	p := carousel.NewProject("x", "  ", theme.FallbackID)
	assert.Equal(t, "carousel-slide-4.png", PageName(p, 4))
	assert.Equal(t, "carousel-bundle.zip", BundleName(nil))
}

func TestRasterEndToEnd(t *testing.T) {
	raster, err := render.NewRaster()
	require.NoError(t, err)
	s := newStore(t)

	data, err := New(raster, nil).Slide(s, "s1")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1080, 1350), img.Bounds())
}
