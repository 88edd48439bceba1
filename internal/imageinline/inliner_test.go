package imageinline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	img := pngBytes(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/a.png", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(img)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello, not an image"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fastInliner() *Inliner {
	return New(Options{Interval: time.Millisecond, Timeout: 2 * time.Second})
}

func TestDataURIFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := fastInliner()

	uri, err := in.DataURI(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	again, err := in.DataURI(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, uri, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDataURIRejectsBadResponses(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := fastInliner()

	_, err := in.DataURI(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "status 404")

	_, err = in.DataURI(context.Background(), srv.URL+"/text")
	require.ErrorContains(t, err, "not an image")
}

func TestDataURIEnforcesSizeLimit(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := New(Options{Interval: time.Millisecond, MaxBytes: 8})

	_, err := in.DataURI(context.Background(), srv.URL+"/a.png")
	require.ErrorContains(t, err, "exceeds")
}

func TestContentRewritesImageKeysOnly(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := fastInliner()

	good := srv.URL + "/a.png"
	bad := srv.URL + "/missing"
	c := carousel.NewContent(carousel.TypeContent, carousel.MustFields(map[string]any{
		"profileImage": good,
		"logos":        []any{good, bad, "data:image/png;base64,AA=="},
		"tools":        []any{map[string]any{"name": "Go", "icon": good}},
		"headline":     good,
	}))

	out, stats, err := in.Content(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, Stats{Converted: 1, Failed: 1}, stats)
	assert.Equal(t, carousel.TypeContent, out.Type)

	assert.True(t, strings.HasPrefix(out.Fields.String("profileImage"), "data:image/png"))
	assert.Equal(t, good, out.Fields.String("headline"))

	var logos []string
	_, err = out.Fields.Decode("logos", &logos)
	require.NoError(t, err)
	require.Len(t, logos, 3)
	assert.True(t, strings.HasPrefix(logos[0], "data:image/png"))
	assert.Equal(t, bad, logos[1])
	assert.Equal(t, "data:image/png;base64,AA==", logos[2])

	var tools []carousel.Tool
	_, err = out.Fields.Decode("tools", &tools)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tools[0].Icon, "data:image/png"))

	assert.Equal(t, good, c.Fields.String("profileImage"), "input must not change")
	assert.Equal(t, int32(1), hits.Load())
}

func TestExtraKeys(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := New(Options{Interval: time.Millisecond, Keys: []string{"companyLogo"}})

	c := carousel.NewContent(carousel.TypeCTA, carousel.MustFields(map[string]any{"companyLogo": srv.URL + "/a.png"}))
	out, stats, err := in.Content(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)
	assert.True(t, strings.HasPrefix(out.Fields.String("companyLogo"), "data:"))
}

func TestProjectWorksOnCopy(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := fastInliner()

	p := carousel.NewProject("p", "Deck", theme.FallbackID)
	p.Slides = []carousel.Slide{{
		ID:      "s1",
		Type:    carousel.TypeCTA,
		Content: carousel.NewContent(carousel.TypeCTA, carousel.MustFields(map[string]any{"profileImage": srv.URL + "/a.png"})),
	}}

	out, stats, err := in.Project(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)
	assert.True(t, strings.HasPrefix(out.Slides[0].Content.Fields.String("profileImage"), "data:"))
	assert.Equal(t, srv.URL+"/a.png", p.Slides[0].Content.Fields.String("profileImage"))
}

func TestProjectCancelled(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	in := fastInliner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := carousel.NewProject("p", "Deck", theme.FallbackID)
	p.Slides = []carousel.Slide{{
		ID:      "s1",
		Type:    carousel.TypeCTA,
		Content: carousel.NewContent(carousel.TypeCTA, carousel.MustFields(map[string]any{"profileImage": srv.URL + "/a.png"})),
	}}

	_, _, err := in.Project(ctx, p)
	require.ErrorIs(t, err, context.Canceled)
}

func TestImageKeysFromThemes(t *testing.T) {
	keys := ImageKeys(theme.MustBuiltin())
	assert.Contains(t, keys, "profileImage")
	assert.IsNonDecreasing(t, keys)
}
