package projectio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

func newAdapter(t *testing.T) *Adapter {
	t.Helper()
	n := 0
	return New(theme.MustBuiltin(), WithIDGenerator(func() string {
		n++
		return "gen-" + string(rune('a'+n-1))
	}))
}

func requireImportError(t *testing.T, err error, index int, contains string) {
	t.Helper()
	require.Error(t, err)
	var importErr *carouselerrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, index, importErr.Index)
	assert.Contains(t, importErr.Error(), contains)
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"not json", `{{`, "JSON object"},
		{"array", `[1,2]`, "JSON object"},
		{"null", `null`, "JSON object"},
		{"missing themeId", `{"slides":[]}`, "themeId"},
		{"numeric themeId", `{"themeId":4,"slides":[]}`, "themeId"},
		{"empty themeId", `{"themeId":"","slides":[]}`, "themeId"},
		{"missing slides", `{"themeId":"x"}`, "slides"},
		{"slides not array", `{"themeId":"x","slides":{}}`, "slides"},
		{"settings not object", `{"themeId":"x","slides":[],"globalSettings":"dark"}`, "globalSettings"},
		{"settings array", `{"themeId":"x","slides":[],"globalSettings":[]}`, "globalSettings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := newAdapter(t).Decode([]byte(tt.input))
			assert.Nil(t, p)
			requireImportError(t, err, -1, tt.contains)
		})
	}
}

func TestDecodeRejectsWholeImportOnUnknownSlideType(t *testing.T) {
	t.Parallel()

	input := `{"themeId":"execution-steps","slides":[{"type":"INTRO"},{"type":"CTA"},{"type":"BOGUS"}]}`
	p, err := newAdapter(t).Decode([]byte(input))
	assert.Nil(t, p)
	requireImportError(t, err, 2, "slide 2")

	_, err = newAdapter(t).Decode([]byte(`{"themeId":"execution-steps","slides":["oops"]}`))
	requireImportError(t, err, 0, "object")

	_, err = newAdapter(t).Decode([]byte(`{"themeId":"execution-steps","slides":[{"type":"CTA","content":"nope"}]}`))
	requireImportError(t, err, 0, "content")
}

func TestDecodeUnknownThemeFallsBack(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log, err := logger.New(logger.Options{Level: "debug", Writer: &logs})
	require.NoError(t, err)

	a := New(theme.MustBuiltin(), WithLogger(log))
	input := `{"themeId":"does-not-exist","slides":[{"type":"INTRO","variantId":"magazine-cover","content":{"headline":"Hi"}}]}`

	p, err := a.Decode([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, theme.FallbackID, p.ThemeID)
	require.Len(t, p.Slides, 1)
	assert.Equal(t, "default", p.Slides[0].VariantID)
	assert.Equal(t, "Hi", p.Slides[0].Content.Fields.String("headline"))
	assert.Equal(t, "New Guide", p.Slides[0].Content.Fields.String("badgeText"))
	assert.Contains(t, logs.String(), "does-not-exist")
}

func TestDecodeDefaultsMissingFields(t *testing.T) {
	t.Parallel()

	input := `{"themeId":"tool-workflow","slides":[{"type":"CONTENT","order":7,"content":{"type":"INTRO","title":"Mine"}},{"type":"CTA"}]}`
	p, err := newAdapter(t).Decode([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "gen-a", p.ID)
	assert.Equal(t, carousel.DefaultProjectName, p.Name)
	assert.Equal(t, carousel.DefaultGlobalSettings(), p.GlobalSettings)

	require.Len(t, p.Slides, 2)
	first := p.Slides[0]
	assert.Equal(t, "gen-b", first.ID)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, carousel.TypeContent, first.Content.Type)
	assert.Equal(t, "Mine", first.Content.Fields.String("title"))
	assert.Equal(t, "Auto-generate content for your needs", first.Content.Fields.String("subtitle"))
	require.NotNil(t, first.AIContext)
	assert.Equal(t, "One agent or process with the tools it uses and its workflow.", first.AIContext.Purpose)

	assert.Equal(t, 1, p.Slides[1].Order)
	assert.True(t, p.OrderConsistent())
}

func TestDecodeKeepsImportedIdentityAndSettings(t *testing.T) {
	t.Parallel()

	input := `{
		"id":"proj","name":"Mine","themeId":"playground",
		"globalSettings":{"brandColor":"#000000","aspectRatio":"square"},
		"slides":[{"id":"s1","type":"CTA","variantId":"minimal-tech","content":{},"aiContext":{"purpose":"custom","mood":"calm"}}]
	}`
	p, err := newAdapter(t).Decode([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, "proj", p.ID)
	assert.Equal(t, "Mine", p.Name)
	assert.Equal(t, "#000000", p.GlobalSettings.BrandColor)
	assert.Equal(t, "#FED7AA", p.GlobalSettings.AccentColor)
	assert.Equal(t, carousel.AspectSquare, p.GlobalSettings.AspectRatio)

	slide := p.Slides[0]
	assert.Equal(t, "s1", slide.ID)
	assert.Equal(t, "minimal-tech", slide.VariantID)
	assert.Equal(t, "custom", slide.AIContext.Purpose)
	assert.Equal(t, `"calm"`, string(slide.AIContext.Extra["mood"]))
}

const styledThemeYAML = `
id: styled
name: Styled
defaultColors: { primary: "#000000", accent: "#111111", background: "#FFFFFF" }
variants:
  INTRO:
    - id: v
      name: V
      editorConfig:
        fields: []
        defaultContent:
          headline: Default
          styles:
            headline: { fontSize: 64px }
            subtitle: { color: "#fff" }
          sectionStyles:
            header: { gap: 8px }
  CONTENT:
    - { id: v, name: V, editorConfig: { fields: [], defaultContent: {} } }
  CTA:
    - { id: v, name: V, editorConfig: { fields: [], defaultContent: {} } }
`

// styledRegistry adds a theme whose INTRO defaults carry style maps.
func styledRegistry(t *testing.T) *theme.Registry {
	t.Helper()
	reg := theme.MustBuiltin()
	styled, err := theme.Decode("styled.yaml", []byte(styledThemeYAML))
	require.NoError(t, err)
	require.NoError(t, reg.Register(styled))
	return reg
}

func TestDecodeMergesStyleMapsKeyByKey(t *testing.T) {
	t.Parallel()

	reg := styledRegistry(t)

	input := `{"themeId":"styled","slides":[{"type":"INTRO","content":{
		"styles":{"headline":{"fontWeight":"900"},"extra":{"opacity":0.5}},
		"unknownKey":[1,2,3]
	}}]}`
	p, err := New(reg).Decode([]byte(input))
	require.NoError(t, err)

	c := p.Slides[0].Content
	assert.JSONEq(t, `{"headline":{"fontWeight":"900"},"subtitle":{"color":"#fff"},"extra":{"opacity":0.5}}`, string(c.Fields[carousel.KeyStyles]))
	assert.JSONEq(t, `{"header":{"gap":"8px"}}`, string(c.Fields[carousel.KeySectionStyles]))
	assert.Equal(t, "Default", c.Fields.String("headline"))
	assert.Equal(t, "[1,2,3]", string(c.Fields["unknownKey"]))
}

func TestDecodeRecoversPanics(t *testing.T) {
	t.Parallel()

	a := New(theme.MustBuiltin(), WithIDGenerator(func() string { panic("boom") }))
	p, err := a.Decode([]byte(`{"themeId":"execution-steps","slides":[]}`))
	assert.Nil(t, p)
	requireImportError(t, err, -1, "boom")
}

func TestEncodeStampsDimensionsOnCopy(t *testing.T) {
	t.Parallel()

	p := carousel.NewProject("p", "Deck", theme.FallbackID)
	p.Slides = []carousel.Slide{{ID: "s1", Type: carousel.TypeCTA, Content: carousel.NewContent(carousel.TypeCTA, nil)}}

	data, err := Encode(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""))

	var out struct {
		GlobalSettings struct {
			Dimensions carousel.Dimensions `json:"dimensions"`
		} `json:"globalSettings"`
		Slides []struct {
			Content   map[string]any `json:"content"`
			AIContext struct {
				RecommendedDimensions carousel.Dimensions `json:"recommendedDimensions"`
			} `json:"aiContext"`
		} `json:"slides"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, carousel.Dimensions{Width: 1080, Height: 1350}, out.GlobalSettings.Dimensions)
	assert.Equal(t, carousel.Dimensions{Width: 1080, Height: 1350}, out.Slides[0].AIContext.RecommendedDimensions)
	assert.Equal(t, "CTA", out.Slides[0].Content["type"])

	assert.Nil(t, p.GlobalSettings.Dimensions)
	assert.Nil(t, p.Slides[0].AIContext)

	p.GlobalSettings.AspectRatio = carousel.AspectSquare
	data, err = Encode(p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 1080, out.GlobalSettings.Dimensions.Height)
}

func TestImportOfExportIsStable(t *testing.T) {
	t.Parallel()

	a := newAdapter(t)
	input := `{"id":"p","name":"Deck","themeId":"sales-stack","slides":[
		{"id":"a","type":"INTRO","content":{"mainTitle":"Stack","styles":{"mainTitle":{"fontSize":"80px"}},"future":{"x":1}}},
		{"id":"b","type":"CONTENT","variantId":"missing"},
		{"id":"c","type":"CTA","aiContext":{"tone":"warm"}}
	]}`

	first, err := a.Decode([]byte(input))
	require.NoError(t, err)

	exported, err := a.Encode(first)
	require.NoError(t, err)
	second, err := a.Decode(exported)
	require.NoError(t, err)

	reexported, err := a.Encode(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(exported), string(reexported))

	for i := range first.Slides {
		assert.True(t, first.Slides[i].Content.Equal(second.Slides[i].Content), "slide %d", i)
		assert.Equal(t, first.Slides[i].VariantID, second.Slides[i].VariantID)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "launch-week-2025.json", FileName(&carousel.Project{Name: "  Launch Week: 2025!"}))
	assert.Equal(t, "carousel.json", FileName(&carousel.Project{Name: "***"}))
	assert.Equal(t, "carousel.json", FileName(nil))
}

func TestWriteFileAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deck.json")
	a := newAdapter(t)

	p := carousel.NewProject("p", "Deck", "tool-workflow")
	require.NoError(t, a.Save(path, p))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := a.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Deck", loaded.Name)
	assert.Equal(t, "tool-workflow", loaded.ThemeID)

	_, err = a.Load(filepath.Join(dir, "missing.json"))
	var parseErr *carouselerrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeDefaultsInvalidSettingsKeyByKey(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log, err := logger.New(logger.Options{Level: "warn", Writer: &logs})
	require.NoError(t, err)

	input := `{"themeId":"execution-steps","slides":[],"globalSettings":{
		"brandColor":"",
		"accentColor":"#000000",
		"backgroundColor":"linear-gradient(red, blue)",
		"fontFamily":12,
		"aspectRatio":"landscape"
	}}`
	p, err := New(theme.MustBuiltin(), WithLogger(log)).Decode([]byte(input))
	require.NoError(t, err)

	defaults := carousel.DefaultGlobalSettings()
	assert.Equal(t, defaults.BrandColor, p.GlobalSettings.BrandColor)
	assert.Equal(t, "#000000", p.GlobalSettings.AccentColor)
	assert.Equal(t, defaults.BackgroundColor, p.GlobalSettings.BackgroundColor)
	assert.Equal(t, defaults.FontFamily, p.GlobalSettings.FontFamily)
	assert.Equal(t, defaults.AspectRatio, p.GlobalSettings.AspectRatio)
	require.NoError(t, p.GlobalSettings.Validate())

	for _, key := range []string{"brandColor", "backgroundColor", "fontFamily", "aspectRatio"} {
		assert.Contains(t, logs.String(), key)
	}
	assert.NotContains(t, logs.String(), "accentColor")
}

func TestDecodeEmptyBrandColorImports(t *testing.T) {
	t.Parallel()

	p, err := newAdapter(t).Decode([]byte(`{"themeId":"x","slides":[],"globalSettings":{"brandColor":""}}`))
	require.NoError(t, err)
	assert.Equal(t, carousel.DefaultGlobalSettings().BrandColor, p.GlobalSettings.BrandColor)
}

func TestDecodeReassignsDuplicateSlideIDs(t *testing.T) {
	t.Parallel()

	input := `{"themeId":"execution-steps","slides":[
		{"id":"same","type":"INTRO"},
		{"id":"same","type":"CONTENT"},
		{"id":"other","type":"CTA"},
		{"id":"same","type":"CTA"}
	]}`
	p, err := newAdapter(t).Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, p.Slides, 4)

	ids := map[string]bool{}
	for _, s := range p.Slides {
		ids[s.ID] = true
	}
	assert.Len(t, ids, 4)
	assert.Equal(t, "same", p.Slides[0].ID)
	assert.Equal(t, "other", p.Slides[2].ID)
	assert.Equal(t, 1, p.IndexOf(p.Slides[1].ID))
	assert.Equal(t, 3, p.IndexOf(p.Slides[3].ID))
}

func TestDecodeWarnsWhenStyleMapIsNotAnObject(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log, err := logger.New(logger.Options{Level: "warn", Writer: &logs})
	require.NoError(t, err)

	input := `{"themeId":"styled","slides":[{"type":"INTRO","content":{"styles":[]}}]}`
	p, err := New(styledRegistry(t), WithLogger(log)).Decode([]byte(input))
	require.NoError(t, err)

	assert.JSONEq(t, `{"headline":{"fontSize":"64px"},"subtitle":{"color":"#fff"}}`, string(p.Slides[0].Content.Fields[carousel.KeyStyles]))
	assert.Contains(t, logs.String(), "style map is not an object")
	assert.Contains(t, logs.String(), carousel.KeyStyles)
}

func TestDecodeKeepsSlidesWithMistypedStyles(t *testing.T) {
	t.Parallel()

	input := `{"themeId":"execution-steps","slides":[{"type":"INTRO","content":{"headline":"Hi","styles":{"headline":{"fontSize":48}}}}]}`
	p, err := newAdapter(t).Decode([]byte(input))
	require.NoError(t, err)

	c := p.Slides[0].Content
	shape, err := c.Shape()
	require.NoError(t, err)
	assert.Equal(t, "Hi", shape.Headline())
	assert.JSONEq(t, `{"fontSize":48}`, string(mustStyleEntry(t, c, "headline")))
}

func mustStyleEntry(t *testing.T, c carousel.Content, key string) json.RawMessage {
	t.Helper()
	var styles map[string]json.RawMessage
	_, err := c.Fields.Decode(carousel.KeyStyles, &styles)
	require.NoError(t, err)
	return styles[key]
}
