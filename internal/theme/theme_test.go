package theme

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	carouselerrors "github.com/BillMorio/LinkedIn-Carousel/pkg/errors"
)

const minimalTheme = `
id: mini
name: Mini
description: test theme
defaultColors: { primary: "#000000", accent: "#111111", background: "#FFFFFF" }
variants:
  INTRO:
    - id: only
      name: Only
      editorConfig:
        fields:
          - { key: headline, type: text, label: Headline, required: true }
        defaultContent:
          headline: Hello
          styles:
            headline: { fontSize: 64px }
  CONTENT:
    - id: only
      name: Only
      editorConfig:
        fields: []
        defaultContent: {}
  CTA:
    - id: only
      name: Only
      editorConfig:
        fields: []
        defaultContent:
          type: CTA
          ctaText: Bye
`

func mustDecode(t *testing.T, doc string) *Theme {
	t.Helper()
	th, err := Decode("test.yaml", []byte(doc))
	require.NoError(t, err)
	return th
}

func TestBuiltinThemes(t *testing.T) {
	t.Parallel()

	reg, err := Builtin()
	require.NoError(t, err)

	assert.Equal(t, []string{"execution-steps", "playground", "sales-stack", "tool-workflow"}, reg.IDs())
	assert.Equal(t, FallbackID, reg.Fallback().ID)

	playground, ok := reg.Lookup("playground")
	require.True(t, ok)
	for _, st := range carousel.SlideTypes() {
		assert.Len(t, playground.Variants[st], 2, st)
	}
	assert.Equal(t, "magazine-cover", playground.FirstVariant(carousel.TypeIntro).ID)
}

func TestBuiltinDefaultContentSatisfiesSchema(t *testing.T) {
	t.Parallel()

	reg := MustBuiltin()
	for _, th := range reg.List() {
		for _, st := range carousel.SlideTypes() {
			for _, v := range th.Variants[st] {
				issues := schema.Check(v.Editor.Fields, v.Defaults(st))
				assert.Empty(t, issues, "%s/%s/%s", th.ID, st, v.ID)
			}
		}
	}
}

func TestBuiltinToolWorkflowDefaults(t *testing.T) {
	t.Parallel()

	th := MustBuiltin().Get("tool-workflow")
	v := th.FirstVariant(carousel.TypeContent)
	require.NotNil(t, v)

	var tools []carousel.Tool
	found, err := v.Editor.DefaultContent.Decode("tools", &tools)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []carousel.Tool{{Name: "Zapier", Icon: "zap"}, {Name: "OpenAI", Icon: "bot"}}, tools)
	assert.Equal(t, "3", v.Editor.DefaultContent.String("pillText"))
}

func TestBuiltinReturnsIndependentRegistries(t *testing.T) {
	t.Parallel()

	a := MustBuiltin()
	b := MustBuiltin()
	require.NoError(t, a.Register(mustDecode(t, minimalTheme)))

	_, ok := b.Lookup("mini")
	assert.False(t, ok)
}

func TestGetFallsBack(t *testing.T) {
	t.Parallel()

	reg := MustBuiltin()
	assert.Equal(t, "sales-stack", reg.Get("sales-stack").ID)
	assert.Equal(t, FallbackID, reg.Get("does-not-exist").ID)
	assert.Equal(t, FallbackID, reg.Get("").ID)

	_, ok := reg.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestResolveVariant(t *testing.T) {
	t.Parallel()

	th := MustBuiltin().Get("playground")

	assert.Equal(t, "minimal-tech", th.ResolveVariant(carousel.TypeCTA, "minimal-tech").ID)
	assert.Equal(t, "profile-spotlight", th.ResolveVariant(carousel.TypeCTA, "nope").ID)
	assert.Equal(t, "profile-spotlight", th.ResolveVariant(carousel.TypeCTA, "").ID)
	assert.Nil(t, th.ResolveVariant("BOGUS", ""))

	_, ok := th.Variant(carousel.TypeIntro, "minimal-tech")
	assert.False(t, ok)
}

func TestDecodeMinimalTheme(t *testing.T) {
	t.Parallel()

	th := mustDecode(t, minimalTheme)
	require.NoError(t, th.Validate())

	intro := th.FirstVariant(carousel.TypeIntro)
	content := intro.Defaults(carousel.TypeIntro)
	assert.Equal(t, carousel.TypeIntro, content.Type)
	assert.Equal(t, "Hello", content.Fields.String("headline"))
	assert.JSONEq(t, `{"headline":{"fontSize":"64px"}}`, string(content.Fields[carousel.KeyStyles]))

	cta := th.FirstVariant(carousel.TypeCTA).Defaults(carousel.TypeCTA)
	assert.False(t, cta.Fields.Has(carousel.KeyType))

	f, ok := intro.Field("headline")
	require.True(t, ok)
	assert.True(t, f.Required)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := Decode("bad.yaml", []byte("id: x\nname: X\nflavour: mint\n"))
	require.Error(t, err)

	var parseErr *carouselerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.yaml", parseErr.Path)
	assert.Equal(t, 3, parseErr.Line)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(th *Theme)
	}{
		{"missing id", func(th *Theme) { th.ID = "" }},
		{"bad palette", func(th *Theme) { th.DefaultColors.Accent = "not a colour" }},
		{"missing slide type", func(th *Theme) { delete(th.Variants, carousel.TypeCTA) }},
		{"unknown slide type", func(th *Theme) { th.Variants["OUTRO"] = th.Variants[carousel.TypeCTA] }},
		{"duplicate variant", func(th *Theme) {
			th.Variants[carousel.TypeIntro] = append(th.Variants[carousel.TypeIntro], th.Variants[carousel.TypeIntro][0])
		}},
		{"unknown field kind", func(th *Theme) {
			th.Variants[carousel.TypeIntro][0].Editor.Fields[0].Kind = "slider"
		}},
		{"duplicate field key", func(th *Theme) {
			v := th.Variants[carousel.TypeIntro][0]
			v.Editor.Fields = append(v.Editor.Fields, v.Editor.Fields[0])
		}},
		{"mismatched default type", func(th *Theme) {
			v := th.Variants[carousel.TypeCTA][0]
			v.Editor.DefaultContent[carousel.KeyType] = []byte(`"INTRO"`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := MustBuiltin()
			th := mustDecode(t, minimalTheme)
			tt.mutate(th)

			err := reg.Register(th)
			require.Error(t, err)
			var themeErr *carouselerrors.ThemeError
			assert.ErrorAs(t, err, &themeErr)
		})
	}
}

func TestRegisterRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	reg := MustBuiltin()
	require.NoError(t, reg.Register(mustDecode(t, minimalTheme)))
	assert.Error(t, reg.Register(mustDecode(t, minimalTheme)))
	assert.Error(t, reg.Register(nil))
}

func TestNewRegistryFromRequiresFallback(t *testing.T) {
	t.Parallel()

	_, err := NewRegistryFrom([]*Theme{mustDecode(t, minimalTheme)}, FallbackID)
	assert.Error(t, err)

	_, err = NewRegistry(nil)
	assert.Error(t, err)
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"themes/mini.yaml":   {Data: []byte(minimalTheme)},
		"themes/README.md":   {Data: []byte("ignored")},
		"themes/nested/x.md": {Data: []byte("ignored")},
	}

	themes, err := LoadFS(fsys, "themes")
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, "mini", themes[0].ID)

	reg, err := NewRegistryFrom(themes, "mini")
	require.NoError(t, err)
	assert.Equal(t, "mini", reg.Get("anything").ID)
}
