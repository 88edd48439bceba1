package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
)

func TestViewSlides(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()

	assert.Contains(t, out, carousel.DefaultProjectName)
	assert.Contains(t, out, "Execution Steps")
	assert.Contains(t, out, "How to Build a Carousel Builder")
	assert.Contains(t, out, "CTA")
	assert.Contains(t, out, "ctrl+s save")
}

func TestViewFieldsAndHelp(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	out := m.View()
	assert.Contains(t, out, "Slide 1")
	assert.Contains(t, out, "Main Headline")

	m = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "Keys")
}

func TestViewMarksDirtyAndErrors(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, runes("3"), ErrorMsg{Message: "something broke"})

	out := m.View()
	assert.Contains(t, out, "*")
	assert.Contains(t, out, "something broke")

	m = press(t, m, ClearErrorMsg{})
	assert.NotContains(t, m.View(), "something broke")
}

func TestPreview(t *testing.T) {
	c := carousel.NewContent(carousel.TypeIntro, carousel.MustFields(map[string]any{
		"headline": "a   very\nlong headline that keeps going and going past the limit",
		"image":    "data:image/png;base64,AA==",
		"steps":    []any{map[string]any{"title": "x"}},
	}))

	assert.Equal(t, "—", preview(c, schema.Field{Key: "missing", Kind: schema.KindText, Label: "M"}))
	assert.Equal(t, "inline image", preview(c, schema.Field{Key: "image", Kind: schema.KindImage, Label: "I"}))
	assert.Equal(t, "1 items", preview(c, schema.Field{Key: "steps", Kind: schema.KindSteps, Label: "S"}))
	assert.Equal(t, "default", preview(c, schema.Field{Key: "hero", Kind: schema.KindSectionControls, Label: "H"}))

	got := preview(c, schema.Field{Key: "headline", Kind: schema.KindText, Label: "H"})
	assert.Equal(t, 40, len([]rune(got)))
	assert.Contains(t, got, "a very long headline")
}

func TestRequiredFilledDropsWhenFieldCleared(t *testing.T) {
	m, s := newTestModel(t)
	filled, total := m.requiredFilled()
	assert.Positive(t, total)

	s.UpdateSlideContent("s1", carousel.MustFields(map[string]any{"headline": ""}))
	after, sameTotal := m.requiredFilled()
	assert.Equal(t, total, sameTotal)
	assert.Equal(t, filled-1, after)
	assert.Contains(t, m.View(), "required")
}
