// Package editor is the terminal carousel editor: a slide list, a per-slide
// field list driven by the variant schema, and single-field text editing.
package editor

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
	"github.com/BillMorio/LinkedIn-Carousel/internal/tui/components"
)

// Model is the editor state. The project itself lives in the store; the
// model only tracks cursors and transient UI state.
type Model struct {
	store *store.Store
	path  string

	viewMode    ViewMode
	cursor      int
	fieldCursor int

	input      textinput.Model
	spinner    spinner.Model
	completion components.Completion

	saving    bool
	dirty     bool
	status    string
	showError bool
	errorMsg  string

	confirmAction  string
	confirmMessage string

	width  int
	height int
}

// NewModel creates an editor over s that saves to path.
func NewModel(s *store.Store, path string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 2000

	m := Model{
		store:      s,
		path:       path,
		input:      in,
		spinner:    sp,
		completion: components.NewCompletion(20),
		width:      80,
		height:     24,
	}

	if id := s.ActiveSlideID(); id != "" {
		if idx := s.Project().IndexOf(id); idx >= 0 {
			m.cursor = idx
		}
	}
	m.syncActive()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Dirty reports unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

// Cursor returns the selected slide index.
func (m Model) Cursor() int {
	return m.cursor
}

// Mode returns the current view mode.
func (m Model) Mode() ViewMode {
	return m.viewMode
}

func (m Model) slides() []carousel.Slide {
	return m.store.Project().Slides
}

// selectedSlide returns the slide under the cursor.
func (m Model) selectedSlide() (carousel.Slide, bool) {
	slides := m.slides()
	if m.cursor < 0 || m.cursor >= len(slides) {
		return carousel.Slide{}, false
	}
	return slides[m.cursor], true
}

// syncActive makes the slide under the cursor the store's active slide.
func (m *Model) syncActive() {
	if slide, ok := m.selectedSlide(); ok {
		m.store.SetActiveSlide(slide.ID)
	}
}

func (m *Model) clampCursor() {
	n := len(m.slides())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// variant resolves the variant of the selected slide.
func (m Model) variant() (*theme.Variant, bool) {
	slide, ok := m.selectedSlide()
	if !ok {
		return nil, false
	}
	v := m.store.Theme().ResolveVariant(slide.Type, slide.VariantID)
	return v, v != nil
}

func (m Model) fields() []schema.Field {
	v, ok := m.variant()
	if !ok {
		return nil
	}
	return v.Editor.Fields
}

func (m Model) selectedField() (schema.Field, bool) {
	fields := m.fields()
	if m.fieldCursor < 0 || m.fieldCursor >= len(fields) {
		return schema.Field{}, false
	}
	return fields[m.fieldCursor], true
}

// requiredFilled counts the required fields of every slide and how many of
// them have a value.
func (m Model) requiredFilled() (filled, total int) {
	th := m.store.Theme()
	for _, slide := range m.slides() {
		v := th.ResolveVariant(slide.Type, slide.VariantID)
		if v == nil {
			continue
		}
		required := map[string]bool{}
		for _, f := range v.Editor.Fields {
			if f.Required {
				required[f.Key] = true
			}
		}
		total += len(required)
		filled += len(required)
		for _, issue := range schema.Check(v.Editor.Fields, slide.Content) {
			if required[issue.Field] {
				filled--
				delete(required, issue.Field)
			}
		}
	}
	return filled, total
}

func (m *Model) fail(msg string) {
	m.showError = true
	m.errorMsg = msg
}

func (m *Model) clearError() {
	m.showError = false
	m.errorMsg = ""
}

// textual reports whether a kind is edited with the single-line input.
func textual(k schema.Kind) bool {
	switch k {
	case schema.KindText, schema.KindTextarea, schema.KindImage, schema.KindColor:
		return true
	default:
		return false
	}
}
