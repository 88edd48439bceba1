package editor

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SavedMsg:
		m.saving = false
		m.dirty = false
		m.status = fmt.Sprintf("Saved %s", msg.Path)
		return m, nil

	case SaveErrorMsg:
		m.saving = false
		m.fail(fmt.Sprintf("Save failed: %s", msg.Err))
		return m, nil

	case ErrorMsg:
		m.fail(msg.Message)
		return m, nil

	case ClearErrorMsg:
		m.clearError()
		return m, nil
	}

	return m, nil
}

// handleKeyPress routes keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" && m.viewMode != ViewEdit {
		return m.save()
	}

	switch m.viewMode {
	case ViewSlides:
		return m.handleSlideKeys(msg)
	case ViewFields:
		return m.handleFieldKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	default:
		return m, nil
	}
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, saveCmd(m.store, m.path))
}

// handleSlideKeys handles keys in the slide list
func (m Model) handleSlideKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.slides())

	switch msg.String() {
	case "q":
		if m.dirty {
			m.confirmAction = "quit"
			m.confirmMessage = "Discard unsaved changes and quit?"
			m.viewMode = ViewConfirm
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
			m.syncActive()
		}
		return m, nil

	case "down", "j":
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
			m.syncActive()
		}
		return m, nil

	case "K", "shift+up":
		if m.store.ReorderSlides(m.cursor, m.cursor-1) && m.cursor > 0 {
			m.cursor--
			m.dirty = true
		}
		return m, nil

	case "J", "shift+down":
		if m.store.ReorderSlides(m.cursor, m.cursor+1) && m.cursor < n-1 {
			m.cursor++
			m.dirty = true
		}
		return m, nil

	case "1", "2", "3":
		t := carousel.SlideTypes()[msg.String()[0]-'1']
		if _, err := m.store.AddSlide(t, nil); err != nil {
			m.fail(err.Error())
			return m, nil
		}
		m.cursor = len(m.slides()) - 1
		m.dirty = true
		m.status = fmt.Sprintf("Added %s slide", t)
		return m, nil

	case "d", "delete":
		slide, ok := m.selectedSlide()
		if !ok {
			return m, nil
		}
		m.confirmAction = "remove"
		m.confirmMessage = fmt.Sprintf("Remove slide %d (%s)?", m.cursor+1, slide.Type)
		m.viewMode = ViewConfirm
		return m, nil

	case "v":
		m.cycleVariant()
		return m, nil

	case "t":
		m.cycleTheme()
		return m, nil

	case "enter":
		if _, ok := m.selectedSlide(); ok {
			m.fieldCursor = 0
			m.viewMode = ViewFields
		}
		return m, nil

	case "?":
		m.viewMode = ViewHelp
		return m, nil

	case "esc", "x":
		m.clearError()
		return m, nil
	}

	return m, nil
}

// handleFieldKeys handles keys in the field list of one slide
func (m Model) handleFieldKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.fields())

	switch msg.String() {
	case "esc", "backspace", "q":
		m.viewMode = ViewSlides
		m.clearError()
		return m, nil

	case "up", "k":
		if n > 0 {
			m.fieldCursor = (m.fieldCursor - 1 + n) % n
		}
		return m, nil

	case "down", "j":
		if n > 0 {
			m.fieldCursor = (m.fieldCursor + 1) % n
		}
		return m, nil

	case "enter":
		f, ok := m.selectedField()
		if !ok {
			return m, nil
		}
		if !textual(f.Kind) {
			m.fail(fmt.Sprintf("%s fields are edited with + and -, or in the project file", f.Kind))
			return m, nil
		}
		slide, _ := m.selectedSlide()
		value, err := schema.Read(slide.Content, f)
		if err != nil {
			m.fail(err.Error())
			return m, nil
		}
		current, _ := value.(string)
		m.input.SetValue(current)
		m.input.Placeholder = f.Placeholder
		m.input.CursorEnd()
		m.clearError()
		m.viewMode = ViewEdit
		return m, m.input.Focus()

	case "+", "=":
		m.changeItems(func(c carousel.Content, f schema.Field) (carousel.Fields, error) {
			if !schema.CanAddItem(c, f) {
				return nil, fmt.Errorf("%s already has the maximum number of items", f.Label)
			}
			return schema.AppendItem(c, f)
		})
		return m, nil

	case "-":
		m.changeItems(func(c carousel.Content, f schema.Field) (carousel.Fields, error) {
			count, err := schema.ItemCount(c, f)
			if err != nil {
				return nil, err
			}
			if count == 0 {
				return nil, fmt.Errorf("%s has no items to remove", f.Label)
			}
			return schema.RemoveItem(c, f, count-1)
		})
		return m, nil

	case "?":
		m.viewMode = ViewHelp
		return m, nil
	}

	return m, nil
}

// handleEditKeys handles keys while the text input is focused
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.viewMode = ViewFields
		return m, nil

	case "enter":
		m.commitInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleHelpKeys handles keys in the help overlay
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.viewMode = ViewSlides
	}
	return m, nil
}

// handleConfirmKeys handles keys in the confirmation dialog
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirmAction
		m.confirmAction = ""
		m.confirmMessage = ""
		m.viewMode = ViewSlides

		switch action {
		case "quit":
			return m, tea.Quit
		case "remove":
			if slide, ok := m.selectedSlide(); ok && m.store.RemoveSlide(slide.ID) {
				m.dirty = true
				m.clampCursor()
				m.syncActive()
				m.status = "Slide removed"
			}
		}
		return m, nil

	case "n", "N", "esc":
		m.confirmAction = ""
		m.confirmMessage = ""
		m.viewMode = ViewSlides
		return m, nil
	}
	return m, nil
}

// commitInput validates the input against the selected field and applies it.
func (m *Model) commitInput() {
	f, ok := m.selectedField()
	slide, okSlide := m.selectedSlide()
	if !ok || !okSlide {
		m.viewMode = ViewFields
		return
	}

	patch, err := schema.Write(slide.Content, f, m.input.Value())
	if err != nil {
		m.fail(err.Error())
		return
	}
	m.store.UpdateSlideContent(slide.ID, patch)
	m.dirty = true
	m.status = fmt.Sprintf("Updated %s", f.Label)
	m.input.Blur()
	m.clearError()
	m.viewMode = ViewFields
}

func (m *Model) changeItems(fn func(carousel.Content, schema.Field) (carousel.Fields, error)) {
	f, ok := m.selectedField()
	slide, okSlide := m.selectedSlide()
	if !ok || !okSlide {
		return
	}
	if !schema.Repeatable(f.Kind) {
		m.fail(fmt.Sprintf("%s is not a list", f.Label))
		return
	}
	patch, err := fn(slide.Content, f)
	if err != nil {
		m.fail(err.Error())
		return
	}
	m.store.UpdateSlideContent(slide.ID, patch)
	m.dirty = true
	m.clearError()
}

func (m *Model) cycleVariant() {
	slide, ok := m.selectedSlide()
	if !ok {
		return
	}
	variants := m.store.Theme().Variants[slide.Type]
	if len(variants) < 2 {
		m.status = "Only one layout for this slide type"
		return
	}
	next := 0
	for i, v := range variants {
		if v.ID == slide.VariantID {
			next = (i + 1) % len(variants)
			break
		}
	}
	if m.store.SetSlideVariant(slide.ID, variants[next].ID) {
		m.dirty = true
		m.status = fmt.Sprintf("Layout: %s", variants[next].Name)
	}
}

func (m *Model) cycleTheme() {
	ids := m.store.Registry().IDs()
	if len(ids) == 0 {
		return
	}
	current := m.store.Project().ThemeID
	next := 0
	for i, id := range ids {
		if id == current {
			next = (i + 1) % len(ids)
			break
		}
	}
	m.store.SetTheme(ids[next])
	m.dirty = true
	m.status = fmt.Sprintf("Theme: %s", m.store.Theme().Name)
}
