package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
)

// View renders the current screen
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.renderHeader())

	if m.showError && m.errorMsg != "" {
		sections = append(sections, errorBannerStyle.Render("✗ "+m.errorMsg))
	}

	switch m.viewMode {
	case ViewSlides:
		sections = append(sections, m.renderSlides())
	case ViewFields:
		sections = append(sections, m.renderFields())
	case ViewEdit:
		sections = append(sections, m.renderEdit())
	case ViewHelp:
		sections = append(sections, renderHelp())
	case ViewConfirm:
		sections = append(sections, dialogStyle.Render(m.confirmMessage+"\n\n"+mutedStyle.Render("y confirm • n cancel")))
	}

	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	p := m.store.Project()
	th := m.store.Theme()

	title := p.Name
	if strings.TrimSpace(title) == "" {
		title = carousel.DefaultProjectName
	}
	if m.dirty {
		title += " *"
	}

	meta := mutedStyle.Render(fmt.Sprintf("%s • %s • %d slides", th.Name, p.GlobalSettings.AspectRatio, len(p.Slides)))
	filled, total := m.requiredFilled()
	return headerStyle.Render(titleStyle.Render(title) + " " + meta + "\n" + m.completion.View(filled, total))
}

func (m Model) renderSlides() string {
	slides := m.slides()
	if len(slides) == 0 {
		return itemStyle.Render(mutedStyle.Render("No slides. Press 1, 2 or 3 to add one."))
	}

	th := m.store.Theme()
	lines := make([]string, 0, len(slides))
	for i, slide := range slides {
		layout := slide.VariantID
		if v := th.ResolveVariant(slide.Type, slide.VariantID); v != nil {
			layout = v.Name
		}
		headline := truncate(slide.Content.Headline(), 48)
		line := fmt.Sprintf("%2d %s %s %s", i+1, typeStyle.Render(fmt.Sprintf("%-7s", slide.Type)), headline, mutedStyle.Render("("+layout+")"))
		if i == m.cursor {
			lines = append(lines, selectedItemStyle.Render(line))
		} else {
			lines = append(lines, itemStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFields() string {
	slide, ok := m.selectedSlide()
	if !ok {
		return ""
	}
	fields := m.fields()
	if len(fields) == 0 {
		return itemStyle.Render(mutedStyle.Render("This layout has no editable fields."))
	}

	lines := []string{typeStyle.Render(fmt.Sprintf("Slide %d • %s", m.cursor+1, slide.Type))}
	for i, f := range fields {
		label := f.Label
		if f.Required {
			label += requiredStyle.Render("*")
		}
		line := fmt.Sprintf("%-22s %s", label, mutedStyle.Render(preview(slide.Content, f)))
		if i == m.fieldCursor {
			lines = append(lines, selectedItemStyle.Render(line))
		} else {
			lines = append(lines, itemStyle.Render(line))
		}
	}

	if issues := schema.Check(fields, slide.Content); len(issues) > 0 {
		lines = append(lines, "")
		for _, issue := range issues {
			lines = append(lines, requiredStyle.Render("! "+issue.String()))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderEdit() string {
	f, ok := m.selectedField()
	if !ok {
		return ""
	}
	lines := []string{typeStyle.Render(f.Label)}
	if f.HelpText != "" {
		lines = append(lines, mutedStyle.Render(f.HelpText))
	}
	lines = append(lines, m.input.View())
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	var hint string
	switch m.viewMode {
	case ViewSlides:
		hint = "↑/↓ select • enter edit • 1/2/3 add intro/content/cta • J/K move • d delete • v layout • t theme • ctrl+s save • ? help • q quit"
	case ViewFields:
		hint = "↑/↓ select • enter edit • +/- items • esc back • ctrl+s save"
	case ViewEdit:
		hint = "enter apply • esc cancel"
	default:
		hint = "esc back"
	}

	status := m.status
	if m.saving {
		status = m.spinner.View() + " Saving..."
	}
	if status != "" {
		return footerStyle.Render(statusStyle.Render(status) + "\n" + hint)
	}
	return footerStyle.Render(hint)
}

func renderHelp() string {
	rows := [][2]string{
		{"↑/↓ or k/j", "move the cursor"},
		{"enter", "open the slide's fields, or edit a field"},
		{"1 / 2 / 3", "add an intro, content or call-to-action slide"},
		{"K / J", "move the slide up or down"},
		{"d", "remove the slide"},
		{"v", "switch to the next layout of the slide"},
		{"t", "switch to the next theme"},
		{"+ / -", "add or remove a list item"},
		{"ctrl+s", "save the project file"},
		{"q", "quit"},
	}
	lines := []string{typeStyle.Render("Keys")}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("  %-12s %s", r[0], mutedStyle.Render(r[1])))
	}
	return strings.Join(lines, "\n")
}

// preview summarises a field value on one line.
func preview(c carousel.Content, f schema.Field) string {
	value, err := schema.Read(c, f)
	if err != nil {
		return "invalid: " + err.Error()
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return "—"
		}
		if strings.HasPrefix(v, "data:") {
			return "inline image"
		}
		return truncate(v, 40)
	case carousel.SectionStyle:
		if v == (carousel.SectionStyle{}) {
			return "default"
		}
		return "customised"
	default:
		count, err := schema.ItemCount(c, f)
		if err != nil {
			return "—"
		}
		return fmt.Sprintf("%d items", count)
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
