package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
)

// saveCmd exports the project and writes it atomically to path
func saveCmd(s *store.Store, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := s.ExportProject()
		if err != nil {
			return SaveErrorMsg{Err: err}
		}
		if err := projectio.WriteFile(path, data); err != nil {
			return SaveErrorMsg{Err: err}
		}
		return SavedMsg{Path: path}
	}
}
