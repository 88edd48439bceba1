package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
	"github.com/BillMorio/LinkedIn-Carousel/internal/tui/editor"
)

func newEditCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Open the terminal editor",
		Long: `Edit opens the project in an interactive terminal editor. A missing file
starts from the starter project; ctrl+s writes it atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, root, args[0])
		},
	}

	return cmd
}

func runEdit(cmd *cobra.Command, root *rootFlags, path string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return newCommandError("open editor", "checking the terminal", errors.New("stdin is not a terminal"), "Run 'carousel edit' from an interactive shell.")
	}

	app, err := root.load(cmd, "edit")
	if err != nil {
		return err
	}

	opts := []store.Option{store.WithLogger(app.log)}
	if _, statErr := os.Stat(path); statErr == nil {
		p, err := app.loadProject("open editor", path)
		if err != nil {
			return err
		}
		opts = append(opts, store.WithProject(p))
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return newCommandError("open editor", "reading "+path, statErr, "Check the file permissions.")
	}

	s := store.New(app.registry, opts...)
	app.log.WithFields(map[string]any{"path": path, "slides": len(s.Project().Slides)}).Debug("launching editor")

	program := tea.NewProgram(editor.NewModel(s, path), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
