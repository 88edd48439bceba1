package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
)

type newOptions struct {
	Path  string
	Name  string
	Theme string
	Empty bool
	Force bool
}

func newNewCmd(root *rootFlags) *cobra.Command {
	opts := newOptions{}

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a starter carousel project",
		Long: `New writes a project with an intro, a content and a call-to-action slide,
seeded from the theme's default content. Use --empty for a project without
slides.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runNew(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "Theme id (defaults to project.theme from the configuration)")
	cmd.Flags().BoolVar(&opts.Empty, "empty", false, "Create the project without slides")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing file")

	return cmd
}

func runNew(cmd *cobra.Command, root *rootFlags, opts newOptions) error {
	app, err := root.load(cmd, "new")
	if err != nil {
		return err
	}

	if !opts.Force {
		if _, err := os.Stat(opts.Path); err == nil {
			return newCommandError("create project", opts.Path, errors.New("file already exists"), "Pass --force to overwrite it.")
		}
	}

	themeID := valueOrFallback(opts.Theme, app.cfg.Project.Theme)
	if _, ok := app.registry.Lookup(themeID); !ok {
		return newCommandError("create project", fmt.Sprintf("selecting theme %q", themeID), errors.New("unknown theme"), "Run 'carousel themes' to list available themes.")
	}

	s := store.New(app.registry, store.WithLogger(app.log))
	if opts.Empty || themeID != s.Project().ThemeID {
		s.Reset(carousel.NewProject(store.DefaultProjectID, "", themeID))
		if !opts.Empty {
			for _, t := range carousel.SlideTypes() {
				if _, err := s.AddSlide(t, nil); err != nil {
					return newCommandError("create project", "seeding slides", err, "This is a bug; please report it.")
				}
			}
		}
	}
	if opts.Name != "" {
		s.UpdateProjectName(opts.Name)
	}
	if err := s.SetAspectRatio(carousel.AspectRatio(app.cfg.Project.AspectRatio)); err != nil {
		return newCommandError("create project", "applying the default aspect ratio", err, "Set project.aspect_ratio to square or portrait.")
	}

	data, err := s.ExportProject()
	if err != nil {
		return newCommandError("create project", "encoding project", err, "This is a bug; please report it.")
	}
	if err := projectio.WriteFile(opts.Path, data); err != nil {
		return newCommandError("create project", "writing "+opts.Path, err, "Check that the directory is writable.")
	}

	p := s.Project()
	app.log.WithFields(map[string]any{"path": opts.Path, "theme": themeID, "slides": len(p.Slides)}).Info("project created")
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, %d slides)\n", opts.Path, p.Name, len(p.Slides))
	return nil
}
