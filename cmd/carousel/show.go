package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

type showOptions struct {
	jsonOutput bool
}

func newShowCmd(root *rootFlags) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show a summary of a carousel project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, root, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the summary as JSON")

	return cmd
}

type showSlide struct {
	Position int                `json:"position"`
	ID       string             `json:"id"`
	Type     carousel.SlideType `json:"type"`
	Variant  string             `json:"variant"`
	Headline string             `json:"headline"`
}

type showJSONPayload struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Theme       string               `json:"theme"`
	AspectRatio carousel.AspectRatio `json:"aspectRatio"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Slides      []showSlide          `json:"slides"`
}

func runShow(cmd *cobra.Command, root *rootFlags, path string, opts *showOptions) error {
	app, err := root.load(cmd, "show")
	if err != nil {
		return err
	}

	p, err := app.loadProject("show project", path)
	if err != nil {
		return err
	}

	payload := summarize(p, app.registry.Get(p.ThemeID))
	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	out := cmd.OutOrStdout()
	bullet := "-"
	if supportsUnicode(out) {
		bullet = "•"
	}
	fmt.Fprintf(out, "Project: %s\n", valueOrFallback(payload.Name, "(no name)"))
	fmt.Fprintf(out, "ID:      %s\n", payload.ID)
	fmt.Fprintf(out, "Theme:   %s\n", payload.Theme)
	fmt.Fprintf(out, "Canvas:  %s (%dx%d)\n", payload.AspectRatio, payload.Width, payload.Height)
	fmt.Fprintf(out, "\nSlides:\n")
	if len(payload.Slides) == 0 {
		fmt.Fprintf(out, "  (none)\n")
	}
	for _, s := range payload.Slides {
		fmt.Fprintf(out, "  %s %d. %-7s %-18s %s\n", bullet, s.Position, s.Type, s.Variant, valueOrFallback(s.Headline, "(empty)"))
	}
	return nil
}

func summarize(p *carousel.Project, th *theme.Theme) showJSONPayload {
	dims := p.GlobalSettings.AspectRatio.Dimensions()
	payload := showJSONPayload{
		ID:          p.ID,
		Name:        p.Name,
		Theme:       th.ID,
		AspectRatio: p.GlobalSettings.AspectRatio,
		Width:       dims.Width,
		Height:      dims.Height,
		Slides:      make([]showSlide, 0, len(p.Slides)),
	}
	for i, slide := range p.Slides {
		variant := slide.VariantID
		if v := th.ResolveVariant(slide.Type, slide.VariantID); v != nil {
			variant = v.ID
		}
		payload.Slides = append(payload.Slides, showSlide{
			Position: i + 1,
			ID:       slide.ID,
			Type:     slide.Type,
			Variant:  variant,
			Headline: slide.Content.Headline(),
		})
	}
	return payload
}
