package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

type themesOptions struct {
	jsonOutput bool
}

func newThemesCmd(root *rootFlags) *cobra.Command {
	opts := &themesOptions{}

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List the available themes and their layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemes(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the full theme definitions as JSON")

	return cmd
}

func runThemes(cmd *cobra.Command, root *rootFlags, opts *themesOptions) error {
	app, err := root.load(cmd, "themes")
	if err != nil {
		return err
	}

	themes := app.registry.List()
	if opts.jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(themes)
	}

	out := cmd.OutOrStdout()
	marker := "*"
	if supportsUnicode(out) {
		marker = "★"
	}
	for _, th := range themes {
		name := th.Name
		if th.ID == theme.FallbackID {
			name += " " + marker
		}
		fmt.Fprintf(out, "%s (%s)\n", name, th.ID)
		if th.Description != "" {
			fmt.Fprintf(out, "  %s\n", th.Description)
		}
		for _, st := range carousel.SlideTypes() {
			for _, v := range th.Variants[st] {
				fmt.Fprintf(out, "  %-8s %-20s %s\n", st, v.ID, v.Name)
			}
		}
	}
	fmt.Fprintf(out, "\n%s fallback for unknown theme ids\n", marker)
	return nil
}
