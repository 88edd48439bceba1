package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/schema"
	"github.com/BillMorio/LinkedIn-Carousel/pkg/diff"
)

type validateOptions struct {
	Path   string
	Strict bool
	Diff   bool
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a project file can be imported",
		Long: `Validate runs the same checks as an import. Unknown themes are reported and
replaced by the fallback theme; unknown slide types reject the file. Empty
required fields are listed as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runValidate(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Treat empty required fields as errors")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Show how importing would rewrite the file")

	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, opts validateOptions) error {
	app, err := root.load(cmd, "validate")
	if err != nil {
		return err
	}

	original, err := projectio.ReadFile(opts.Path)
	if err != nil {
		return newCommandError("validate project", "reading "+opts.Path, err, "Check the path and file permissions.")
	}
	adapter := app.adapter()
	p, err := adapter.Decode(original)
	if err != nil {
		return newCommandError("validate project", opts.Path, err, "Fix the reported problem; unknown slide types reject the whole file.")
	}

	out := cmd.OutOrStdout()
	th := app.registry.Get(p.ThemeID)
	fmt.Fprintf(out, "%s: %s, theme %s, %d slides\n", opts.Path, valueOrFallback(p.Name, "(no name)"), th.ID, len(p.Slides))

	warnings := 0
	for i, slide := range p.Slides {
		v := th.ResolveVariant(slide.Type, slide.VariantID)
		if v == nil {
			continue
		}
		for _, issue := range schema.Check(v.Editor.Fields, slide.Content) {
			fmt.Fprintf(out, "  slide %d (%s): %s\n", i+1, slide.Type, issue)
			warnings++
		}
	}

	if opts.Diff {
		normalised, err := adapter.Encode(p)
		if err != nil {
			return newCommandError("validate project", "encoding the normalised project", err, "This is a bug; please report it.")
		}
		if d := diff.Unified(original, normalised, opts.Path, opts.Path+" (normalised)"); d != "" {
			inserted, deleted := diff.Changed(original, normalised)
			fmt.Fprintf(out, "\nImport rewrites %d line(s) and adds %d:\n%s", deleted, inserted, d)
		} else {
			fmt.Fprintln(out, "Import leaves the file unchanged")
		}
	}

	if warnings == 0 {
		fmt.Fprintln(out, "OK")
		return nil
	}
	fmt.Fprintf(out, "%d warning(s)\n", warnings)
	if opts.Strict {
		return newCommandError("validate project", opts.Path, fmt.Errorf("%d required field(s) are empty", warnings), "Fill the listed fields or drop --strict.")
	}
	return nil
}
