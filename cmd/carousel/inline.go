package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type inlineOptions struct {
	Path string
	Out  string
}

func newInlineImagesCmd(root *rootFlags) *cobra.Command {
	opts := inlineOptions{}

	cmd := &cobra.Command{
		Use:   "inline-images <file>",
		Short: "Replace remote image URLs with embedded data URIs",
		Long: `Inline-images downloads every remote image referenced by the project and
stores it as a data URI so the file renders offline. Images that cannot be
fetched keep their URL and are reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runInlineImages(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write the result here instead of overwriting the input file")

	return cmd
}

func runInlineImages(cmd *cobra.Command, root *rootFlags, opts inlineOptions) error {
	app, err := root.load(cmd, "inline-images")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := app.adapter()
	p, err := app.loadProject("inline images", opts.Path)
	if err != nil {
		return err
	}

	inlined, stats, err := newInliner(app.cfg.Images, app.registry, app.log).Project(ctx, p)
	if err != nil {
		return newCommandError("inline images", "fetching images", err, "Retry once the network is available.")
	}

	out := valueOrFallback(opts.Out, opts.Path)
	if err := adapter.Save(out, inlined); err != nil {
		return newCommandError("inline images", "writing "+out, err, "Check that the directory is writable.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inlined %d image(s), %d failed, wrote %s\n", stats.Converted, stats.Failed, out)
	return nil
}
