package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/config"
	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/export"
	"github.com/BillMorio/LinkedIn-Carousel/internal/imageinline"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/render"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

type exportOptions struct {
	Path         string
	OutDir       string
	Zip          bool
	InlineImages bool
	PixelRatio   float64
}

func newExportCmd(root *rootFlags) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render every slide to PNG",
		Long: `Export rasterises the slides in deck order, one at a time, and writes one
PNG per slide or a single ZIP bundle. The first slide that fails to render
aborts the export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runExport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "Output directory (defaults to export.dir from the configuration)")
	cmd.Flags().BoolVar(&opts.Zip, "zip", false, "Write a single ZIP bundle instead of loose PNG files")
	cmd.Flags().BoolVar(&opts.InlineImages, "inline-images", false, "Download remote images and embed them before rendering")
	cmd.Flags().Float64Var(&opts.PixelRatio, "pixel-ratio", 0, "Output scale factor (defaults to export.pixel_ratio)")

	return cmd
}

func runExport(cmd *cobra.Command, root *rootFlags, opts exportOptions) error {
	app, err := root.load(cmd, "export")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := app.loadProject("export slides", opts.Path)
	if err != nil {
		return err
	}

	if opts.InlineImages {
		inlined, stats, err := newInliner(app.cfg.Images, app.registry, app.log).Project(ctx, p)
		if err != nil {
			return newCommandError("export slides", "inlining images", err, "Retry, or export without --inline-images.")
		}
		p = inlined
		app.log.WithFields(map[string]any{"converted": stats.Converted, "failed": stats.Failed}).Info("images inlined")
	}

	ratio := opts.PixelRatio
	if ratio <= 0 {
		ratio = app.cfg.Export.PixelRatio
	}
	raster, err := render.NewRaster(render.WithPixelRatio(ratio))
	if err != nil {
		return newCommandError("export slides", "loading fonts", err, "This is a bug; please report it.")
	}

	outDir := valueOrFallback(opts.OutDir, app.cfg.Export.Dir)
	written, err := exportProject(ctx, export.New(raster, app.log), app.registry, p, app.log, outDir, opts.Zip)
	if err != nil {
		return newCommandError("export slides", opts.Path, err, "Fix the slide named in the error and try again.")
	}

	for _, path := range written {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func exportProject(ctx context.Context, exp *export.Exporter, reg *theme.Registry, p *carousel.Project, log *logger.Logger, dir string, zip bool) ([]string, error) {
	s := store.New(reg, store.WithProject(p), store.WithLogger(log))
	if zip {
		path, err := exp.WriteBundle(ctx, s, dir)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return exp.WriteFiles(ctx, s, dir)
}

func newInliner(cfg config.ImagesConfig, reg *theme.Registry, log *logger.Logger) *imageinline.Inliner {
	return imageinline.New(imageinline.Options{
		Timeout:     cfg.FetchTimeout,
		Concurrency: cfg.Concurrency,
		CacheTTL:    cfg.CacheTTL,
		Interval:    cfg.Interval,
		MaxBytes:    cfg.MaxImageBytes,
		Logger:      log,
		Keys:        imageinline.ImageKeys(reg),
	})
}
