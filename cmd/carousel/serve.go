package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BillMorio/LinkedIn-Carousel/internal/export"
	"github.com/BillMorio/LinkedIn-Carousel/internal/httpapi"
	"github.com/BillMorio/LinkedIn-Carousel/internal/render"
	"github.com/BillMorio/LinkedIn-Carousel/internal/store"
)

type serveOptions struct {
	Addr    string
	Project string
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the project over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (defaults to server.addr)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Project file to load at startup")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootFlags, opts serveOptions) error {
	app, err := root.load(cmd, "serve")
	if err != nil {
		return err
	}

	storeOpts := []store.Option{store.WithLogger(app.log)}
	if opts.Project != "" {
		p, err := app.loadProject("start server", opts.Project)
		if err != nil {
			return err
		}
		storeOpts = append(storeOpts, store.WithProject(p))
	}
	s := store.New(app.registry, storeOpts...)

	raster, err := render.NewRaster(render.WithPixelRatio(app.cfg.Export.PixelRatio))
	if err != nil {
		return newCommandError("start server", "loading fonts", err, "This is a bug; please report it.")
	}

	serverCfg := app.cfg.Server
	if opts.Addr != "" {
		serverCfg.Addr = opts.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(serverCfg, s, export.New(raster, app.log), app.log)
	if err := srv.ListenAndServe(ctx); err != nil {
		return newCommandError("start server", "listening on "+serverCfg.Addr, err, "Pick a free address with --addr.")
	}
	return nil
}
