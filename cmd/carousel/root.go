package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BillMorio/LinkedIn-Carousel/internal/config"
	"github.com/BillMorio/LinkedIn-Carousel/internal/domain/carousel"
	"github.com/BillMorio/LinkedIn-Carousel/internal/logger"
	"github.com/BillMorio/LinkedIn-Carousel/internal/projectio"
	"github.com/BillMorio/LinkedIn-Carousel/internal/theme"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
}

// appContext is what every command needs once flags are parsed.
type appContext struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *theme.Registry
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "carousel",
		Short:         "Build LinkedIn carousels from themed, field-driven slides",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a carousel.yaml configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(newNewCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newThemesCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newInlineImagesCmd(flags))
	cmd.AddCommand(newEditCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// load reads configuration, applies flag overrides and builds the logger
// and theme registry.
func (f *rootFlags) load(cmd *cobra.Command, operation string) (*appContext, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, newCommandError(operation, "loading configuration", err, "Check carousel.yaml and CAROUSEL_* environment variables.")
	}
	if f.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(f.logLevel)
	}
	if f.logJSON {
		cfg.Logging.Format = "json"
	}

	log, err := logger.New(logger.Options{
		Level:         cfg.Logging.Level,
		HumanReadable: cfg.HumanReadable(),
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, newCommandError(operation, "creating logger", err, "Use one of debug, info, warn or error for --log-level.")
	}

	reg, err := theme.Builtin()
	if err != nil {
		return nil, newCommandError(operation, "loading themes", err, "This is a bug in the built-in theme data.")
	}

	return &appContext{cfg: cfg, log: log.WithComponent("command." + operation), registry: reg}, nil
}

func (a *appContext) adapter() *projectio.Adapter {
	return projectio.New(a.registry, projectio.WithLogger(a.log))
}

func (a *appContext) loadProject(operation, path string) (*carousel.Project, error) {
	p, err := a.adapter().Load(path)
	if err != nil {
		return nil, newCommandError(operation, "reading project "+path, err, "Run 'carousel validate "+path+"' for details.")
	}
	return p, nil
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
