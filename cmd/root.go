package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/adapters/opener"
	"github.com/kamal-hamza/ivc/internal/adapters/parser"
	"github.com/kamal-hamza/ivc/internal/adapters/repository"
	"github.com/kamal-hamza/ivc/internal/core/services"
	"github.com/kamal-hamza/ivc/pkg/config"
	"github.com/kamal-hamza/ivc/pkg/paths"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

var (
	appPaths  *paths.Paths
	appConfig *config.Config

	// Services
	loadService *services.LoadService
	plotService *services.PlotService

	// Adapters
	fileSource   *repository.FileSource
	systemOpener *opener.SystemOpener
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ivc",
	Short: "ivc - overlay I-V curves from delimited files",
	Long: ui.StyleTitle.Render("ivc") + " - I-V Curve Viewer\n\n" +
		"Load current-voltage measurements from .csv/.txt files, pick the X and Y\n" +
		"columns, optionally take |Y| or log10(|Y|), and overlay one trace per file.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and runs it.
// Ctrl+C cancels the command context so watch and serve shut down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.FormatError(err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and wires services
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	appPaths = p

	cfg, err := config.Load(appPaths.ConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(appConfig.ColorTheme)

	fileSource = repository.NewFileSource()
	systemOpener = opener.NewSystemOpener(appConfig.Viewer)
	loadService, plotService = newServices(appConfig)

	return nil
}

// newServices builds the pipeline from config
func newServices(cfg *config.Config) (*services.LoadService, *services.PlotService) {
	loader := services.NewLoadService(parser.NewDelimitedParser(), cfg.AbortOnParseError())
	overlay := services.NewOverlayService(cfg.Palette, cfg.Title)
	return loader, services.NewPlotService(loader, overlay)
}

// getContext returns the command context, falling back to Background
func getContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
