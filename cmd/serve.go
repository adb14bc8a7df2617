package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/adapters/render"
	"github.com/kamal-hamza/ivc/internal/adapters/web"
	"github.com/kamal-hamza/ivc/pkg/logging"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web viewer",
	Long: `Serve the browser UI: upload .csv/.txt files, pick the X and Y columns,
toggle |Y| and log10, and explore the interactive chart.

Nothing is stored on the server; each form submit re-runs the whole pipeline.

Endpoints:
  GET  /          upload form
  POST /plot      chart page
  POST /api/plot  JSON result
  GET  /healthz   liveness
  GET  /metrics   Prometheus metrics

Settings come from the config file and IVC_ADDR, IVC_MAX_UPLOAD_MB,
IVC_READ_TIMEOUT_SECONDS, IVC_LOG_LEVEL.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	addr := appConfig.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	logger := logging.Init(appConfig.Server.LogLevel)
	logger.Info("starting ivc web viewer",
		slog.String("addr", addr),
		slog.String("parse_errors", appConfig.ParseErrors),
		slog.Int("max_upload_mb", appConfig.Server.MaxUploadMB),
	)

	renderer := render.NewEChartsRenderer(render.OptionsFromConfig(appConfig))
	server := web.NewServer(plotService, renderer, logger, web.Options{
		MaxUploadBytes: int64(appConfig.Server.MaxUploadMB) << 20,
		ReadTimeout:    time.Duration(appConfig.Server.ReadTimeoutSeconds) * time.Second,
		ChartHeight:    appConfig.ChartHeight,
	})

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Serving on http://%s", addr)))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	return server.ListenAndServe(ctx, addr)
}
