package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/pkg/ui"
)

var (
	configPathOnly bool
	configEdit     bool
	configInit     bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the ivc configuration",
	Long: `Show the effective configuration, or open the config file in $EDITOR.

  ivc config           Print the effective settings
  ivc config --path    Print the config file location
  ivc config --edit    Open the config file (created with defaults if missing)`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configPathOnly, "path", false, "Print the config file path")
	configCmd.Flags().BoolVar(&configEdit, "edit", false, "Open the config file in $EDITOR")
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write a config file with the current settings")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appPaths.ConfigPath

	if configPathOnly {
		fmt.Println(path)
		return nil
	}

	if configInit || configEdit {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := appConfig.Save(path); err != nil {
				return err
			}
			fmt.Println(ui.FormatSuccess("Created config: " + path))
		}
	}

	if configEdit {
		fmt.Println(ui.FormatInfo("Opening config: " + path))

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	}

	if configInit {
		return nil
	}

	printConfig()
	return nil
}

func printConfig() {
	cfg := appConfig
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted(appPaths.ConfigPath))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("title", cfg.Title))
	fmt.Println(ui.RenderKeyValue("palette", strings.Join(cfg.Palette, ", ")))
	fmt.Println(ui.RenderKeyValue("marker_size", strconv.Itoa(cfg.MarkerSize)))
	fmt.Println(ui.RenderKeyValue("chart_size", fmt.Sprintf("%dx%d", cfg.ChartWidth, cfg.ChartHeight)))
	fmt.Println(ui.RenderKeyValue("default_format", cfg.DefaultFormat))
	fmt.Println(ui.RenderKeyValue("output_dir", orNone(cfg.OutputDir)))
	fmt.Println(ui.RenderKeyValue("open_after_render", strconv.FormatBool(cfg.OpenAfterRender)))
	fmt.Println(ui.RenderKeyValue("viewer", orNone(cfg.Viewer)))
	fmt.Println(ui.RenderKeyValue("parse_errors", cfg.ParseErrors))
	fmt.Println(ui.RenderKeyValue("color_theme", cfg.ColorTheme))
	fmt.Println(ui.RenderKeyValue("watch_debounce_ms", strconv.Itoa(cfg.WatchDebounceMS)))
	fmt.Println(ui.RenderKeyValue("server.addr", cfg.Server.Addr))
	fmt.Println(ui.RenderKeyValue("server.max_upload_mb", strconv.Itoa(cfg.Server.MaxUploadMB)))
	fmt.Println(ui.RenderKeyValue("server.read_timeout_seconds", strconv.Itoa(cfg.Server.ReadTimeoutSeconds)))
	fmt.Println(ui.RenderKeyValue("server.log_level", cfg.Server.LogLevel))
}

func orNone(s string) string {
	if s == "" {
		return ui.FormatMuted("(none)")
	}
	return s
}
