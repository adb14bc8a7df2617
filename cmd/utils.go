package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"golang.org/x/term"

	"github.com/kamal-hamza/ivc/internal/adapters/render"
	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
	"github.com/kamal-hamza/ivc/pkg/config"
	"github.com/kamal-hamza/ivc/pkg/paths"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

// isInteractive reports whether both stdin and stdout are terminals
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveFormat picks the output format: flag, then output extension, then config
func resolveFormat(flag, output string) (string, error) {
	if flag != "" {
		format := strings.ToLower(flag)
		if !config.IsValidFormat(format) {
			return "", fmt.Errorf("unsupported format %q (expected html or png)", flag)
		}
		return format, nil
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		return config.FormatPNG, nil
	case ".html", ".htm":
		return config.FormatHTML, nil
	}

	return appConfig.DefaultFormat, nil
}

// newRenderer builds the renderer for a format using the configured chart size
func newRenderer(format string) (ports.ChartRenderer, error) {
	return render.New(format, render.OptionsFromConfig(appConfig))
}

// writeChart renders the chart to path, creating parent directories
func writeChart(ctx context.Context, renderer ports.ChartRenderer, chart *domain.Chart, path string) error {
	if err := paths.EnsureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := renderer.Render(ctx, f, chart); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// pickColumn asks the user to choose a column with the fuzzy finder
func pickColumn(axis string, columns domain.ColumnUniverse, other string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("no columns found in the given files")
	}

	idx, err := fuzzyfinder.Find(
		columns,
		func(i int) string { return columns[i] },
		fuzzyfinder.WithPromptString(axis+" column> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			preview := fmt.Sprintf("%s axis\n\nColumn: %s", axis, columns[i])
			if other != "" {
				preview += "\nOther axis: " + other
			}
			return preview
		}),
	)
	if err != nil {
		return "", fmt.Errorf("no %s column selected", axis)
	}
	return columns[idx], nil
}

// printDiagnostics writes one styled line per diagnostic
func printDiagnostics(ds domain.Diagnostics) {
	if len(ds) == 0 {
		return
	}
	fmt.Println(ui.FormatDiagnostics(ds))
}

// printSeries writes a legend line per drawn series
func printSeries(chart *domain.Chart) {
	if len(chart.Series) == 0 {
		fmt.Println(ui.FormatWarning("No file has both columns; the chart is empty"))
		return
	}
	for _, s := range chart.Series {
		fmt.Println("  " + ui.FormatSeries(s))
	}
}
