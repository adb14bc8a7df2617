package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/services"
	"github.com/kamal-hamza/ivc/pkg/paths"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

// plotFlags are the render options shared by plot, watch and explore
type plotFlags struct {
	x      string
	y      string
	abs    bool
	log    bool
	output string
	format string
	title  string
	open   bool
}

func (f *plotFlags) options() domain.PlotOptions {
	return domain.PlotOptions{
		XColumn:  strings.TrimSpace(f.x),
		YColumn:  strings.TrimSpace(f.y),
		ApplyAbs: f.abs,
		ApplyLog: f.log,
		Title:    f.title,
	}
}

func (f *plotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.x, "x", "x", "", "X axis column")
	cmd.Flags().StringVarP(&f.y, "y", "y", "", "Y axis column")
	cmd.Flags().BoolVar(&f.abs, "abs", false, "Plot the absolute value of Y")
	cmd.Flags().BoolVar(&f.log, "log", false, "Plot log10(|Y|); zero becomes a gap")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default iv-overlay.<format>)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: html or png (default from config)")
	cmd.Flags().StringVar(&f.title, "title", "", "Chart title")
	cmd.Flags().BoolVar(&f.open, "open", false, "Open the chart after rendering")
}

var (
	plotOpts plotFlags
	plotCopy bool
)

var plotCmd = &cobra.Command{
	Use:   "plot FILE|DIR...",
	Short: "Overlay I-V curves from files into one chart",
	Long: `Overlay one trace per file on a single chart.

Each file is a .csv or .txt table with a header row. Files that lack the
chosen X or Y column are skipped with a warning. Directories expand to the
.csv/.txt files they contain.

Without -x/-y on a terminal, a fuzzy picker lists every column found.

Examples:
  ivc plot sweep1.csv sweep2.csv -x V -y I
  ivc plot data/ -x Vg -y Id --log -f png -o transfer.png
  ivc plot *.txt --abs --open`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlot,
}

func init() {
	plotOpts.register(plotCmd)
	plotCmd.Flags().BoolVar(&plotCopy, "copy", false, "Copy the output path to the clipboard")
}

func runPlot(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	format, err := resolveFormat(plotOpts.format, plotOpts.output)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(format)
	if err != nil {
		return err
	}

	files, err := fileSource.Load(ctx, args)
	if err != nil {
		return err
	}

	opts := plotOpts.options()
	if !opts.HasSelection() {
		if err := chooseColumns(cmd, files, &opts); err != nil {
			return err
		}
	}

	resp, err := plotService.Execute(ctx, services.PlotRequest{Files: files, Options: opts})
	if err != nil {
		return err
	}

	printDiagnostics(resp.Diagnostics)
	if resp.Chart == nil {
		return nil
	}

	out := paths.OutputPath(plotOpts.output, appConfig.OutputDir, renderer.Extension())
	if err := writeChart(ctx, renderer, resp.Chart, out); err != nil {
		return err
	}

	printSeries(resp.Chart)
	fmt.Println(ui.FormatChart("Wrote " + out))

	if plotCopy {
		abs, err := filepath.Abs(out)
		if err != nil {
			abs = out
		}
		if err := clipboard.WriteAll(abs); err != nil {
			fmt.Println(ui.FormatWarning("Could not copy to clipboard: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Copied path to clipboard"))
		}
	}

	if plotOpts.open || appConfig.OpenAfterRender {
		if err := systemOpener.Open(ctx, out); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}

	return nil
}

// chooseColumns fills in a missing X or Y choice with the fuzzy picker
func chooseColumns(cmd *cobra.Command, files []domain.UploadedFile, opts *domain.PlotOptions) error {
	columns, diags, err := plotService.Columns(getContext(cmd), files)
	if err != nil {
		return err
	}

	if !isInteractive() {
		printDiagnostics(diags)
		return fmt.Errorf("choose columns with -x and -y (available: %s)", strings.Join(columns, ", "))
	}

	if opts.XColumn == "" {
		if opts.XColumn, err = pickColumn("X", columns, opts.YColumn); err != nil {
			return err
		}
	}
	if opts.YColumn == "" {
		if opts.YColumn, err = pickColumn("Y", columns, opts.XColumn); err != nil {
			return err
		}
	}
	return nil
}
