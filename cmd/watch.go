package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
	"github.com/kamal-hamza/ivc/internal/core/services"
	"github.com/kamal-hamza/ivc/pkg/logging"
	"github.com/kamal-hamza/ivc/pkg/paths"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

var (
	watchOpts  plotFlags
	watchQuiet bool
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE|DIR... -x COL -y COL",
	Short: "Re-render the chart whenever a file changes",
	Long: `Render the overlay once, then watch the files and re-render on every change.

Directories are watched for new, changed and removed .csv/.txt files.
Pair with an HTML viewer or image viewer that reloads on change.

Use --quiet to suppress per-render output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchOpts.register(watchCmd)
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "Suppress render notifications")
}

// watchSet tracks which paths trigger a re-render
type watchSet struct {
	files map[string]bool
	dirs  map[string]bool
}

func newWatchSet(args []string) (*watchSet, error) {
	ws := &watchSet{files: map[string]bool{}, dirs: map[string]bool{}}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}
		if info.IsDir() {
			ws.dirs[abs] = true
		} else {
			ws.files[abs] = true
		}
	}

	return ws, nil
}

// watchDirs returns the directories to register with the watcher.
// Files are watched through their parent so editors that replace files on save are seen.
func (ws *watchSet) watchDirs() []string {
	set := map[string]bool{}
	for d := range ws.dirs {
		set[d] = true
	}
	for f := range ws.files {
		set[filepath.Dir(f)] = true
	}

	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// matches reports whether an event on path should trigger a re-render
func (ws *watchSet) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if ws.files[abs] {
		return true
	}

	base := filepath.Base(abs)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return ws.dirs[filepath.Dir(abs)] && domain.HasAllowedExtension(base)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)
	logger := logging.New(os.Stderr, appConfig.Server.LogLevel).With(slog.String("component", "watch"))

	opts := watchOpts.options()
	if !opts.HasSelection() {
		return fmt.Errorf("watch needs both -x and -y")
	}

	format, err := resolveFormat(watchOpts.format, watchOpts.output)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(format)
	if err != nil {
		return err
	}
	out := paths.OutputPath(watchOpts.output, appConfig.OutputDir, renderer.Extension())

	ws, err := newWatchSet(args)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range ws.watchDirs() {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	r := &rerenderer{args: args, opts: opts, renderer: renderer, out: out, quiet: watchQuiet, logger: logger}
	if err := r.render(ctx); err != nil {
		return err
	}

	if watchOpts.open || appConfig.OpenAfterRender {
		if err := systemOpener.Open(ctx, out); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}

	if !watchQuiet {
		fmt.Println(ui.FormatInfo("Watching " + strings.Join(args, ", ")))
		fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))
		fmt.Println()
	}

	var debounceTimer *time.Timer
	debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ws.matches(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) {

				logger.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					if err := r.render(ctx); err != nil {
						fmt.Println(ui.FormatError("Render failed: " + err.Error()))
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			if !watchQuiet {
				fmt.Println()
				fmt.Println(ui.FormatMuted("Watch stopped"))
			}
			return nil
		}
	}
}

// rerenderer runs the full pipeline and rewrites the output file.
// Renders are serialized so a slow render never interleaves with the next.
type rerenderer struct {
	mu       sync.Mutex
	args     []string
	opts     domain.PlotOptions
	renderer ports.ChartRenderer
	out      string
	quiet    bool
	logger   *slog.Logger
}

func (r *rerenderer) render(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()

	files, err := fileSource.Load(ctx, r.args)
	if err != nil {
		return err
	}

	resp, err := plotService.Execute(ctx, services.PlotRequest{Files: files, Options: r.opts})
	if err != nil {
		return err
	}
	if resp.Chart == nil {
		printDiagnostics(resp.Diagnostics)
		return nil
	}

	if err := writeChart(ctx, r.renderer, resp.Chart, r.out); err != nil {
		return err
	}

	r.logger.Debug("rendered",
		slog.Int("files", len(files)),
		slog.Int("series", len(resp.Chart.Series)),
		slog.Duration("took", time.Since(start)),
	)

	if !r.quiet {
		printDiagnostics(resp.Diagnostics)
		fmt.Println(ui.FormatChart(fmt.Sprintf("%s  %s (%d series)",
			time.Now().Format("15:04:05"), r.out, len(resp.Chart.Series))))
	}
	return nil
}
