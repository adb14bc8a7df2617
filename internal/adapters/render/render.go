package render

import (
	"fmt"

	"github.com/kamal-hamza/ivc/internal/core/ports"
	"github.com/kamal-hamza/ivc/pkg/config"
)

// Options controls chart appearance shared by all renderers
type Options struct {
	Width      int
	Height     int
	MarkerSize int
	PageTitle  string
}

// OptionsFromConfig builds renderer options from the user config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Width:      cfg.ChartWidth,
		Height:     cfg.ChartHeight,
		MarkerSize: cfg.MarkerSize,
		PageTitle:  PageTitle,
	}
}

// PageTitle is the browser tab title of rendered HTML charts
const PageTitle = "IV Curve Viewer"

// New returns the renderer for an output format
func New(format string, opts Options) (ports.ChartRenderer, error) {
	switch format {
	case config.FormatHTML:
		return NewEChartsRenderer(opts), nil
	case config.FormatPNG:
		return NewPNGRenderer(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected html or png)", format)
	}
}
