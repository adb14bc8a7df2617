package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
)

const (
	axisNameFontSize = 20
	tickFontSize     = 14
	strokeWidth      = 2
)

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// namedColors covers the default palette plus a few common CSS names
var namedColors = map[string]drawing.Color{
	"black":  drawing.ColorFromHex("000000"),
	"blue":   drawing.ColorFromHex("0000ff"),
	"brown":  drawing.ColorFromHex("a52a2a"),
	"cyan":   drawing.ColorFromHex("00ffff"),
	"gray":   drawing.ColorFromHex("808080"),
	"green":  drawing.ColorFromHex("008000"),
	"grey":   drawing.ColorFromHex("808080"),
	"orange": drawing.ColorFromHex("ffa500"),
	"pink":   drawing.ColorFromHex("ffc0cb"),
	"purple": drawing.ColorFromHex("800080"),
	"red":    drawing.ColorFromHex("ff0000"),
	"yellow": drawing.ColorFromHex("ffff00"),
}

// PNGRenderer writes a static raster image of the chart
type PNGRenderer struct {
	opts Options
}

// NewPNGRenderer creates a new PNG renderer
func NewPNGRenderer(opts Options) *PNGRenderer {
	return &PNGRenderer{opts: opts}
}

// Ensure it implements the interface
var _ ports.ChartRenderer = (*PNGRenderer)(nil)

// Extension returns the output file extension
func (r *PNGRenderer) Extension() string {
	return ".png"
}

// Render draws the chart as PNG
func (r *PNGRenderer) Render(ctx context.Context, w io.Writer, c *domain.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	graph := r.build(c)
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render png chart: %w", err)
	}
	return nil
}

func (r *PNGRenderer) build(c *domain.Chart) chart.Chart {
	minX, maxX, minY, maxY, ok := c.Bounds()
	if !ok {
		minX, maxX, minY, maxY = 0, 1, 0, 1
	}
	minX, maxX = padRange(minX, maxX)
	minY, maxY = padRange(minY, maxY)

	graph := chart.Chart{
		Title:  c.Title,
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           c.XLabel,
			NameStyle:      chart.Style{FontSize: axisNameFontSize},
			Style:          chart.Style{FontSize: tickFontSize},
			ValueFormatter: formatTick,
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			NameStyle:      chart.Style{FontSize: axisNameFontSize},
			Style:          chart.Style{FontSize: tickFontSize},
			ValueFormatter: formatTick,
			Range:          &chart.ContinuousRange{Min: minY, Max: maxY},
		},
	}

	var legend []chart.Series
	for _, s := range c.Series {
		style := r.seriesStyle(s.Color)
		entry := chart.ContinuousSeries{Name: s.Name, Style: style, XValues: []float64{minX}, YValues: []float64{minY}}

		for i, seg := range s.Segments() {
			cs := chart.ContinuousSeries{Style: style}
			for _, p := range seg {
				cs.XValues = append(cs.XValues, p.X)
				cs.YValues = append(cs.YValues, p.Y)
			}
			// Only the first segment carries the name so the legend lists each file once
			if i == 0 {
				cs.Name = s.Name
				entry = cs
			}
			graph.Series = append(graph.Series, cs)
		}
		legend = append(legend, entry)
	}

	if len(graph.Series) == 0 {
		// go-chart refuses to render without a visible series
		graph.Series = []chart.Series{chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent, StrokeWidth: 1},
			XValues: []float64{minX, maxX},
			YValues: []float64{minY, maxY},
		}}
	}

	if len(legend) > 0 {
		legendChart := graph
		legendChart.Series = legend
		graph.Elements = []chart.Renderable{chart.Legend(&legendChart)}
	}

	return graph
}

func (r *PNGRenderer) seriesStyle(color string) chart.Style {
	c := ParseColor(color)
	dot := float64(r.opts.MarkerSize) / 2
	if dot <= 0 {
		dot = 1
	}
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: strokeWidth,
		DotColor:    c,
		DotWidth:    dot,
	}
}

// ParseColor resolves a CSS color name or hex code; unknown values are black
func ParseColor(value string) drawing.Color {
	value = strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[value]; ok {
		return c
	}
	if hexColorPattern.MatchString(value) {
		return drawing.ColorFromHex(strings.TrimPrefix(value, "#"))
	}
	return namedColors["black"]
}

// padRange widens a degenerate range so the axis has a non-zero span
func padRange(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func formatTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
	return ""
}
