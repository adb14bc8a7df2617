package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
)

// missingValue is how ECharts marks an absent data point
const missingValue = "-"

// EChartsRenderer writes an interactive HTML page (pan/zoom/hover)
type EChartsRenderer struct {
	opts Options
}

// NewEChartsRenderer creates a new HTML renderer
func NewEChartsRenderer(opts Options) *EChartsRenderer {
	return &EChartsRenderer{opts: opts}
}

// Ensure it implements the interface
var _ ports.ChartRenderer = (*EChartsRenderer)(nil)

// Extension returns the output file extension
func (r *EChartsRenderer) Extension() string {
	return ".html"
}

// Render writes a standalone HTML page for the chart
func (r *EChartsRenderer) Render(ctx context.Context, w io.Writer, chart *domain.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := r.build(chart)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render html chart: %w", err)
	}
	return nil
}

func (r *EChartsRenderer) build(chart *domain.Chart) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: r.opts.PageTitle,
			Width:     fmt.Sprintf("%dpx", r.opts.Width),
			Height:    fmt.Sprintf("%dpx", r.opts.Height),
			ChartID:   "ivc_" + uuid.NewString()[:8],
		}),
		charts.WithTitleOpts(opts.Title{Title: chart.Title}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Left: "1%",
			Top:  "8%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(hoverFormatter(chart.XLabel, chart.YLabel)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: chart.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: chart.YLabel, Type: "value"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: []int{0}},
			opts.DataZoom{Type: "inside", YAxisIndex: []int{0}},
		),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
			},
		}),
	)

	for _, s := range chart.Series {
		line.AddSeries(s.Name, lineData(s.Points),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol:   opts.Bool(true),
				Symbol:       "circle",
				SymbolSize:   r.opts.MarkerSize,
				ConnectNulls: opts.Bool(false),
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}

	return line
}

// lineData converts points to [x, y] pairs; NaN becomes the ECharts gap marker
func lineData(points []domain.Point) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: []interface{}{jsValue(p.X), jsValue(p.Y)}}
	}
	return data
}

func jsValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missingValue
	}
	return v
}

// hoverFormatter shows "<file><br>X: x<br>Y: y".
// Column names are percent-encoded so they survive JSON embedding as JS literals.
func hoverFormatter(xName, yName string) string {
	return fmt.Sprintf(
		"function (p) { var e = echarts.format.encodeHTML;"+
			" return e(p.seriesName) + '<br/>' + e(decodeURIComponent('%s')) + ': ' + p.value[0]"+
			" + '<br/>' + e(decodeURIComponent('%s')) + ': ' + p.value[1]; }",
		url.PathEscape(xName), url.PathEscape(yName),
	)
}
