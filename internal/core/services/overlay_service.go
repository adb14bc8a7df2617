package services

import (
	"context"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// OverlayService builds one series per table and composes the chart
type OverlayService struct {
	palette []string
	title   string
}

// NewOverlayService creates a new overlay service.
// An empty palette or title falls back to the defaults.
func NewOverlayService(palette []string, title string) *OverlayService {
	if len(palette) == 0 {
		palette = domain.DefaultPalette
	}
	if title == "" {
		title = domain.DefaultChartTitle
	}
	return &OverlayService{
		palette: palette,
		title:   title,
	}
}

// OverlayRequest represents a request to overlay tables.
// Positions, when set, gives each table's upload index for color assignment.
type OverlayRequest struct {
	Tables    []*domain.Table
	Positions []int
	Options   domain.PlotOptions
}

// OverlayResponse holds the composed chart and skip warnings
type OverlayResponse struct {
	Chart       *domain.Chart
	Diagnostics domain.Diagnostics
}

// Execute builds the chart. It never fails; tables missing a column are skipped with a warning.
func (s *OverlayService) Execute(ctx context.Context, req OverlayRequest) *OverlayResponse {
	opts := req.Options

	title := opts.Title
	if title == "" {
		title = s.title
	}

	chart := &domain.Chart{
		Title:  title,
		XLabel: opts.XColumn,
		YLabel: opts.YLabel(),
		Series: []domain.Series{},
	}
	resp := &OverlayResponse{Chart: chart}

	for i, table := range req.Tables {
		if missing := missingColumns(table, opts.XColumn, opts.YColumn); len(missing) > 0 {
			err := &domain.MissingColumnError{File: table.Name, Missing: missing}
			resp.Diagnostics = append(resp.Diagnostics, domain.Warning(table.Name, err.Reason()))
			continue
		}

		position := i
		if i < len(req.Positions) {
			position = req.Positions[i]
		}
		chart.Series = append(chart.Series, s.buildSeries(position, table, opts))
	}

	return resp
}

func (s *OverlayService) buildSeries(index int, table *domain.Table, opts domain.PlotOptions) domain.Series {
	xCells, _ := table.Column(opts.XColumn)
	xs := CoerceColumn(xCells)
	ys := TransformY(table, opts.YColumn, opts.ApplyAbs, opts.ApplyLog)

	points := make([]domain.Point, len(xs))
	for r := range xs {
		points[r] = domain.Point{X: xs[r], Y: ys[r]}
	}

	return domain.Series{
		Name:   table.Name,
		Color:  domain.ColorFor(s.palette, index),
		Points: points,
	}
}

func missingColumns(table *domain.Table, x, y string) []string {
	var missing []string
	if !table.HasColumn(x) {
		missing = append(missing, x)
	}
	if y != x && !table.HasColumn(y) {
		missing = append(missing, y)
	}
	return missing
}
