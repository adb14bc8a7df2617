package web

import (
	"math"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/services"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// plotResponse is the JSON shape of one pipeline run.
// Undefined coordinates are encoded as null.
type plotResponse struct {
	Title       string             `json:"title,omitempty"`
	XLabel      string             `json:"x_label,omitempty"`
	YLabel      string             `json:"y_label,omitempty"`
	Columns     []string           `json:"columns"`
	Files       []string           `json:"files"`
	Series      []seriesResponse   `json:"series"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

type seriesResponse struct {
	Name   string        `json:"name"`
	Color  string        `json:"color"`
	Points [][2]*float64 `json:"points"`
}

func newPlotResponse(resp *services.PlotResponse) plotResponse {
	out := plotResponse{
		Columns:     resp.Columns,
		Files:       resp.Files,
		Series:      []seriesResponse{},
		Diagnostics: resp.Diagnostics,
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Files == nil {
		out.Files = []string{}
	}
	if out.Diagnostics == nil {
		out.Diagnostics = domain.Diagnostics{}
	}

	if resp.Chart == nil {
		return out
	}

	out.Title = resp.Chart.Title
	out.XLabel = resp.Chart.XLabel
	out.YLabel = resp.Chart.YLabel
	for _, s := range resp.Chart.Series {
		points := make([][2]*float64, len(s.Points))
		for i, p := range s.Points {
			points[i] = [2]*float64{nullable(p.X), nullable(p.Y)}
		}
		out.Series = append(out.Series, seriesResponse{Name: s.Name, Color: s.Color, Points: points})
	}
	return out
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
