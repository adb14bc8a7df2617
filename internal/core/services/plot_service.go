package services

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// Messages shown when the pipeline has nothing to draw yet
const (
	MsgNoFiles     = "Upload one or more .csv or .txt files to begin"
	MsgPickColumns = "Select an X and a Y column to draw the chart"
)

// PlotService runs the whole pipeline: load, transform, overlay.
// It keeps no state between calls.
type PlotService struct {
	loader  *LoadService
	overlay *OverlayService
}

// NewPlotService creates a new plot service
func NewPlotService(loader *LoadService, overlay *OverlayService) *PlotService {
	return &PlotService{
		loader:  loader,
		overlay: overlay,
	}
}

// PlotRequest represents one render pass
type PlotRequest struct {
	Files   []domain.UploadedFile
	Options domain.PlotOptions
}

// PlotResponse is the result of one render pass.
// Chart is nil when there is nothing to draw yet (no files, no selection).
type PlotResponse struct {
	Chart       *domain.Chart
	Columns     domain.ColumnUniverse
	Files       []string
	Diagnostics domain.Diagnostics
}

// Execute runs the pipeline. The only error it returns is a batch-fatal load error.
func (s *PlotService) Execute(ctx context.Context, req PlotRequest) (*PlotResponse, error) {
	if len(req.Files) == 0 {
		return &PlotResponse{
			Diagnostics: domain.Diagnostics{domain.Info(MsgNoFiles)},
		}, nil
	}

	loaded, err := s.loader.Execute(ctx, LoadRequest{Files: req.Files})
	if err != nil {
		return nil, fmt.Errorf("failed to load files: %w", err)
	}

	resp := &PlotResponse{
		Columns:     loaded.Columns,
		Diagnostics: loaded.Diagnostics,
	}
	for _, t := range loaded.Tables {
		resp.Files = append(resp.Files, t.Name)
	}

	if !req.Options.HasSelection() {
		resp.Diagnostics = append(resp.Diagnostics, domain.Info(MsgPickColumns))
		return resp, nil
	}

	overlay := s.overlay.Execute(ctx, OverlayRequest{
		Tables:    loaded.Tables,
		Positions: loaded.Positions,
		Options:   req.Options,
	})
	resp.Chart = overlay.Chart
	resp.Diagnostics = append(resp.Diagnostics, overlay.Diagnostics...)

	return resp, nil
}

// Columns loads the files and returns only the column universe
func (s *PlotService) Columns(ctx context.Context, files []domain.UploadedFile) (domain.ColumnUniverse, domain.Diagnostics, error) {
	loaded, err := s.loader.Execute(ctx, LoadRequest{Files: files})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load files: %w", err)
	}
	return loaded.Columns, loaded.Diagnostics, nil
}
