package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports/mocks"
)

func newPlotService(parser *mocks.MockParser, abort bool) *PlotService {
	return NewPlotService(NewLoadService(parser, abort), NewOverlayService(nil, ""))
}

func TestPlotService_NoFiles(t *testing.T) {
	svc := newPlotService(mocks.NewMockParser(), false)

	resp, err := svc.Execute(context.Background(), PlotRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Chart != nil {
		t.Error("expected no chart without files")
	}
	if len(resp.Diagnostics) != 1 || resp.Diagnostics[0].Level != domain.LevelInfo {
		t.Errorf("expected a single info prompt, got %v", resp.Diagnostics)
	}
}

func TestPlotService_SelectionPending(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	svc := newPlotService(parser, false)

	resp, err := svc.Execute(context.Background(), PlotRequest{Files: files("A.csv")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Chart != nil {
		t.Error("expected no chart before columns are selected")
	}
	if len(resp.Columns) != 2 {
		t.Errorf("expected columns to be offered, got %v", resp.Columns)
	}
}

func TestPlotService_MixedFiles(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}, []string{"0", "1"}))
	parser.AddTable(mustTable(t, "C.csv", []string{"V", "Current"}, []string{"0", "1"}))
	parser.FailOn("broken.txt", errors.New("unreadable encoding"))
	svc := newPlotService(parser, false)

	resp, err := svc.Execute(context.Background(), PlotRequest{
		Files:   files("A.csv", "broken.txt", "C.csv"),
		Options: domain.PlotOptions{XColumn: "V", YColumn: "I"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Chart == nil || len(resp.Chart.Series) != 1 {
		t.Fatalf("expected one series, got %+v", resp.Chart)
	}
	if resp.Diagnostics.Count(domain.LevelWarning) != 1 || resp.Diagnostics.Count(domain.LevelError) != 1 {
		t.Errorf("expected one warning and one error, got %v", resp.Diagnostics)
	}
	if len(resp.Diagnostics.ForFile("C.csv")) != 1 {
		t.Errorf("expected a diagnostic naming C.csv")
	}
}

func TestPlotService_AbortMode(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	parser.FailOn("broken.txt", errors.New("unreadable encoding"))
	svc := newPlotService(parser, true)

	resp, err := svc.Execute(context.Background(), PlotRequest{
		Files:   files("A.csv", "broken.txt"),
		Options: domain.PlotOptions{XColumn: "V", YColumn: "I"},
	})
	if err == nil {
		t.Fatal("expected error in abort mode")
	}
	if resp != nil {
		t.Error("no partial result should be returned")
	}

	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected wrapped *domain.LoadError, got %T", err)
	}
}

func TestPlotService_Columns(t *testing.T) {
	parser := mocks.NewMockParser()
	parser.AddTable(mustTable(t, "A.csv", []string{"V", "I"}))
	parser.AddTable(mustTable(t, "B.csv", []string{"T"}))
	svc := newPlotService(parser, false)

	cols, diags, err := svc.Columns(context.Background(), files("A.csv", "B.csv"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 3 || len(diags) != 0 {
		t.Errorf("unexpected result: %v %v", cols, diags)
	}
}
