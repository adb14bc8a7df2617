package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		diag domain.Diagnostic
		icon string
	}{
		{domain.Info("pick columns"), IconInfo},
		{domain.Warning("C.csv", "missing column"), IconWarning},
		{domain.Diagnostic{Level: domain.LevelError, File: "D.csv", Message: "bad"}, IconError},
	}

	for _, tt := range tests {
		got := FormatDiagnostic(tt.diag)
		if !strings.Contains(got, tt.icon) {
			t.Errorf("FormatDiagnostic(%v) = %q, want icon %q", tt.diag, got, tt.icon)
		}
		if !strings.Contains(got, tt.diag.Message) {
			t.Errorf("FormatDiagnostic(%v) lost the message", tt.diag)
		}
	}
}

func TestFormatSeries_PointCount(t *testing.T) {
	s := domain.Series{
		Name:   "A.csv",
		Color:  "blue",
		Points: []domain.Point{{X: 0, Y: 1}, {X: 1, Y: math.NaN()}},
	}

	got := FormatSeries(s)
	if !strings.Contains(got, "A.csv") || !strings.Contains(got, "1/2 points") {
		t.Errorf("unexpected series line %q", got)
	}
}

func TestSwatchColor(t *testing.T) {
	if SwatchColor("Blue") != lipgloss.Color("4") {
		t.Error("palette names should map to terminal colors")
	}
	if SwatchColor("#1f77b4") != lipgloss.Color("#1f77b4") {
		t.Error("hex colors should pass through")
	}
	if SwatchColor("chartreuse") != ColorAccent {
		t.Error("unknown colors should fall back to the accent color")
	}
}

func TestPresenceTable_Render(t *testing.T) {
	table := &PresenceTable{
		Files:   []string{"A.csv", "C.csv"},
		Columns: []string{"Current", "I", "V"},
		Has: func(file, column int) bool {
			present := map[int][]bool{
				0: {false, true, true},
				1: {true, false, true},
			}
			return present[file][column]
		},
	}

	out := table.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, rule and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "A.csv") || !strings.Contains(lines[0], "C.csv") {
		t.Errorf("header should list files, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "I") || strings.Count(lines[3], IconSuccess) != 1 {
		t.Errorf("row I should have exactly one mark, got %q", lines[3])
	}
	if strings.Count(lines[4], IconSuccess) != 2 {
		t.Errorf("row V should have two marks, got %q", lines[4])
	}
}

func TestPresenceTable_Empty(t *testing.T) {
	if out := (&PresenceTable{}).Render(); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
