package services

import (
	"math"
	"testing"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

func column(t *testing.T, cells ...string) *domain.Table {
	t.Helper()
	records := make([][]string, len(cells))
	for i, c := range cells {
		records[i] = []string{c}
	}
	table, err := domain.NewTable("T.csv", []string{"I"}, records)
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return table
}

func assertValues(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("value %d: expected gap, got %v", i, got[i])
			}
			continue
		}
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("value %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		cell     string
		expected float64
	}{
		{"1.5", 1.5},
		{" -3e-9 ", -3e-9},
		{"0", 0},
		{"", nan},
		{"abc", nan},
		{"1,5", nan},
		{"NaN", nan},
		{"inf", nan},
		{"-Infinity", nan},
		{"0x10", nan},
		{"-0X1p-2", nan},
		{"0x_1", nan},
		{"1_000", nan},
		{"0.5", 0.5},
	}

	for _, tt := range tests {
		got := CoerceFloat(tt.cell)
		if math.IsNaN(tt.expected) {
			if !math.IsNaN(got) {
				t.Errorf("CoerceFloat(%q) = %v, want gap", tt.cell, got)
			}
			continue
		}
		if got != tt.expected {
			t.Errorf("CoerceFloat(%q) = %v, want %v", tt.cell, got, tt.expected)
		}
	}
}

func TestTransformY_NoTransforms(t *testing.T) {
	table := column(t, "-4", "x", "16")
	assertValues(t, TransformY(table, "I", false, false), []float64{-4, math.NaN(), 16})
}

func TestTransformY_Abs(t *testing.T) {
	table := column(t, "-4", "", "2.5")
	assertValues(t, TransformY(table, "I", true, false), []float64{4, math.NaN(), 2.5})
}

func TestTransformY_LogScenario(t *testing.T) {
	table := column(t, "-4", "0", "16")
	got := TransformY(table, "I", false, true)
	assertValues(t, got, []float64{math.Log10(4), math.NaN(), math.Log10(16)})

	for i, v := range got {
		if math.IsInf(v, 0) {
			t.Errorf("value %d is infinite; log of zero must be a gap", i)
		}
	}
}

func TestTransformY_LogIgnoresAbsFlag(t *testing.T) {
	table := column(t, "-1e-3", "0", "abc", "250", "-0")
	logOnly := TransformY(table, "I", false, true)
	both := TransformY(table, "I", true, true)
	assertValues(t, both, logOnly)
}

func TestTransformY_MissingColumn(t *testing.T) {
	table := column(t, "1")
	if got := TransformY(table, "V", false, false); got != nil {
		t.Errorf("expected nil for missing column, got %v", got)
	}
}
