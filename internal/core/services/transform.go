package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

// CoerceFloat converts a raw cell to a float64.
// Anything that is not a finite decimal number becomes NaN.
func CoerceFloat(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" || isHexLiteral(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN()
	}
	return v
}

// isHexLiteral reports a 0x prefix, which strconv.ParseFloat would accept
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// CoerceColumn converts every cell of a column
func CoerceColumn(cells []string) []float64 {
	out := make([]float64, len(cells))
	for i, c := range cells {
		out[i] = CoerceFloat(c)
	}
	return out
}

// TransformY produces the plotted Y values for one table, aligned with its rows.
// The steps run in a fixed order: coerce, abs, log10(|y|).
// Undefined values stay NaN through every step; log10(0) is NaN, never -Inf.
func TransformY(table *domain.Table, column string, applyAbs, applyLog bool) []float64 {
	cells, ok := table.Column(column)
	if !ok {
		return nil
	}

	values := CoerceColumn(cells)

	if applyAbs {
		for i, v := range values {
			values[i] = math.Abs(v)
		}
	}

	if applyLog {
		for i, v := range values {
			values[i] = log10Magnitude(v)
		}
	}

	return values
}

func log10Magnitude(v float64) float64 {
	a := math.Abs(v)
	if math.IsNaN(a) || a == 0 {
		return math.NaN()
	}
	return math.Log10(a)
}
