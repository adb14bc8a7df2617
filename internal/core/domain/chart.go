package domain

import "math"

// DefaultChartTitle is used when no title is configured
const DefaultChartTitle = "I-V Curve Overlay"

// Point is one (x, y) sample. An undefined coordinate is NaN.
type Point struct {
	X float64
	Y float64
}

// Defined reports whether both coordinates are usable for plotting
func (p Point) Defined() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

// Series is one file's trace on the overlay chart
type Series struct {
	Name   string // File name, used for the legend
	Color  string
	Points []Point
}

// DefinedCount returns how many points will actually be drawn
func (s *Series) DefinedCount() int {
	n := 0
	for _, p := range s.Points {
		if p.Defined() {
			n++
		}
	}
	return n
}

// Segments splits the series at undefined points.
// Each segment is a maximal run of defined points.
func (s *Series) Segments() [][]Point {
	var segments [][]Point
	var current []Point
	for _, p := range s.Points {
		if !p.Defined() {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, p)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// Chart is the renderable overlay of all matched series.
// A chart with no series is still valid and renders empty.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

// Bounds returns the min/max of all defined points.
// ok is false when there is nothing to bound.
func (c *Chart) Bounds() (minX, maxX, minY, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			if !p.Defined() {
				continue
			}
			ok = true
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return minX, maxX, minY, maxY, ok
}
