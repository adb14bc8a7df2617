package domain

import (
	"fmt"
	"strings"
)

// PlotOptions holds the user's column choices and Y transforms
type PlotOptions struct {
	XColumn  string `json:"x_column" yaml:"x_column"`
	YColumn  string `json:"y_column" yaml:"y_column"`
	ApplyAbs bool   `json:"apply_abs" yaml:"apply_abs"`
	ApplyLog bool   `json:"apply_log" yaml:"apply_log"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
}

// HasSelection reports whether both axes have been chosen
func (o PlotOptions) HasSelection() bool {
	return strings.TrimSpace(o.XColumn) != "" && strings.TrimSpace(o.YColumn) != ""
}

// Validate checks that both chosen columns exist in the universe
func (o PlotOptions) Validate(universe ColumnUniverse) error {
	if !o.HasSelection() {
		return fmt.Errorf("both an X and a Y column must be selected")
	}
	if !universe.Contains(o.XColumn) {
		return fmt.Errorf("unknown X column %q", o.XColumn)
	}
	if !universe.Contains(o.YColumn) {
		return fmt.Errorf("unknown Y column %q", o.YColumn)
	}
	return nil
}

// YLabel returns the Y axis label. Transforms do not rename the axis.
func (o PlotOptions) YLabel() string {
	return o.YColumn
}
