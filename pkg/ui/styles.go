package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/ivc/internal/core/domain"
)

var (
	// Terminal palette indexes so output follows the user's terminal theme
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}

	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleAccent  lipgloss.Style
	StyleBold    lipgloss.Style

	StyleTitle       lipgloss.Style
	StyleTableHeader lipgloss.Style
	StyleTableBorder lipgloss.Style
	StylePresent     lipgloss.Style
	StyleAbsent      lipgloss.Style

	IconSuccess = "✔"
	IconError   = "✘"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconChart   = "📈"
	IconSwatch  = "●"
)

// seriesColors maps palette names to the closest terminal colors
var seriesColors = map[string]lipgloss.Color{
	"black":  lipgloss.Color("0"),
	"red":    lipgloss.Color("1"),
	"green":  lipgloss.Color("2"),
	"orange": lipgloss.Color("208"),
	"blue":   lipgloss.Color("4"),
	"purple": lipgloss.Color("5"),
	"brown":  lipgloss.Color("94"),
}

func init() {
	SetTheme("auto")
}

// SetTheme applies "auto", "dark" or "light"
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleAccent = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleBold = lipgloss.NewStyle().Bold(true)

	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleTableHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleTableBorder = lipgloss.NewStyle().Foreground(ColorMuted)
	StylePresent = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleAbsent = lipgloss.NewStyle().Foreground(ColorMuted)
}

func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

// FormatChart announces a written chart file
func FormatChart(msg string) string {
	return StyleSuccess.Render(IconChart + " " + msg)
}

func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

func FormatBold(text string) string {
	return StyleBold.Render(text)
}

// FormatDiagnostic styles a pipeline diagnostic by its level
func FormatDiagnostic(d domain.Diagnostic) string {
	switch d.Level {
	case domain.LevelError:
		return FormatError(d.String())
	case domain.LevelWarning:
		return FormatWarning(d.String())
	default:
		return FormatInfo(d.String())
	}
}

// FormatDiagnostics renders one line per diagnostic
func FormatDiagnostics(ds domain.Diagnostics) string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = FormatDiagnostic(d)
	}
	return strings.Join(lines, "\n")
}

// FormatSeries renders a legend line: colored swatch, file name and point count
func FormatSeries(s domain.Series) string {
	swatch := lipgloss.NewStyle().Foreground(SwatchColor(s.Color)).Render(IconSwatch)
	return swatch + " " + s.Name + " " + StyleMuted.Render(pointCount(s))
}

// SwatchColor maps a palette entry to a terminal color. Hex codes pass through.
func SwatchColor(color string) lipgloss.TerminalColor {
	if c, ok := seriesColors[strings.ToLower(color)]; ok {
		return c
	}
	if strings.HasPrefix(color, "#") {
		return lipgloss.Color(color)
	}
	return ColorAccent
}

func pointCount(s domain.Series) string {
	defined := s.DefinedCount()
	if defined == len(s.Points) {
		return fmt.Sprintf("(%d points)", defined)
	}
	return fmt.Sprintf("(%d/%d points)", defined, len(s.Points))
}
