package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/ports"
	"github.com/kamal-hamza/ivc/internal/core/services"
	"github.com/kamal-hamza/ivc/pkg/paths"
	"github.com/kamal-hamza/ivc/pkg/ui"
)

var exploreOpts plotFlags

var exploreCmd = &cobra.Command{
	Use:   "explore FILE|DIR...",
	Short: "Interactively pick columns and transforms",
	Long: `Full-screen explorer: pick the X and Y columns, toggle |Y| and log10,
and see which files plot and which are skipped after every key press.

Keys:
- k / ↑, j / ↓ : Move in the focused column list
- tab          : Switch between X and Y
- a            : Toggle absolute value
- l            : Toggle log10
- t            : Edit the chart title
- enter        : Write the chart
- o            : Write and open the chart
- q            : Quit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplore,
}

func init() {
	exploreOpts.register(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	format, err := resolveFormat(exploreOpts.format, exploreOpts.output)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(format)
	if err != nil {
		return err
	}

	files, err := fileSource.Load(ctx, args)
	if err != nil {
		return err
	}

	columns, diags, err := plotService.Columns(ctx, files)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		printDiagnostics(diags)
		return fmt.Errorf("no readable columns in the given files")
	}

	out := paths.OutputPath(exploreOpts.output, appConfig.OutputDir, renderer.Extension())
	m := newExploreModel(ctx, exploreDeps{
		plot:     plotService,
		renderer: renderer,
		opener:   systemOpener,
		out:      out,
	}, files, columns, exploreOpts.options())

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running explorer: %w", err)
	}
	return nil
}

// exploreDeps are the collaborators the explorer needs
type exploreDeps struct {
	plot     *services.PlotService
	renderer ports.ChartRenderer
	opener   ports.FileOpener
	out      string
}

type axis int

const (
	axisX axis = iota
	axisY
)

type exploreKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Abs    key.Binding
	Log    key.Binding
	Title  key.Binding
	Write  key.Binding
	Open   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k exploreKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Abs, k.Log, k.Write, k.Help, k.Quit}
}

func (k exploreKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch},
		{k.Abs, k.Log, k.Title},
		{k.Write, k.Open, k.Help, k.Quit},
	}
}

var exploreKeys = exploreKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch X/Y"),
	),
	Abs: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle |Y|"),
	),
	Log: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "toggle log10"),
	),
	Title: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "edit title"),
	),
	Write: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "write chart"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "write & open"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// chartWrittenMsg reports the outcome of writing the chart
type chartWrittenMsg struct {
	path string
	err  error
}

type exploreModel struct {
	ctx     context.Context
	deps    exploreDeps
	files   []domain.UploadedFile
	columns domain.ColumnUniverse

	focus   axis
	xCursor int
	yCursor int
	abs     bool
	log     bool

	resp *services.PlotResponse
	err  error

	titleInput   textinput.Model
	editingTitle bool
	results      viewport.Model
	help         help.Model
	keys         exploreKeyMap

	width   int
	height  int
	ready   bool
	message string
}

func newExploreModel(ctx context.Context, deps exploreDeps, files []domain.UploadedFile, columns domain.ColumnUniverse, opts domain.PlotOptions) exploreModel {
	ti := textinput.New()
	ti.Placeholder = domain.DefaultChartTitle
	ti.CharLimit = 200
	ti.SetValue(opts.Title)

	m := exploreModel{
		ctx:        ctx,
		deps:       deps,
		files:      files,
		columns:    columns,
		xCursor:    indexOr(columns, opts.XColumn, 0),
		yCursor:    indexOr(columns, opts.YColumn, min(1, len(columns)-1)),
		abs:        opts.ApplyAbs,
		log:        opts.ApplyLog,
		titleInput: ti,
		results:    viewport.New(80, 10),
		help:       help.New(),
		keys:       exploreKeys,
	}
	m.rerun()
	return m
}

func indexOr(columns domain.ColumnUniverse, name string, fallback int) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return max(fallback, 0)
}

func (m exploreModel) options() domain.PlotOptions {
	opts := domain.PlotOptions{
		ApplyAbs: m.abs,
		ApplyLog: m.log,
		Title:    strings.TrimSpace(m.titleInput.Value()),
	}
	if len(m.columns) > 0 {
		opts.XColumn = m.columns[m.xCursor]
		opts.YColumn = m.columns[m.yCursor]
	}
	return opts
}

// rerun executes the whole pipeline for the current selection
func (m *exploreModel) rerun() {
	m.resp, m.err = m.deps.plot.Execute(m.ctx, services.PlotRequest{Files: m.files, Options: m.options()})
	m.results.SetContent(m.resultsText())
	m.results.GotoTop()
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.results.Width = max(msg.Width-4, 20)
		m.results.Height = max(msg.Height-m.listHeight()-12, 3)
		m.ready = true
		return m, nil

	case chartWrittenMsg:
		if msg.err != nil {
			m.message = ui.FormatError(msg.err.Error())
		} else {
			m.message = ui.FormatChart("Wrote " + msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editingTitle {
			return m.updateTitle(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m exploreModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		m.rerun()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		m.rerun()

	case key.Matches(msg, m.keys.Switch):
		if m.focus == axisX {
			m.focus = axisY
		} else {
			m.focus = axisX
		}

	case key.Matches(msg, m.keys.Abs):
		m.abs = !m.abs
		m.rerun()

	case key.Matches(msg, m.keys.Log):
		m.log = !m.log
		m.rerun()

	case key.Matches(msg, m.keys.Title):
		m.editingTitle = true
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.Write):
		return m, m.writeChart(false)

	case key.Matches(msg, m.keys.Open):
		return m, m.writeChart(true)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m exploreModel) updateTitle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.editingTitle = false
		m.titleInput.Blur()
		m.rerun()
		return m, nil
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *exploreModel) moveCursor(delta int) {
	n := len(m.columns)
	if n == 0 {
		return
	}
	cursor := &m.xCursor
	if m.focus == axisY {
		cursor = &m.yCursor
	}
	*cursor = min(max(*cursor+delta, 0), n-1)
}

func (m exploreModel) writeChart(open bool) tea.Cmd {
	if m.err != nil || m.resp == nil || m.resp.Chart == nil {
		return func() tea.Msg {
			return chartWrittenMsg{err: fmt.Errorf("nothing to write yet")}
		}
	}

	chart := m.resp.Chart
	deps := m.deps
	ctx := m.ctx
	return func() tea.Msg {
		if err := writeChart(ctx, deps.renderer, chart, deps.out); err != nil {
			return chartWrittenMsg{err: err}
		}
		if open && deps.opener != nil {
			if err := deps.opener.Open(ctx, deps.out); err != nil {
				return chartWrittenMsg{path: deps.out, err: err}
			}
		}
		return chartWrittenMsg{path: deps.out}
	}
}

func (m exploreModel) View() string {
	if !m.ready {
		return "\n  Loading explorer..."
	}

	header := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(0, 1).
		Render(fmt.Sprintf("%s  %d files, %d columns", ui.IconChart+" IV Curve Explorer", len(m.files), len(m.columns)))

	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderList("X axis", axisX, m.xCursor),
		"  ",
		m.renderList("Y axis", axisY, m.yCursor),
		"  ",
		m.renderToggles(),
	)

	resultsBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Render(m.results.View())

	footer := m.help.View(m.keys)
	if m.message != "" {
		footer = m.message + "\n" + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", lists, resultsBox, footer)
}

func (m exploreModel) listHeight() int {
	return min(len(m.columns), 12)
}

func (m exploreModel) renderList(title string, a axis, cursor int) string {
	titleStyle := ui.StyleMuted
	if m.focus == a {
		titleStyle = ui.StyleTableHeader
	}

	visible := m.listHeight()
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}

	lines := []string{titleStyle.Render(title)}
	for i := start; i < start+visible && i < len(m.columns); i++ {
		if i == cursor {
			lines = append(lines, ui.StyleAccent.Render("▸ "+m.columns[i]))
		} else {
			lines = append(lines, "  "+m.columns[i])
		}
	}

	return lipgloss.NewStyle().Width(24).Render(strings.Join(lines, "\n"))
}

func (m exploreModel) renderToggles() string {
	check := func(on bool) string {
		if on {
			return ui.StyleSuccess.Render("[x]")
		}
		return ui.StyleMuted.Render("[ ]")
	}

	title := m.titleInput.View()
	if !m.editingTitle {
		title = ui.FormatMuted("title: ") + m.options().Title
		if m.options().Title == "" {
			title = ui.FormatMuted("title: " + domain.DefaultChartTitle)
		}
	}

	return strings.Join([]string{
		ui.StyleTableHeader.Render("Transform"),
		check(m.abs) + " |Y|",
		check(m.log) + " log10(|Y|)",
		"",
		title,
		"",
		ui.FormatMuted("output: " + m.deps.out),
	}, "\n")
}

// resultsText lists drawn series and diagnostics for the current selection
func (m exploreModel) resultsText() string {
	if m.err != nil {
		return ui.FormatError(m.err.Error())
	}
	if m.resp == nil {
		return ""
	}

	var lines []string
	if m.resp.Chart != nil {
		for _, s := range m.resp.Chart.Series {
			lines = append(lines, ui.FormatSeries(s))
		}
		if len(m.resp.Chart.Series) == 0 {
			lines = append(lines, ui.FormatWarning("No file has both columns"))
		}
	}
	for _, d := range m.resp.Diagnostics {
		lines = append(lines, ui.FormatDiagnostic(d))
	}
	return strings.Join(lines, "\n")
}
