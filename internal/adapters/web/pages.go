package web

import (
	"fmt"

	"github.com/kamal-hamza/ivc/internal/core/domain"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

const pageCSS = `
body { font-family: system-ui, sans-serif; margin: 0; background: #fff; color: #1f2328; }
.app { display: grid; grid-template-columns: 300px 1fr; min-height: 100vh; }
.sidebar { padding: 1.25rem; border-right: 1px solid #d0d7de; background: #f6f8fa; }
.main { padding: 1.25rem; }
.sidebar label { display: block; font-weight: 600; margin: 1rem 0 0.25rem; }
.sidebar select, .sidebar input[type=text] { width: 100%; }
.check { font-weight: normal !important; }
.files { font-size: 0.85rem; padding-left: 1rem; }
.diag { list-style: none; padding: 0; }
.diag li { padding: 0.5rem 0.75rem; margin-bottom: 0.5rem; border-radius: 6px; }
.diag-info { background: #ddf4ff; }
.diag-warning { background: #fff8c5; }
.diag-error { background: #ffebe9; }
iframe.chart { border: 0; width: 100%; }
`

// pageData is everything the single page needs for one render pass
type pageData struct {
	Title       string
	Files       []domain.UploadedFile
	Columns     domain.ColumnUniverse
	Options     domain.PlotOptions
	Diagnostics domain.Diagnostics
	ChartHTML   string
	ChartHeight int
}

func appPage(d pageData, body ...Node) Node {
	return Doctype(
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(Text(d.Title)),
				Link(Rel("icon"), Href("data:,")),
				StyleEl(Raw(pageCSS)),
			),
			Body(Group(body)),
		),
	)
}

func viewerPage(d pageData) Node {
	return appPage(d,
		Div(Class("app"),
			Aside(Class("sidebar"), controlsForm(d)),
			Main(Class("main"),
				H1(Text(d.Title)),
				diagnosticsList(d.Diagnostics),
				chartFrame(d),
			),
		),
	)
}

func controlsForm(d pageData) Node {
	carried := make([]Node, 0, len(d.Files))
	names := make([]Node, 0, len(d.Files))
	for _, f := range d.Files {
		carried = append(carried, Input(Type("hidden"), Name(fieldCarried), Value(encodeCarried(f))))
		names = append(names, Li(Text(f.Name)))
	}

	return Form(
		Method("post"),
		Action("/plot"),
		Attr("enctype", "multipart/form-data"),
		Group(carried),

		Label(For("files"), Text("Upload files")),
		Input(
			ID("files"),
			Type("file"),
			Name(fieldFiles),
			Multiple(),
			Accept(".csv,.txt"),
			Attr("onchange", "this.form.submit()"),
		),
		If(len(names) > 0, Ul(Class("files"), Group(names))),

		If(len(d.Columns) > 0, Group([]Node{
			Label(For("x_column"), Text("X axis")),
			columnSelect("x_column", fieldXColumn, d.Columns, d.Options.XColumn),
			Label(For("y_column"), Text("Y axis")),
			columnSelect("y_column", fieldYColumn, d.Columns, d.Options.YColumn),
			Label(Class("check"), checkbox(fieldApplyAbs, d.Options.ApplyAbs), Text(" Absolute value of Y")),
			Label(Class("check"), checkbox(fieldApplyLog, d.Options.ApplyLog), Text(" Log10 of |Y|")),
			Label(For("title"), Text("Chart title")),
			Input(ID("title"), Type("text"), Name(fieldTitle), Value(d.Options.Title), Placeholder(domain.DefaultChartTitle)),
			Div(Button(Type("submit"), Text("Update chart"))),
		})),
	)
}

func columnSelect(id, name string, columns domain.ColumnUniverse, selected string) Node {
	options := make([]Node, 0, len(columns)+1)
	options = append(options, Option(Value(""), Text("Choose a column")))
	for _, c := range columns {
		options = append(options, optionSelected(c, selected))
	}
	return Select(ID(id), Name(name), Attr("onchange", "this.form.submit()"), Group(options))
}

func optionSelected(value, selected string) Node {
	if value == selected {
		return Option(Value(value), Selected(), Text(value))
	}
	return Option(Value(value), Text(value))
}

func checkbox(name string, checked bool) Node {
	return Input(
		Type("checkbox"),
		Name(name),
		Value("on"),
		If(checked, Checked()),
		Attr("onchange", "this.form.submit()"),
	)
}

func diagnosticsList(ds domain.Diagnostics) Node {
	if len(ds) == 0 {
		return nil
	}

	items := make([]Node, 0, len(ds))
	for _, d := range ds {
		items = append(items, Li(Class("diag-"+string(d.Level)), Text(d.String())))
	}
	return Ul(Class("diag"), Group(items))
}

func chartFrame(d pageData) Node {
	if d.ChartHTML == "" {
		return nil
	}
	return IFrame(
		Class("chart"),
		Title("chart"),
		Attr("srcdoc", d.ChartHTML),
		Attr("height", fmt.Sprintf("%d", d.ChartHeight+40)),
	)
}
