package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"maragu.dev/gomponents"

	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/services"
)

// pageTitle is shown in the browser tab and as the page heading
const pageTitle = "IV Curve Viewer"

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

// Index shows the empty viewer with the upload form
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	resp, err := s.plot.Execute(r.Context(), services.PlotRequest{})
	if err != nil {
		s.renderPageError(w, http.StatusInternalServerError, pageData{}, err)
		return
	}

	renderHTML(w, http.StatusOK, viewerPage(pageData{
		Title:       pageTitle,
		Diagnostics: resp.Diagnostics,
	}))
}

// Plot runs the pipeline for an upload or a re-post of carried files
func (s *Server) Plot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	form, err := decodePlotForm(r)
	if err != nil {
		s.renderPageError(w, formErrorStatus(err), pageData{}, err)
		return
	}

	data := pageData{
		Title:   pageTitle,
		Files:   form.uploadedFiles(),
		Options: form.options(),
	}

	if err := s.validate.Struct(form); err != nil {
		data.Diagnostics = messagesToDiagnostics(validationMessages(err))
		data.Files = nil
		renderHTML(w, http.StatusBadRequest, viewerPage(data))
		return
	}

	resp, err := s.run(r.Context(), data.Files, &data.Options, true)
	if err != nil {
		s.renderPageError(w, http.StatusUnprocessableEntity, data, err)
		return
	}

	data.Columns = resp.Columns
	data.Diagnostics = resp.Diagnostics

	if resp.Chart != nil {
		var buf bytes.Buffer
		if err := s.renderer.Render(r.Context(), &buf, resp.Chart); err != nil {
			s.renderPageError(w, http.StatusInternalServerError, data, err)
			return
		}
		data.ChartHTML = buf.String()
		data.ChartHeight = s.opts.ChartHeight
	}

	renderHTML(w, http.StatusOK, viewerPage(data))
}

// APIPlot runs the same pipeline and answers with JSON
func (s *Server) APIPlot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	form, err := decodePlotForm(r)
	if err != nil {
		render.Status(r, formErrorStatus(err))
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	if err := s.validate.Struct(form); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request", Details: validationMessages(err)})
		return
	}

	opts := form.options()
	resp, err := s.run(r.Context(), form.uploadedFiles(), &opts, false)
	if err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	render.JSON(w, r, newPlotResponse(resp))
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// run executes the pipeline. With clearStale set (the HTML page), a
// selection missing from the column universe is cleared and the pipeline
// re-run so the page falls back to the column pickers.
func (s *Server) run(ctx context.Context, files []domain.UploadedFile, opts *domain.PlotOptions, clearStale bool) (*services.PlotResponse, error) {
	resp, err := s.plot.Execute(ctx, services.PlotRequest{Files: files, Options: *opts})
	if err == nil && clearStale && clearStaleSelection(opts, resp.Columns) {
		resp, err = s.plot.Execute(ctx, services.PlotRequest{Files: files, Options: *opts})
	}
	if err != nil {
		s.metrics.ObserveLoadFailure(len(files))
		s.logger.WarnContext(ctx, "load failed", slog.Int("files", len(files)), slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.ObservePlot(len(files), resp)
	return resp, nil
}

// clearStaleSelection drops page selections that are not in the column
// universe, which happens after a fresh upload replaces the carried files.
// It reports whether anything was cleared.
func clearStaleSelection(opts *domain.PlotOptions, columns domain.ColumnUniverse) bool {
	if !opts.HasSelection() || len(columns) == 0 || opts.Validate(columns) == nil {
		return false
	}
	if !columns.Contains(opts.XColumn) {
		opts.XColumn = ""
	}
	if !columns.Contains(opts.YColumn) {
		opts.YColumn = ""
	}
	return true
}

func (s *Server) renderPageError(w http.ResponseWriter, status int, data pageData, err error) {
	s.logger.Error("request failed", slog.Int("status", status), slog.String("error", err.Error()))

	data.Title = pageTitle
	data.Diagnostics = append(data.Diagnostics, domain.Diagnostic{Level: domain.LevelError, Message: err.Error()})
	renderHTML(w, status, viewerPage(data))
}

func formErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func messagesToDiagnostics(msgs []string) domain.Diagnostics {
	ds := make(domain.Diagnostics, len(msgs))
	for i, m := range msgs {
		ds[i] = domain.Diagnostic{Level: domain.LevelError, Message: m}
	}
	return ds
}
