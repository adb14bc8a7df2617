package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/ivc/internal/adapters/parser"
	"github.com/kamal-hamza/ivc/internal/adapters/render"
	"github.com/kamal-hamza/ivc/internal/core/domain"
	"github.com/kamal-hamza/ivc/internal/core/services"
)

const (
	fileA = "V,I\n0,1\n1,2\n"
	fileB = "V,I\n0,-3\n1,4\n"
	fileC = "V,Current\n0,1\n"
)

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()

	loader := services.NewLoadService(parser.NewDelimitedParser(), false)
	overlay := services.NewOverlayService(nil, "")
	plot := services.NewPlotService(loader, overlay)
	renderer := render.NewEChartsRenderer(render.Options{Width: 800, Height: 500, MarkerSize: 10, PageTitle: render.PageTitle})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewServer(plot, renderer, logger, opts)
}

type upload struct {
	name    string
	content string
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(fieldFiles, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func TestIndex_ShowsUploadPrompt(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, services.MsgNoFiles)
	assert.Contains(t, body, `accept=".csv,.txt"`)
	assert.NotContains(t, body, "<iframe")
}

func TestPlot_UploadWithoutSelection(t *testing.T) {
	s := newTestServer(t, Options{})

	req := multipartRequest(t, "/plot", nil, upload{"A.csv", fileA}, upload{"B.csv", fileB})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, services.MsgPickColumns)
	assert.Contains(t, body, `<option value="V">V</option>`)
	assert.Contains(t, body, `<option value="I">I</option>`)
	assert.Equal(t, 2, strings.Count(body, `name="carried"`))
	assert.NotContains(t, body, "<iframe")
}

func TestPlot_RendersChart(t *testing.T) {
	s := newTestServer(t, Options{})

	fields := map[string]string{fieldXColumn: "V", fieldYColumn: "I", fieldApplyLog: "on"}
	req := multipartRequest(t, "/plot", fields, upload{"A.csv", fileA}, upload{"B.csv", fileB})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<iframe")
	assert.Contains(t, body, "srcdoc=")
	assert.Contains(t, body, `<option value="V" selected>V</option>`)
	assert.NotContains(t, body, services.MsgPickColumns)
}

func TestPlot_SkipsFileMissingColumn(t *testing.T) {
	s := newTestServer(t, Options{})

	fields := map[string]string{fieldXColumn: "V", fieldYColumn: "I"}
	req := multipartRequest(t, "/plot", fields, upload{"A.csv", fileA}, upload{"C.csv", fileC})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="diag-warning"`)
	assert.Contains(t, body, "C.csv: missing column")
	assert.NotContains(t, body, "file C.csv")
	assert.Contains(t, body, "<iframe")
}

func TestPlot_ReusesCarriedFiles(t *testing.T) {
	s := newTestServer(t, Options{})

	form := url.Values{}
	form.Add(fieldCarried, encodeCarried(domain.UploadedFile{Name: "A.csv", Content: []byte(fileA)}))
	form.Add(fieldCarried, encodeCarried(domain.UploadedFile{Name: "B.csv", Content: []byte(fileB)}))
	form.Set(fieldXColumn, "V")
	form.Set(fieldYColumn, "I")
	form.Set(fieldApplyAbs, "on")

	req := httptest.NewRequest(http.MethodPost, "/plot", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<iframe")
	assert.Contains(t, body, "<li>A.csv</li>")
	assert.Contains(t, body, "<li>B.csv</li>")
}

func TestPlot_ClearsStaleSelection(t *testing.T) {
	s := newTestServer(t, Options{})

	fields := map[string]string{fieldXColumn: "Vg", fieldYColumn: "I"}
	req := multipartRequest(t, "/plot", fields, upload{"A.csv", fileA})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, services.MsgPickColumns)
	assert.Contains(t, body, `<option value="I" selected>I</option>`)
	assert.NotContains(t, body, "<iframe")
}

func TestPlot_RejectsUnsupportedExtension(t *testing.T) {
	s := newTestServer(t, Options{})

	req := multipartRequest(t, "/plot", nil, upload{"notes.pdf", fileA})
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestPlot_UploadTooLarge(t *testing.T) {
	s := newTestServer(t, Options{MaxUploadBytes: 64})

	req := multipartRequest(t, "/plot", nil, upload{"A.csv", strings.Repeat("1,2\n", 200)})
	rec := serve(s, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAPIPlot_JSON(t *testing.T) {
	s := newTestServer(t, Options{})

	fields := map[string]string{fieldXColumn: "V", fieldYColumn: "I"}
	gappy := "V,I\n0,1\n1,oops\n2,3\n"
	req := multipartRequest(t, "/api/plot", fields, upload{"A.csv", gappy}, upload{"C.csv", fileC})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp struct {
		Columns []string `json:"columns"`
		Series  []struct {
			Name   string        `json:"name"`
			Color  string        `json:"color"`
			Points [][2]*float64 `json:"points"`
		} `json:"series"`
		Diagnostics []domain.Diagnostic `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{"Current", "I", "V"}, resp.Columns)
	require.Len(t, resp.Series, 1)
	assert.Equal(t, "A.csv", resp.Series[0].Name)
	assert.Equal(t, "blue", resp.Series[0].Color)
	require.Len(t, resp.Series[0].Points, 3)
	assert.Nil(t, resp.Series[0].Points[1][1], "non-numeric cell should be null")
	require.NotNil(t, resp.Series[0].Points[2][1])
	assert.Equal(t, 3.0, *resp.Series[0].Points[2][1])

	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, domain.LevelWarning, resp.Diagnostics[0].Level)
	assert.Equal(t, "C.csv", resp.Diagnostics[0].File)
}

func TestAPIPlot_KeepsExplicitSelection(t *testing.T) {
	s := newTestServer(t, Options{})

	fields := map[string]string{fieldXColumn: "V", fieldYColumn: "Foo"}
	req := multipartRequest(t, "/api/plot", fields, upload{"A.csv", fileA}, upload{"C.csv", fileC})
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		YLabel      string              `json:"y_label"`
		Series      []json.RawMessage   `json:"series"`
		Diagnostics []domain.Diagnostic `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Foo", resp.YLabel)
	assert.Len(t, resp.Series, 0)
	require.Len(t, resp.Diagnostics, 2)
	for i, file := range []string{"A.csv", "C.csv"} {
		assert.Equal(t, domain.LevelWarning, resp.Diagnostics[i].Level)
		assert.Equal(t, file, resp.Diagnostics[i].File)
		assert.Contains(t, resp.Diagnostics[i].Message, `"Foo"`)
	}
}

func TestAPIPlot_ValidationError(t *testing.T) {
	s := newTestServer(t, Options{})

	req := multipartRequest(t, "/api/plot", nil, upload{"data.xlsx", fileA})
	rec := serve(s, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Contains(t, resp.Details[0], ".xlsx")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, Options{})
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ivc_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestDecodeCarried_RoundTrip(t *testing.T) {
	f := domain.UploadedFile{Name: "weird:name.csv", Content: []byte("V;I\n1;2\n")}

	got, err := decodeCarried(encodeCarried(f))
	require.NoError(t, err)
	assert.Equal(t, f.Name, got.Name)
	assert.Equal(t, f.Content, got.Content)

	_, err = decodeCarried("no-separator")
	assert.Error(t, err)
}
