package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"countrydash/internal/dataset"
	"countrydash/internal/gallery"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func countryRecords() [][]string {
	return [][]string{
		{"Country", "Region", "Population", "Area", "GDP", "Birthrate", "Deathrate", "Infant mortality", "Literacy"},
		{"Aland", "NORDIC", "10", "1", "1000", "10.5", "5", "3", "99"},
		{"Borduria", "BALKANS", "20", "2", "N/A", "20.25", "8", "12", "85"},
		{"Carpania", "BALKANS", "30", "3", "3000", "30", "11", "30", "N/A"},
	}
}

func newTestServer(t *testing.T, records [][]string, builder *gallery.Builder) *Server {
	t.Helper()
	var ds *dataset.Dataset
	if records != nil {
		var err error
		ds, err = dataset.FromRecords(records, dataset.NumericColumns)
		require.NoError(t, err)
	}
	s := NewServer(os.DirFS("."))
	require.NoError(t, s.Initialize(ds, builder))
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestScatterAPI_PerfectCorrelation(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/scatter/Population/Area")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.InDelta(t, 1.0, body["correlation"], 1e-9)

	rows, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 3)
	first := rows[0].(map[string]interface{})
	assert.Equal(t, "Aland", first["Country"])
	assert.Equal(t, "NORDIC", first["Region"])
	assert.Equal(t, 10.0, first["Population"])
	assert.Equal(t, 1.0, first["Area"])
	assert.Len(t, first, 4)

	assert.True(t, strings.HasPrefix(rec.Body.String(), `{"data":[{"Country":"Aland","Region":"NORDIC","Population":10,"Area":1}`))
}

func TestScatterAPI_MissingAndUndefined(t *testing.T) {
	s := newTestServer(t, [][]string{
		{"Country", "Region", "Population", "GDP"},
		{"Aland", "NORDIC", "10", "N/A"},
		{"Borduria", "", "20", "5"},
	}, nil)

	rec := get(t, s.router, "/api/scatter/Population/GDP")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Nil(t, body["correlation"], "one paired row is not enough")
	rows := body["data"].([]interface{})
	assert.Nil(t, rows[0].(map[string]interface{})["GDP"])
	assert.Nil(t, rows[1].(map[string]interface{})["Region"])
}

func TestScatterAPI_SameVariableTwice(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	body := decode(t, get(t, s.router, "/api/scatter/GDP/GDP"))
	assert.InDelta(t, 1.0, body["correlation"], 1e-9)
	assert.Len(t, body["data"].([]interface{})[0], 3)
}

func TestScatterAPI_InvalidVariables(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/scatter/Population/Nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid variable names", decode(t, rec)["error"])

	rec = get(t, s.router, "/api/scatter/Country/Area")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec), "error")
}

func TestHistogramAPI_UnknownVariable(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/histogram/Unknown")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"error": "Invalid variable name"}, decode(t, rec))
}

func TestHistogramAPI_TextColumn(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/histogram/Region")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Variable is not numeric", decode(t, rec)["error"])
}

func TestHistogramAPI_Bins(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/histogram/Infant%20mortality")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	counts := body["counts"].([]interface{})
	edges := body["edges"].([]interface{})
	labels := body["labels"].([]interface{})
	require.Len(t, counts, 10)
	require.Len(t, edges, 11)
	require.Len(t, labels, 10)

	total := 0.0
	for _, c := range counts {
		total += c.(float64)
	}
	assert.Equal(t, 3.0, total)
	assert.Equal(t, 3.0, edges[0])
	assert.Equal(t, 30.0, edges[10])
	assert.Equal(t, "3.0-5.7", labels[0])
	assert.Equal(t, 0.0, body["tallest_idx"])
	assert.Equal(t, 1.0, body["tallest_count"])
	assert.Equal(t, 3.0, body["tallest_lower"])
	assert.Equal(t, 5.7, body["tallest_upper"])
	assert.NotContains(t, body, "insufficient_data")
}

func TestHistogramAPI_InsufficientData(t *testing.T) {
	s := newTestServer(t, [][]string{
		{"Country", "Birthrate"},
		{"Aland", "12"},
		{"Borduria", "N/A"},
	}, nil)

	rec := get(t, s.router, "/api/histogram/Birthrate")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["insufficient_data"])
	assert.Equal(t, []interface{}{}, body["counts"])
	assert.Equal(t, []interface{}{}, body["edges"])
	assert.Nil(t, body["tallest_idx"])
	assert.Contains(t, body["message"], "Not enough data")
}

func TestCountriesAPI_ColumnOrderAndNulls(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/countries")
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Nil(t, rows[1]["GDP"])
	assert.Nil(t, rows[2]["Literacy"])
	assert.Equal(t, 20.25, rows[1]["Birthrate"])
	assert.True(t, strings.HasPrefix(rec.Body.String(), `[{"Country":"Aland","Region":"NORDIC","Population":10,"Area":1,"GDP":1000`))
}

func TestCountriesAPI_EmptyDataset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := get(t, s.router, "/api/countries")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCorrelationMatrixAPI(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/api/correlation-matrix")
	require.Equal(t, http.StatusOK, rec.Code)

	var body MatrixResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Birthrate", "Deathrate", "Infant mortality", "GDP"}, body.Variables)
	require.Len(t, body.Matrix, 4)
	for i, row := range body.Matrix {
		require.Len(t, row, 4)
		require.NotNil(t, row[i])
		assert.Equal(t, 1.0, *row[i])
	}
	require.NotNil(t, body.Matrix[3][0])
	assert.Equal(t, 1.0, *body.Matrix[3][0], "two paired points are always perfectly correlated")
	require.NotNil(t, body.Matrix[0][2])
	assert.Equal(t, 0.98, *body.Matrix[0][2])
	assert.Equal(t, body.Matrix[0][2], body.Matrix[2][0])
}

func TestCorrelationMatrixAPI_EmptyDataset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	var body MatrixResponse
	require.NoError(t, json.Unmarshal(get(t, s.router, "/api/correlation-matrix").Body.Bytes(), &body))
	require.Len(t, body.Matrix, 4)
	for _, row := range body.Matrix {
		assert.Equal(t, []*float64{nil, nil, nil, nil}, row)
	}
}

func TestAPIPanicReturnsJSON(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)
	s.router.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	rec := get(t, s.router, "/api/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", decode(t, rec)["error"])
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, `<p class="stat-value" id="countries-count">3</p>`)
	assert.Contains(t, html, `<p class="stat-value" id="total-population">60</p>`)
	assert.Contains(t, html, `<p class="stat-value" id="avg-gdp">$2,000.00</p>`)
	assert.Less(t, strings.Index(html, "BALKANS"), strings.Index(html, "NORDIC"))
	assert.NotContains(t, html, "page-error")
}

func TestIndexPage_EmptyDataset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := get(t, s.router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "No data available")
	assert.Contains(t, html, `id="total-population">N/A</p>`)
	assert.Contains(t, html, `id="avg-gdp">N/A</p>`)
}

func TestHistogramsPage(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/histograms")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, `id="Birthrate-histogram"`)
	assert.Contains(t, html, `id="Literacy-histogram"`)
	assert.Contains(t, html, "<strong>10.5-12.45</strong>")
	assert.NotContains(t, html, "Not enough data")
}

func TestHistogramsPage_NotEnoughData(t *testing.T) {
	s := newTestServer(t, [][]string{
		{"Country", "Birthrate", "Literacy"},
		{"Aland", "12", "99"},
		{"Borduria", "14", ""},
	}, nil)

	rec := get(t, s.router, "/histograms")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "Not enough data to generate histograms")
	assert.NotContains(t, html, "histogram-chart")
}

func TestScatterPage(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	rec := get(t, s.router, "/scatter")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, `<strong id="pop-area-corr">1.00</strong>`)
	assert.Contains(t, html, `<option value="Infant mortality">Infant mortality</option>`)
	assert.NotContains(t, html, `<option value="Country">`)
	assert.Equal(t, 16, strings.Count(html, `<td class="corr-`))
	assert.Contains(t, html, `<td class="corr-strong-pos">0.98</td>`)
}

func TestScatterPage_EmptyDataset(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := get(t, s.router, "/scatter")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "No data available")
	assert.Contains(t, html, `<strong id="pop-area-corr">N/A</strong>`)
	assert.Equal(t, 16, strings.Count(html, `<td class="corr-none">N/A</td>`))
}

func TestVisualizationsPageAndImages(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "plots")
	require.NoError(t, os.MkdirAll(source, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "birthrate_histogram.png"), []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "birthrate_histogram.md"), []byte("Built from **all** countries."), 0o644))

	builder := gallery.NewBuilder(gallery.Config{
		ServedDir: filepath.Join(root, "static", "visualizations"),
		Sources:   []string{source},
	})
	s := newTestServer(t, countryRecords(), builder)
	h := s.Handler()

	rec := get(t, h, "/visualizations")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "Birthrate Histogram")
	assert.Contains(t, html, "Regional Analysis")
	assert.Contains(t, html, "Variable Correlations")
	assert.Contains(t, html, "<strong>all</strong>")
	assert.Contains(t, html, `src="/static/visualizations/birthrate_histogram.png"`)

	rec = get(t, h, "/static/visualizations/birthrate_histogram.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = get(t, h, "/static/visualizations/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/static/visualizations/..%2f..%2fplots%2fbirthrate_histogram.md")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVisualizationsPage_NoImages(t *testing.T) {
	root := t.TempDir()
	builder := gallery.NewBuilder(gallery.Config{ServedDir: filepath.Join(root, "served")})
	s := newTestServer(t, countryRecords(), builder)

	rec := get(t, s.router, "/visualizations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="gallery-empty"`)
}

func TestVisualizationsPage_BuildError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	builder := gallery.NewBuilder(gallery.Config{ServedDir: filepath.Join(blocker, "served")})
	s := newTestServer(t, countryRecords(), builder)

	rec := get(t, s.router, "/visualizations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="page-error"`)
}

func TestHandlerChain(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)
	h := s.Handler()

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/static/css/dashboard.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".stat-card")

	rec = get(t, h, "/static/js/nope.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/correlation-matrix")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestIDIsReused(t *testing.T) {
	s := newTestServer(t, countryRecords(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestBuildView_RecoversPanic(t *testing.T) {
	view := buildView("test", func() (HomeView, error) {
		panic("exploded")
	}, func(message string) HomeView {
		return HomeView{Page: Page{Error: message}, TotalPopulation: notAvailable}
	})

	assert.Equal(t, "exploded", view.Error)
	assert.Equal(t, notAvailable, view.TotalPopulation)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,567", formatGrouped(1234567))
	assert.Equal(t, "$12,345.68", formatDollars(12345.678))

	r := 0.456
	assert.Equal(t, "0.46", formatCorrelation(&r))
	assert.Equal(t, "N/A", formatCorrelation(nil))
	assert.Equal(t, "corr-moderate-pos", correlationClass(&r))
	neg := -0.9
	assert.Equal(t, "corr-strong-neg", correlationClass(&neg))
}
