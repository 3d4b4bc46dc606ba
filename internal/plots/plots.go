// Package plots renders the static gallery images from the dataset. File
// names follow the patterns the gallery classifies on.
package plots

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"countrydash/internal/analysis"
	"countrydash/internal/dataset"
	"countrydash/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const unknownRegion = "Unknown"

// ScatterSpec describes one scatter plot. ByRegion colors points by Region.
type ScatterSpec struct {
	File     string
	X, Y     string
	ByRegion bool
}

// DefaultScatters are the scatter plots written by Generate
var DefaultScatters = []ScatterSpec{
	{File: "gdp_population_by_region.png", X: "Population", Y: "GDP", ByRegion: true},
	{File: "gdp_literacy_by_region.png", X: "Literacy", Y: "GDP", ByRegion: true},
	{File: "population_area_by_region.png", X: "Area", Y: "Population", ByRegion: true},
	{File: "Birthrate_vs_GDP_by_region.png", X: "Birthrate", Y: "GDP", ByRegion: true},
	{File: "Birthrate_vs_Infant_mortality.png", X: "Birthrate", Y: "Infant mortality"},
	{File: "GDP_vs_Literacy.png", X: "GDP", Y: "Literacy"},
	{File: "Deathrate_vs_Birthrate.png", X: "Deathrate", Y: "Birthrate"},
}

// DefaultHistograms maps histogram image names to their columns
var DefaultHistograms = []struct{ File, Column string }{
	{File: "birthrate_histogram.png", Column: "Birthrate"},
	{File: "literacy_histogram.png", Column: "Literacy"},
}

// SectorColumns are the economy shares compared per region
var SectorColumns = []string{"Agriculture", "Industry", "Service"}

// Generator writes gallery images for a dataset
type Generator struct {
	ds     *dataset.Dataset
	outDir string
	Width  vg.Length
	Height vg.Length
}

// NewGenerator creates a generator writing into outDir
func NewGenerator(ds *dataset.Dataset, outDir string) *Generator {
	return &Generator{ds: ds, outDir: outDir, Width: 8 * vg.Inch, Height: 6 * vg.Inch}
}

// Generate writes every plot the dataset has data for and returns the file
// names written. Plots whose columns are absent or too sparse are skipped.
func (g *Generator) Generate() ([]string, error) {
	if g.ds.IsEmpty() {
		return nil, errors.NoData("dataset has no columns to plot")
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", g.outDir)
	}

	var written []string
	record := func(name string, err error) error {
		switch {
		case err == nil:
			log.Printf("[Plots] Wrote %s", filepath.Join(g.outDir, name))
			written = append(written, name)
			return nil
		case errors.Is(err, errors.CodeInsufficientData), errors.Is(err, errors.CodeNotFound):
			log.Printf("[Plots] Skipping %s: %v", name, err)
			return nil
		default:
			return errors.Wrapf(err, "failed to render %s", name)
		}
	}

	for _, spec := range DefaultScatters {
		if err := record(spec.File, g.Scatter(spec)); err != nil {
			return written, err
		}
	}
	for _, h := range DefaultHistograms {
		if err := record(h.File, g.Histogram(h.File, h.Column)); err != nil {
			return written, err
		}
	}
	if err := record("correlation_matrix.png", g.CorrelationHeatmap("correlation_matrix.png", analysis.DemographicVariables)); err != nil {
		return written, err
	}
	if err := record("economic_sectors_by_region.png", g.SectorBars("economic_sectors_by_region.png")); err != nil {
		return written, err
	}
	return written, nil
}

// Scatter renders Y against X over the rows where both are present
func (g *Generator) Scatter(spec ScatterSpec) error {
	x, err := g.column(spec.X)
	if err != nil {
		return err
	}
	y, err := g.column(spec.Y)
	if err != nil {
		return err
	}

	groups := make(map[string]plotter.XYs)
	for i := 0; i < g.ds.Len(); i++ {
		xv, okX := x.At(i)
		yv, okY := y.At(i)
		if !okX || !okY {
			continue
		}
		key := ""
		if spec.ByRegion {
			key = unknownRegion
			if region := g.ds.Text("Region", i); region != nil {
				key = *region
			}
		}
		groups[key] = append(groups[key], plotter.XY{X: xv, Y: yv})
	}
	if countPoints(groups) < analysis.MinObservations {
		return errors.InsufficientData(fmt.Sprintf("fewer than %d rows with both %s and %s", analysis.MinObservations, spec.X, spec.Y))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", spec.Y, spec.X)
	if r, ok := analysis.Correlation(x.Values, y.Values); ok {
		p.Title.Text += fmt.Sprintf(" (r = %.2f)", r)
	}
	p.X.Label.Text = spec.X
	p.Y.Label.Text = spec.Y
	p.Add(plotter.NewGrid())

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, key := range keys {
		scatter, err := plotter.NewScatter(groups[key])
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = plotutil.Color(i)
		p.Add(scatter)
		if key != "" {
			p.Legend.Add(key, scatter)
		}
	}
	p.Legend.Top = true

	return g.save(p, spec.File)
}

// Histogram renders the same 10-bucket histogram the dashboard shows
func (g *Generator) Histogram(file, column string) error {
	col, err := g.column(column)
	if err != nil {
		return err
	}
	h, err := analysis.ComputeHistogram(col.Values, analysis.DefaultBins)
	if err != nil {
		return err
	}

	values := make(plotter.Values, len(h.Counts))
	for i, c := range h.Counts {
		values[i] = float64(c)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s distribution", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "Countries"

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(h.Labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return g.save(p, file)
}

// CorrelationHeatmap renders the correlation matrix of variables as a
// blue-red heat map with the coefficient printed in each cell
func (g *Generator) CorrelationHeatmap(file string, variables []string) error {
	m := analysis.CorrelationMatrix(g.ds, variables, 2)
	defined := 0
	for _, row := range m.Values {
		for _, cell := range row {
			if cell != nil {
				defined++
			}
		}
	}
	if defined == 0 {
		return errors.InsufficientData("no defined correlations")
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)

	heat := plotter.NewHeatMap(matrixGrid{m}, colors.Palette(255))
	heat.Min, heat.Max = -1, 1
	heat.NaN = color.Gray{Y: 230}

	var cells plotter.XYLabels
	for r, row := range m.Values {
		for c, cell := range row {
			cells.XYs = append(cells.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			cells.Labels = append(cells.Labels, formatCell(cell))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.Title.Text = "Correlation matrix"
	p.Add(heat, labels)
	p.NominalX(m.Variables...)
	p.NominalY(m.Variables...)

	return g.save(p, file)
}

// SectorBars renders the mean Agriculture, Industry and Service share of
// each region as grouped bars
func (g *Generator) SectorBars(file string) error {
	sectors := make(map[string]dataset.Column, len(SectorColumns))
	for _, name := range SectorColumns {
		col, err := g.column(name)
		if err != nil {
			return err
		}
		sectors[name] = col
	}

	rowsByRegion := make(map[string][]int)
	for i := 0; i < g.ds.Len(); i++ {
		if region := g.ds.Text("Region", i); region != nil {
			rowsByRegion[*region] = append(rowsByRegion[*region], i)
		}
	}
	if len(rowsByRegion) == 0 {
		return errors.InsufficientData("no regions to group by")
	}
	regions := make([]string, 0, len(rowsByRegion))
	for region := range rowsByRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	p := plot.New()
	p.Title.Text = "Economic sectors by region"
	p.Y.Label.Text = "Mean share of GDP"

	width := vg.Points(10)
	for s, name := range SectorColumns {
		means := make(plotter.Values, len(regions))
		for r, region := range regions {
			values := make([]float64, 0, len(rowsByRegion[region]))
			for _, row := range rowsByRegion[region] {
				values = append(values, sectors[name].Values[row])
			}
			if mean, ok := analysis.Mean(values); ok {
				means[r] = mean
			}
		}
		bars, err := plotter.NewBarChart(means, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(s)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(s-len(SectorColumns)/2)
		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.Legend.Top = true
	p.NominalX(regions...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return g.save(p, file)
}

func (g *Generator) column(name string) (dataset.Column, error) {
	col, ok := g.ds.Column(name)
	if !ok {
		return col, errors.NotFound(fmt.Sprintf("numeric column %q", name))
	}
	return col, nil
}

func (g *Generator) save(p *plot.Plot, file string) error {
	return p.Save(g.Width, g.Height, filepath.Join(g.outDir, file))
}

func countPoints(groups map[string]plotter.XYs) int {
	n := 0
	for _, xys := range groups {
		n += len(xys)
	}
	return n
}

func formatCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// matrixGrid adapts a correlation matrix to plotter.GridXYZ
type matrixGrid struct {
	m analysis.Matrix
}

func (g matrixGrid) Dims() (c, r int) {
	n := len(g.m.Variables)
	return n, n
}

func (g matrixGrid) Z(c, r int) float64 {
	if v := g.m.Values[r][c]; v != nil {
		return *v
	}
	return math.NaN()
}

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }
