package ui

import (
	"fmt"
	"log"
	"sort"

	"countrydash/internal/analysis"
	"countrydash/internal/dataset"
	"countrydash/internal/errors"
	"countrydash/internal/gallery"
)

const notEnoughHistogramData = "Not enough data to generate histograms"

// Page carries what every page template needs besides its own view
type Page struct {
	Title  string
	Active string
	Error  string
}

// HomeView is the landing page summary
type HomeView struct {
	Page
	Regions         []string
	CountriesCount  int
	TotalPopulation string
	AvgGDP          string
}

// HistogramPanel is one histogram chart on the histograms page
type HistogramPanel struct {
	Variable     string
	Counts       []int
	Labels       []string
	TallestCount int
	TallestLower float64
	TallestUpper float64
}

// HistogramsView holds the Birthrate and Literacy histograms
type HistogramsView struct {
	Page
	Birthrate HistogramPanel
	Literacy  HistogramPanel
}

// ScatterView holds the scatter page defaults
type ScatterView struct {
	Page
	Variables       []string
	PopAreaCorr     string
	DemographicVars []string
	Matrix          analysis.Matrix
}

// VisualizationsView is the image gallery
type VisualizationsView struct {
	Page
	gallery.Catalog
}

type gallerySection struct {
	Heading string
	ID      string
	Items   []gallery.Item
}

// buildView runs build and converts an error or panic into the fallback view,
// so a page always renders
func buildView[T any](name string, build func() (T, error), fallback func(message string) T) (view T) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Pages] Recovered panic building %s: %v", name, r)
			view = fallback(fmt.Sprint(r))
		}
	}()

	view, err := build()
	if err != nil {
		log.Printf("[Pages] Error building %s: %v", name, err)
		return fallback(err.Error())
	}
	return view
}

// BuildHomeView summarizes the dataset for the landing page
func BuildHomeView(ds *dataset.Dataset) HomeView {
	page := Page{Title: "Dashboard", Active: "home"}
	return buildView("home", func() (HomeView, error) {
		if ds.IsEmpty() {
			return HomeView{}, errors.NoData("No data available")
		}
		view := HomeView{
			Page:            page,
			Regions:         distinctRegions(ds),
			CountriesCount:  ds.Len(),
			TotalPopulation: notAvailable,
			AvgGDP:          notAvailable,
		}
		if population, ok := ds.Column("Population"); ok {
			if sum, ok := analysis.Sum(population.Values); ok {
				view.TotalPopulation = formatGrouped(sum)
			}
		}
		if gdp, ok := ds.Column("GDP"); ok {
			if mean, ok := analysis.Mean(gdp.Values); ok {
				view.AvgGDP = formatDollars(mean)
			}
		}
		return view, nil
	}, func(message string) HomeView {
		p := page
		p.Error = message
		return HomeView{Page: p, Regions: []string{}, TotalPopulation: notAvailable, AvgGDP: notAvailable}
	})
}

// distinctRegions returns the sorted distinct non-missing regions
func distinctRegions(ds *dataset.Dataset) []string {
	seen := make(map[string]bool)
	regions := []string{}
	for i := 0; i < ds.Len(); i++ {
		region := ds.Text("Region", i)
		if region == nil || seen[*region] {
			continue
		}
		seen[*region] = true
		regions = append(regions, *region)
	}
	sort.Strings(regions)
	return regions
}

// BuildHistogramsView bins Birthrate and Literacy. Either column holding
// fewer than two values blanks both charts.
func BuildHistogramsView(ds *dataset.Dataset) HistogramsView {
	page := Page{Title: "Histograms", Active: "histograms"}
	empty := func(message string) HistogramsView {
		p := page
		p.Error = message
		return HistogramsView{
			Page:      p,
			Birthrate: emptyPanel("Birthrate"),
			Literacy:  emptyPanel("Literacy"),
		}
	}

	return buildView("histograms", func() (HistogramsView, error) {
		birthrate, err := histogramPanel(ds, "Birthrate")
		if err != nil {
			return HistogramsView{}, err
		}
		literacy, err := histogramPanel(ds, "Literacy")
		if err != nil {
			return HistogramsView{}, err
		}
		return HistogramsView{Page: page, Birthrate: birthrate, Literacy: literacy}, nil
	}, empty)
}

func histogramPanel(ds *dataset.Dataset, variable string) (HistogramPanel, error) {
	col, _ := ds.Column(variable)
	h, err := analysis.ComputeHistogram(col.Values, analysis.DefaultBins)
	if errors.Is(err, errors.CodeInsufficientData) {
		return HistogramPanel{}, errors.InsufficientData(notEnoughHistogramData)
	}
	if err != nil {
		return HistogramPanel{}, errors.Wrapf(err, "%s histogram", variable)
	}
	return HistogramPanel{
		Variable:     variable,
		Counts:       h.Counts,
		Labels:       h.Labels,
		TallestCount: h.TallestCount,
		TallestLower: h.TallestLower,
		TallestUpper: h.TallestUpper,
	}, nil
}

func emptyPanel(variable string) HistogramPanel {
	return HistogramPanel{Variable: variable, Counts: []int{}, Labels: []string{}}
}

// BuildScatterView lists the axis candidates and computes the default
// correlations
func BuildScatterView(ds *dataset.Dataset) ScatterView {
	page := Page{Title: "Scatter Plots", Active: "scatter"}
	return buildView("scatter", func() (ScatterView, error) {
		if ds.IsEmpty() {
			return ScatterView{}, errors.NoData("No data available")
		}
		view := ScatterView{
			Page:            page,
			Variables:       ds.NumericColumns(),
			PopAreaCorr:     notAvailable,
			DemographicVars: analysis.DemographicVariables,
			Matrix:          analysis.CorrelationMatrix(ds, analysis.DemographicVariables, 2),
		}
		population, okPop := ds.Column("Population")
		area, okArea := ds.Column("Area")
		if okPop && okArea {
			if r, ok := analysis.Correlation(population.Values, area.Values); ok {
				view.PopAreaCorr = formatCorrelation(&r)
			}
		}
		return view, nil
	}, func(message string) ScatterView {
		p := page
		p.Error = message
		return ScatterView{
			Page:            p,
			Variables:       []string{},
			PopAreaCorr:     notAvailable,
			DemographicVars: analysis.DemographicVariables,
			Matrix:          analysis.CorrelationMatrix(dataset.Empty(), analysis.DemographicVariables, 2),
		}
	})
}

// BuildVisualizationsView builds the gallery catalog
func BuildVisualizationsView(builder *gallery.Builder) VisualizationsView {
	page := Page{Title: "Visualizations", Active: "visualizations"}
	return buildView("visualizations", func() (VisualizationsView, error) {
		if builder == nil {
			return VisualizationsView{Page: page}, nil
		}
		catalog, err := builder.Build()
		if err != nil {
			return VisualizationsView{}, err
		}
		return VisualizationsView{Page: page, Catalog: catalog}, nil
	}, func(message string) VisualizationsView {
		p := page
		p.Error = message
		return VisualizationsView{Page: p}
	})
}
