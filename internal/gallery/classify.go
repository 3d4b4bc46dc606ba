package gallery

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"unicode"
)

// Classify sorts image file names into the catalog sections by name:
// anything mentioning a region is regional; histograms and distributions are
// distributional; correlations and "X_vs_Y" plots are correlational. Names
// matching nothing are left out. notes may be nil.
func Classify(images []string, urlPrefix string, notes func(string) template.HTML) Catalog {
	var catalog Catalog
	for _, name := range images {
		lower := strings.ToLower(name)
		regional := strings.Contains(lower, "region")

		item := func(title, description string) Item {
			it := Item{
				Title:       title,
				ImagePath:   imageURL(urlPrefix, name),
				Description: description,
			}
			if notes != nil {
				it.Notes = notes(name)
			}
			return it
		}

		if regional {
			title := strings.ReplaceAll(baseTitle(name), "by region", "- Regional Analysis")
			catalog.Regional = append(catalog.Regional, item(titleCase(title), regionalDescription(name)))
		}
		if !regional && (strings.Contains(lower, "histogram") || strings.Contains(lower, "distribution")) {
			catalog.Distribution = append(catalog.Distribution, item(titleCase(baseTitle(name)), distributionDescription(name)))
		}
		if strings.Contains(lower, "correlation") || (strings.Contains(lower, "_vs_") && !regional) {
			catalog.Correlation = append(catalog.Correlation, item(titleCase(baseTitle(name)), correlationDescription(name)))
		}
	}
	return catalog
}

// fillEmptySections gives every empty section one entry borrowing the image
// of a non-empty one, or fallbackImage when no section has any. Nothing is
// filled when both are absent.
func (c *Catalog) fillEmptySections(fallbackImage string) {
	donor := func() Item {
		for _, section := range [][]Item{c.Regional, c.Distribution, c.Correlation} {
			if len(section) > 0 {
				return section[0]
			}
		}
		return Item{ImagePath: fallbackImage}
	}
	if donor().ImagePath == "" {
		return
	}

	if len(c.Regional) == 0 {
		c.Regional = append(c.Regional, Item{
			Title:       "Regional Analysis",
			ImagePath:   donor().ImagePath,
			Description: "Regional comparisons of country indicators, grouping countries by geographic region.",
			Fallback:    true,
		})
	}
	if len(c.Distribution) == 0 {
		c.Distribution = append(c.Distribution, Item{
			Title:       "Statistical Distributions",
			ImagePath:   donor().ImagePath,
			Description: "Statistical distributions showing how countries spread across demographic indicators.",
			Fallback:    true,
		})
	}
	if len(c.Correlation) == 0 {
		c.Correlation = append(c.Correlation, Item{
			Title:       "Variable Correlations",
			ImagePath:   donor().ImagePath,
			Description: "Correlation analysis showing relationships between country indicators.",
			Fallback:    true,
		})
	}
}

func regionalDescription(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "gdp_population"):
		return "GDP against population for every country, colored by region."
	case strings.Contains(lower, "gdp_literacy"):
		return "GDP against literacy rate with region coloring, showing how economic and educational patterns line up geographically."
	case strings.Contains(lower, "birthrate") && strings.Contains(lower, "histogram"):
		return "Birthrate distribution split by region."
	case strings.Contains(name, "Birthrate_vs_") || strings.Contains(name, "_vs_Birthrate"):
		return "Birthrate against another demographic indicator, color-coded by region."
	case strings.Contains(lower, "economic_sectors"):
		return "Share of agriculture, industry and service in each region's economy."
	case strings.Contains(lower, "population_area"):
		return "Population against land area, colored by region to show differences in density."
	default:
		return "Regional analysis showing how indicators differ across geographic regions."
	}
}

func distributionDescription(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "birthrate"):
		return "Distribution of birthrates across countries."
	case strings.Contains(lower, "literacy"):
		return "Distribution of literacy rates across countries."
	case strings.Contains(lower, "population"):
		return "Distribution of country populations across size ranges."
	default:
		return "Distribution of countries across value ranges of this indicator."
	}
}

func correlationDescription(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "correlation_matrix"):
		return "Correlation matrix of key demographic variables. Stronger colors mark stronger correlations."
	case strings.Contains(name, "Birthrate_vs_Infant") || strings.Contains(name, "Infant_vs_Birthrate"):
		return "Birthrate against infant mortality, two closely linked health indicators."
	case strings.Contains(name, "GDP_vs_") || strings.Contains(name, "_vs_GDP"):
		return "GDP against another indicator, showing economic relationships."
	case strings.Contains(name, "_vs_"):
		parts := strings.SplitN(strings.TrimSuffix(name, filepath.Ext(name)), "_vs_", 2)
		left := titleCase(strings.ReplaceAll(parts[0], "_", " "))
		right := titleCase(strings.SplitN(parts[1], "_", 2)[0])
		return fmt.Sprintf("Correlation between %s and %s across countries.", left, right)
	default:
		return "Correlation analysis of relationships between demographic indicators."
	}
}

// baseTitle turns "gdp_population_by_region.png" into "gdp population by region"
func baseTitle(name string) string {
	return strings.ReplaceAll(strings.TrimSuffix(name, filepath.Ext(name)), "_", " ")
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
