package ui

import (
	"log"
	"net/http"

	"countrydash/internal/analysis"
	"countrydash/internal/dataset"
	"countrydash/internal/errors"

	"github.com/gin-gonic/gin"
)

// HistogramResponse is the body of /api/histogram/:variable. The tallest
// fields are null when there is not enough data to bin.
type HistogramResponse struct {
	Counts           []int     `json:"counts"`
	Edges            []float64 `json:"edges"`
	Labels           []string  `json:"labels"`
	TallestIdx       *int      `json:"tallest_idx"`
	TallestCount     *int      `json:"tallest_count"`
	TallestLower     *float64  `json:"tallest_lower"`
	TallestUpper     *float64  `json:"tallest_upper"`
	InsufficientData bool      `json:"insufficient_data,omitempty"`
	Message          string    `json:"message,omitempty"`
}

// ScatterResponse is the body of /api/scatter/:x_var/:y_var
type ScatterResponse struct {
	Data        []dataset.Row `json:"data"`
	Correlation *float64      `json:"correlation"`
}

// MatrixResponse is the body of /api/correlation-matrix
type MatrixResponse struct {
	Variables []string     `json:"variables"`
	Matrix    [][]*float64 `json:"matrix"`
}

// respondError writes the JSON error body for err with its mapped status
func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s: %v (request_id=%s)", c.Request.Method, c.Request.URL.Path, err, c.GetString("request_id"))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": errors.PublicMessage(err)})
}

// handleCountries returns every row of the dataset
func (s *Server) handleCountries(c *gin.Context) {
	c.JSON(http.StatusOK, s.dataset.Records())
}

// handleHistogramData bins one numeric column
func (s *Server) handleHistogramData(c *gin.Context) {
	variable := c.Param("variable")
	if !s.dataset.HasColumn(variable) {
		respondError(c, errors.InvalidInput("Invalid variable name"))
		return
	}
	col, ok := s.dataset.Column(variable)
	if !ok {
		respondError(c, errors.InvalidInput("Variable is not numeric"))
		return
	}

	h, err := analysis.ComputeHistogram(col.Values, analysis.DefaultBins)
	if errors.Is(err, errors.CodeInsufficientData) {
		c.JSON(http.StatusOK, HistogramResponse{
			Counts:           []int{},
			Edges:            []float64{},
			Labels:           []string{},
			InsufficientData: true,
			Message:          errors.PublicMessage(err),
		})
		return
	}
	if err != nil {
		respondError(c, errors.Wrapf(err, "failed to compute histogram for %s", variable))
		return
	}

	c.JSON(http.StatusOK, HistogramResponse{
		Counts:       h.Counts,
		Edges:        h.Edges,
		Labels:       h.Labels,
		TallestIdx:   &h.TallestIdx,
		TallestCount: &h.TallestCount,
		TallestLower: &h.TallestLower,
		TallestUpper: &h.TallestUpper,
	})
}

// handleScatterData returns the Country, Region and both axis values of every
// row, with the correlation over the rows where both axes are present
func (s *Server) handleScatterData(c *gin.Context) {
	xVar, yVar := c.Param("x_var"), c.Param("y_var")
	if !s.dataset.HasColumn(xVar) || !s.dataset.HasColumn(yVar) {
		respondError(c, errors.InvalidInput("Invalid variable names"))
		return
	}
	x, okX := s.dataset.Column(xVar)
	y, okY := s.dataset.Column(yVar)
	if !okX || !okY {
		respondError(c, errors.InvalidInput("Variables must be numeric"))
		return
	}

	fields := []string{"Country", "Region", xVar, yVar}
	rows := make([]dataset.Row, 0, s.dataset.Len())
	for i := 0; i < s.dataset.Len(); i++ {
		rows = append(rows, s.dataset.Project(i, fields))
	}

	resp := ScatterResponse{Data: rows}
	if r, ok := analysis.Correlation(x.Values, y.Values); ok {
		resp.Correlation = &r
	}
	c.JSON(http.StatusOK, resp)
}

// handleCorrelationMatrix returns the demographic correlation matrix
func (s *Server) handleCorrelationMatrix(c *gin.Context) {
	m := analysis.CorrelationMatrix(s.dataset, analysis.DemographicVariables, 2)
	c.JSON(http.StatusOK, MatrixResponse{Variables: m.Variables, Matrix: m.Values})
}
