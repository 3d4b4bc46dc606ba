package ui

import (
	"github.com/gin-gonic/gin"
)

// handleIndex renders the dashboard home page
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, "index.html", BuildHomeView(s.dataset))
}

// handleHistograms renders the Birthrate and Literacy histograms
func (s *Server) handleHistograms(c *gin.Context) {
	s.renderTemplate(c, "histograms.html", BuildHistogramsView(s.dataset))
}

// handleScatter renders the scatter plot explorer
func (s *Server) handleScatter(c *gin.Context) {
	s.renderTemplate(c, "scatter.html", BuildScatterView(s.dataset))
}

// handleVisualizations renders the pre-rendered image gallery
func (s *Server) handleVisualizations(c *gin.Context) {
	s.renderTemplate(c, "visualizations.html", BuildVisualizationsView(s.gallery))
}
