package ui

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"countrydash/internal/analysis"
	"countrydash/internal/dataset"
	"countrydash/internal/gallery"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server represents the dashboard web server
type Server struct {
	router    *gin.Engine
	dataset   *dataset.Dataset
	gallery   *gallery.Builder
	templates *template.Template
	assets    fs.FS

	// ReadHeaderTimeout bounds how long Start waits for request headers
	ReadHeaderTimeout time.Duration
}

// NewServer creates a new web server instance. assets must hold templates/*.html
// and the static/ tree at its root.
func NewServer(assets fs.FS) *Server {
	return &Server{
		router:            gin.New(),
		assets:            assets,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Initialize wires the dataset and gallery into the server and sets up
// templates, middleware and routes. A nil dataset serves as an empty one.
func (s *Server) Initialize(ds *dataset.Dataset, builder *gallery.Builder) error {
	if ds == nil {
		ds = dataset.Empty()
	}
	s.dataset = ds
	s.gallery = builder

	funcMap := template.FuncMap{
		"formatEdge": analysis.FormatEdge,
		"formatCorr": formatCorrelation,
		"corrClass":  correlationClass,
		"matrixCell": func(m analysis.Matrix, row, col string) *float64 {
			return m.Get(row, col)
		},
		"panels": func(p ...HistogramPanel) []HistogramPanel { return p },
		"section": func(heading, id string, items []gallery.Item) gallerySection {
			return gallerySection{Heading: heading, ID: id, Items: items}
		},
		"json": func(v interface{}) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(s.assets, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates
	log.Printf("[TemplateInit] Parsed templates: %s", s.templates.DefinedTemplates())

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Pages
	s.router.GET("/", s.handleIndex)
	s.router.GET("/histograms", s.handleHistograms)
	s.router.GET("/scatter", s.handleScatter)
	s.router.GET("/visualizations", s.handleVisualizations)

	// JSON API
	api := s.router.Group("/api")
	api.GET("/countries", s.handleCountries)
	api.GET("/histogram/:variable", s.handleHistogramData)
	api.GET("/scatter/:x_var/:y_var", s.handleScatterData)
	api.GET("/correlation-matrix", s.handleCorrelationMatrix)
}

// Handler returns the full handler chain: chi in front for heartbeat,
// compression and client IPs, gin behind it for everything else.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(middleware.Compress(5))
	r.Handle("/*", s.router)
	return r
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	log.Printf("Starting dashboard on http://%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.ReadHeaderTimeout,
	}
	return srv.ListenAndServe()
}
