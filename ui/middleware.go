package ui

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"countrydash/internal/errors"
	"countrydash/internal/gallery"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// setupMiddleware configures Gin middleware and static file serving
func (s *Server) setupMiddleware() {
	s.router.Use(requestID())
	s.router.Use(gin.Logger())
	s.router.Use(gin.CustomRecovery(s.recoverPanic))

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		log.Printf("[Static] Error creating static filesystem: %v", err)
		return
	}
	s.router.GET("/static/*filepath", s.serveStatic(http.FS(staticFS)))
}

// requestID tags each request with an id, reusing one sent by the client
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Printf("[Request] %s %s failed with %d (request_id=%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), id)
		}
	}
}

// recoverPanic answers API requests with a JSON error and pages with a plain
// 500. Pages recover inside their own view builders, so only render failures
// reach here.
func (s *Server) recoverPanic(c *gin.Context, recovered interface{}) {
	err := errors.InternalError(fmt.Sprint(recovered))
	log.Printf("[Recovery] Panic serving %s: %v (request_id=%s)", c.Request.URL.Path, recovered, c.GetString("request_id"))
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.AbortWithStatus(http.StatusInternalServerError)
}

// serveStatic serves gallery images from the served image directory and
// everything else from the embedded assets
func (s *Server) serveStatic(assets http.FileSystem) gin.HandlerFunc {
	visualizations := strings.TrimPrefix(gallery.DefaultURLPrefix, "/static")
	return func(c *gin.Context) {
		p := path.Clean(c.Param("filepath"))
		if strings.HasPrefix(p, visualizations+"/") {
			if s.gallery == nil {
				c.Status(http.StatusNotFound)
				return
			}
			name := strings.TrimPrefix(p, visualizations+"/")
			if name == "" || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
				c.Status(http.StatusNotFound)
				return
			}
			c.File(filepath.Join(s.gallery.ServedDir(), name))
			return
		}
		c.FileFromFS(p, assets)
	}
}
