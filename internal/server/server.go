// Package server exposes the intake pipeline over HTTP: a streaming
// NDJSON batch endpoint, a dependency-probing health check, and a
// service descriptor.
package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mailroom-dev/mailroom/internal/pipeline"
)

const (
	apiTitle   = "Document Processing API"
	apiVersion = "1.0.0"
)

// Prober reports whether a dependency looks usable from configuration
// alone; probes must never issue billable requests.
type Prober interface {
	Available() bool
}

type Server struct {
	orch     *pipeline.Orchestrator
	ocrProbe Prober
	llmProbe Prober
	logger   *slog.Logger
}

func New(orch *pipeline.Orchestrator, ocrProbe, llmProbe Prober, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{orch: orch, ocrProbe: ocrProbe, llmProbe: llmProbe, logger: logger}
}

// Router wires routes and middleware. corsOrigins is the comma-separated
// allowlist from configuration.
func (s *Server) Router(corsOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.errorJSON())

	if corsOrigins != "" {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = splitOrigins(corsOrigins)
		cfg.AllowCredentials = true
		cfg.AllowHeaders = []string{"*"}
		r.Use(cors.New(cfg))
	}

	r.GET("/", s.handleRoot)
	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/process", s.handleProcess)
	}
	return r
}

// errorJSON converts panics already recovered by gin and late handler
// errors into a stable JSON error body.
func (s *Server) errorJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			s.logger.Error("server.unhandled_error", "error", c.Errors.Last().Err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": "An unexpected error occurred while processing your request",
			})
		}
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    apiTitle,
		"version": apiVersion,
		"endpoints": gin.H{
			"health":  "/api/health",
			"process": "/api/process (POST)",
		},
	})
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
