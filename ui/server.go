// Package ui serves the dashboard API over HTTP.
package ui

import (
	"context"
	"log"
	"net/http"
	"time"

	"dashkit/ports"
	"dashkit/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Options configure the HTTP server
type Options struct {
	MaxUploadBytes int64
	ReadTimeout    time.Duration
}

// Server represents the web server for the dashboard
type Server struct {
	router    *gin.Engine
	dashboard ports.DashboardPort
	opts      Options
	http      *http.Server
}

// NewServer creates a new web server instance with routes installed
func NewServer(dashboard ports.DashboardPort, opts Options) *Server {
	s := &Server{
		router:    gin.Default(),
		dashboard: dashboard,
		opts:      opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.http = &http.Server{
		Handler:           s.router,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/dataset", middleware.LimitBody(s.opts.MaxUploadBytes), s.handleUpload)
	api.GET("/dataset", s.handleDataset)
	api.POST("/render", s.handleRender)
	api.POST("/report", s.handleReport)
	api.POST("/chart.png", s.handleChartPNG)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	log.Printf("[Server] Starting dashboard on http://%s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	log.Printf("[Server] Shutting down")
	return s.http.Shutdown(ctx)
}
