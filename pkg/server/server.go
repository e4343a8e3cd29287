// Package server exposes the extraction, OCR, and analysis services over
// HTTP.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duynguyendang/cca/pkg/analyze"
	"github.com/duynguyendang/cca/pkg/auth"
	"github.com/duynguyendang/cca/pkg/extract"
)

// MaxUploadBytes limits multipart file size.
const MaxUploadBytes = 10_000_000

// Server holds the state for the REST API server.
type Server struct {
	router    *gin.Engine
	verifier  *auth.Verifier
	extractor *extract.Service
	engine    *analyze.Engine
	log       *zap.Logger
}

// NewServer creates a new Server instance.
func NewServer(verifier *auth.Verifier, extractor *extract.Service, engine *analyze.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		router:    r,
		verifier:  verifier,
		extractor: extractor,
		engine:    engine,
		log:       log,
	}
	r.Use(s.requestLogger())
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	authed := s.router.Group("/", s.verifier.Middleware())
	authed.POST("/extract", s.handleExtract)
	authed.POST("/ocr", s.handleOCR)
	authed.POST("/ocr_and_analyze", s.handleOCRAndAnalyze)
	authed.POST("/v1/analyze", s.handleAnalyze)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
