// Package restapi exposes the chunking pipeline over HTTP with gin.
package restapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hsn0918/mdchunk/internal/metrics"
	"github.com/hsn0918/mdchunk/pkg/chunking"
)

// Server handles chunking HTTP requests.
type Server struct {
	router  *gin.Engine
	log     *zap.Logger
	metrics *metrics.Metrics
	addr    string
}

// NewServer builds a gin-based REST adapter bound to addr (host:port).
func NewServer(addr string, log *zap.Logger, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{router: router, log: log, metrics: m, addr: addr}
	router.Use(s.instrument())
	s.setupRoutes()
	return s
}

func (s *Server) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		c.Next()
		s.metrics.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
		s.log.Debug("inbound request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api/v1")
	{
		api.POST("/chunk", s.handleChunk)
	}
}

// Start runs the HTTP server; it blocks until the listener fails.
func (s *Server) Start() error {
	s.log.Info("starting REST adapter", zap.String("addr", s.addr))
	return s.router.Run(s.addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// chunkRequest is the wire shape for POST /api/v1/chunk. A zero
// max_chunk_size or min_chunk_size falls back to the package default via
// NewChunkConfig; every other config field is used as sent, zero values
// included.
type chunkRequest struct {
	Text   string               `json:"text" binding:"required"`
	Config chunking.ChunkConfig `json:"config"`
}

func (s *Server) handleChunk(c *gin.Context) {
	var req chunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := chunking.Chunk(req.Text, req.Config)
	s.metrics.RecordRun(result, time.Since(start), err)
	if err != nil {
		s.log.Error("chunking failed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
