package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonathan/village-blogger/internal/logging"
	"github.com/jonathan/village-blogger/internal/types"
)

// ReportSource provides the most recent cycle report.
type ReportSource interface {
	LastReport() (types.CycleReport, bool)
}

// StatusServer exposes health, metrics and the last cycle report over HTTP.
type StatusServer struct {
	addr    string
	router  *gin.Engine
	metrics *Metrics
	reports ReportSource
	logger  logging.Logger
}

// NewStatusServer builds the router. Call Run to listen.
func NewStatusServer(addr string, metrics *Metrics, reports ReportSource, logger logging.Logger) *StatusServer {
	if logger == nil {
		logger = logging.Discard()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &StatusServer{addr: addr, metrics: metrics, reports: reports, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.withLogging())

	router.GET("/health", s.handleHealth)
	router.GET("/status", s.handleStatus)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *StatusServer) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts down gracefully.
func (s *StatusServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("Status server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("status server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status server shutdown failed: %w", err)
	}
	s.logger.Info("Status server stopped")
	return nil
}

func (s *StatusServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *StatusServer) handleStatus(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
		return
	}
	report, ok := s.reports.LastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no cycle has run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// withLogging logs each request at debug level
func (s *StatusServer) withLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logging.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Status request")
	}
}
