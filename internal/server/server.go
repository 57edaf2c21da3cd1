package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthTimeout     = 2 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the HTTP front of the report service. Callers mount their routes
// on Engine before calling Run.
type Server struct {
	Engine  *gin.Engine
	Addr    string
	checker HealthChecker
}

// HealthChecker reports whether the report data source is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// New builds a gin engine with /health registered. mode is the gin mode from
// config; anything other than "debug" runs in release mode. A nil checker
// makes /health always report healthy.
func New(addr string, checker HealthChecker, mode string) *Server {
	if mode == gin.DebugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Engine:  gin.Default(),
		Addr:    addr,
		checker: checker,
	}
	s.Engine.GET("/health", s.healthHandler)
	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.checker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := s.checker.Ping(ctx); err != nil {
			slog.Error("[Server] Health check failed: report source unreachable", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. It returns
// nil after a clean shutdown and the listener error otherwise.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Shutting down report API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] Report API forced to shut down", "error", err)
		}
	}()

	slog.Info("[Server] Serving report API", "address", s.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
