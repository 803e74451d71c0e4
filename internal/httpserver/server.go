package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"storefront/internal/logger"
	"storefront/internal/metrics"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	db         *pgxpool.Pool
}

// Options tunes the router.
type Options struct {
	CORSAllowOrigins []string
	// Metrics, when set, instruments every route and serves GET /metrics.
	Metrics *metrics.Metrics
}

// New builds a Server with all API routes.
func New(addr string, log *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*Server, error) {
	log = logger.OrNop(log)
	router, err := buildRouter(log, db, deps, opts)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          zap.NewStdLog(log.Named("http")),
	}

	return &Server{
		httpServer: httpSrv,
		logger:     log,
		db:         db,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

const readyTimeout = time.Second

// healthChecks answers liveness and readiness checks. Readiness requires a pool that answers a ping.
type healthChecks struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func (h healthChecks) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h healthChecks) ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.log.Warn("readiness ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
		return
	}
	stat := h.db.Stat()
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"pool": gin.H{
			"total":    stat.TotalConns(),
			"acquired": stat.AcquiredConns(),
			"idle":     stat.IdleConns(),
		},
	})
}
