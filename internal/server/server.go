// Package server exposes the analyzer, trend history, contract alerts and
// commentary over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/alerts"
	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/commentary"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

const (
	// DefaultMaxBodyBytes bounds request bodies when Config leaves it unset.
	DefaultMaxBodyBytes = 20 << 20

	shutdownTimeout = 10 * time.Second
)

// Commentator frames analyses as narrative text.
type Commentator interface {
	Configured() bool
	Model() string
	URL() string
	Summarize(ctx context.Context, result *analyzer.AnalysisResult) (string, error)
	InsightCards(ctx context.Context, result *analyzer.AnalysisResult) (*commentary.CardSet, error)
	Chat(ctx context.Context, question string, summary any) (string, error)
	Ping(ctx context.Context) (string, error)
}

// TrendService records and reports analysis snapshots.
type TrendService interface {
	Record(result *analyzer.AnalysisResult, stats trends.BatchStats) (*trends.Snapshot, error)
	Get(months int) (*trends.Report, error)
}

// AlertService detects and manages contract renewal alerts.
type AlertService interface {
	Detect(ctx context.Context, records []analyzer.Record) (*alerts.Detection, error)
	Active() ([]alerts.Alert, error)
	Dismiss(id string) error
	Snooze(id string, days int) error
}

// Config wires a Server. Analyzer, Trends, Alerts and Commentary are
// required.
type Config struct {
	Analyzer   *analyzer.Analyzer
	Trends     TrendService
	Alerts     AlertService
	Commentary Commentator
	Logger     *zap.Logger

	// Ingest controls parsing of uploaded files.
	Ingest ingest.Options

	// MaxBodyBytes limits every request body, uploads included.
	MaxBodyBytes int64

	// Now is the clock used for response timestamps.
	Now func() time.Time
}

// Server handles the HTTP API.
type Server struct {
	analyzer   *analyzer.Analyzer
	trends     TrendService
	alerts     AlertService
	commentary Commentator
	logger     *zap.Logger
	ingestOpts ingest.Options
	maxBody    int64
	now        func() time.Time

	engine *gin.Engine
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		analyzer:   cfg.Analyzer,
		trends:     cfg.Trends,
		alerts:     cfg.Alerts,
		commentary: cfg.Commentary,
		logger:     cfg.Logger,
		ingestOpts: cfg.Ingest,
		maxBody:    cfg.MaxBodyBytes,
		now:        cfg.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ingestOpts.Now == nil {
		s.ingestOpts.Now = s.now
	}

	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.maxBody

	r.Use(recovery(s.logger))
	r.Use(requestLogger(s.logger))
	r.Use(cors())
	r.Use(limitBody(s.maxBody))

	r.GET("/health", s.health)
	r.GET("/sample-data", s.sampleData)
	r.GET("/test-ai", s.testAI)

	r.POST("/upload", s.upload)
	r.POST("/analyze", s.analyze)
	r.POST("/categorize-spend", s.categorize)

	r.POST("/insights", s.insights)
	r.POST("/insight-cards", s.insightCards)
	r.POST("/chat", s.chat)

	r.GET("/trends", s.getTrends)
	r.POST("/trends/record", s.recordTrend)

	r.POST("/detect-contracts", s.detectContracts)
	contractAlerts := r.Group("/contract-alerts")
	{
		contractAlerts.GET("", s.listAlerts)
		contractAlerts.POST("/:id/dismiss", s.dismissAlert)
		contractAlerts.POST("/:id/snooze", s.snoozeAlert)
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    "spendscope",
		"commentary": s.commentary.Configured(),
	})
}
