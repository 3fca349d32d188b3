package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Long: `Serve the analysis, trend, alert and commentary endpoints over HTTP.

Endpoints:
  GET  /health                          Liveness and commentary status
  GET  /sample-data                     Demo records
  POST /upload                          Parse a csv, xlsx or json file
  POST /analyze                         Run the analyzer on JSON records
  POST /categorize-spend                Category breakdown
  POST /insights                        Analysis with commentary
  POST /insight-cards                   Structured insight cards
  POST /chat                            Free-form question
  GET  /test-ai                         Commentary connectivity check
  GET  /trends                          Monthly trend report
  POST /trends/record                   Record a snapshot
  POST /detect-contracts                Create renewal alerts
  GET  /contract-alerts                 Active alerts
  POST /contract-alerts/:id/dismiss     Dismiss an alert
  POST /contract-alerts/:id/snooze      Snooze an alert

The server shuts down gracefully on SIGINT or SIGTERM.`,
	Example: `  spendscope serve
  spendscope serve --port 9000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: server.port from config, 8847)")

	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	port := rt.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}

	st, err := rt.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if rt.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := rt.commentary()
	srv := server.New(server.Config{
		Analyzer:     rt.analyzer,
		Trends:       rt.trendManager(st),
		Alerts:       rt.alertManager(st),
		Commentary:   client,
		Logger:       rt.logger,
		Ingest:       rt.ingest,
		MaxBodyBytes: rt.cfg.Ingest.MaxUploadBytes(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("starting spendscope server",
		zap.Int("port", port),
		zap.String("db", rt.cfg.Database.Path),
		zap.Bool("commentary", client.Configured()))

	return srv.Run(ctx, fmt.Sprintf(":%d", port))
}
