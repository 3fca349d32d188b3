package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

func (s *Server) getTrends(c *gin.Context) {
	months, _ := strconv.Atoi(c.Query("months"))

	report, err := s.trends.Get(months)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to retrieve trends", err)
		return
	}

	respond(c, gin.H{
		"trends":      report.Trends,
		"summary":     report.Summary,
		"chartData":   report.ChartData,
		"generatedAt": s.timestamp(),
	})
}

// recordTrendRequest records a snapshot for an analysis computed elsewhere.
// Data, when present, supplies spend totals and categories; otherwise only
// RecordCount is known.
type recordTrendRequest struct {
	AnalysisResults json.RawMessage   `json:"analysisResults"`
	RecordCount     int               `json:"recordCount"`
	Data            []analyzer.Record `json:"data"`
}

func (s *Server) recordTrend(c *gin.Context) {
	var req recordTrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bodyStatus(err), "Analysis results required", err)
		return
	}
	if len(req.AnalysisResults) == 0 || string(req.AnalysisResults) == "null" {
		badRequest(c, "Analysis results required", nil)
		return
	}

	var result analyzer.AnalysisResult
	if err := json.Unmarshal(req.AnalysisResults, &result); err != nil {
		badRequest(c, "Analysis results required", err)
		return
	}

	stats := trends.BatchStats{Records: req.RecordCount}
	if req.Data != nil {
		stats = trends.BatchStatsFor(req.Data)
	}
	stats.ContractAlerts = s.activeAlertCount()

	snap, err := s.trends.Record(&result, stats)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to record trend data", err)
		return
	}

	respond(c, gin.H{
		"trendData": snap,
		"message":   "Trend data recorded successfully",
	})
}
