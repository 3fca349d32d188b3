package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/analyzer"
	"github.com/blackwell-systems/spendscope/internal/ingest"
	"github.com/blackwell-systems/spendscope/internal/trends"
)

const msgInvalidData = "Invalid data provided"

// dataRequest is the body shared by the record-batch endpoints.
type dataRequest struct {
	Data         []analyzer.Record `json:"data"`
	AnalysisType analyzer.Mode     `json:"analysisType"`
}

// bindData decodes a dataRequest and rejects a missing or non-array data
// field. It writes the error response itself.
func bindData(c *gin.Context) (*dataRequest, bool) {
	var req dataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bodyStatus(err), msgInvalidData, err)
		return nil, false
	}
	if req.Data == nil {
		badRequest(c, msgInvalidData, nil)
		return nil, false
	}
	return &req, true
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		badRequest(c, "No file uploaded", nil)
		return
	case err != nil:
		fail(c, bodyStatus(err), "File upload failed", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, "File processing failed", err)
		return
	}
	defer f.Close()

	records, err := ingest.Parse(f, fh.Filename, s.ingestOpts)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrNoRows):
			badRequest(c, "File processing failed", err)
		default:
			fail(c, http.StatusUnprocessableEntity, "File processing failed", err)
		}
		return
	}

	s.logger.Info("file ingested",
		zap.String("filename", fh.Filename),
		zap.Int("records", len(records)))

	respond(c, gin.H{
		"message":     "File processed successfully",
		"recordCount": len(records),
		"data":        records,
	})
}

func (s *Server) analyze(c *gin.Context) {
	req, ok := bindData(c)
	if !ok {
		return
	}
	mode := req.AnalysisType
	if mode == "" {
		mode = analyzer.ModeFull
	}

	s.logger.Info("starting analysis",
		zap.String("mode", string(mode)),
		zap.Int("records", len(req.Data)))

	if analyzer.IsDetectorMode(mode) {
		result, err := s.analyzer.Detect(req.Data, mode)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Analysis failed", err)
			return
		}
		respond(c, gin.H{
			"analysisType": mode,
			"results":      result,
			"timestamp":    s.timestamp(),
		})
		return
	}

	// Unknown types run the full pipeline; only an explicit full run is
	// recorded in the trend history.
	result := s.analyzer.Analyze(req.Data)
	if mode == analyzer.ModeFull {
		s.recordSnapshot(result, req.Data)
	}

	respond(c, gin.H{
		"analysisType": mode,
		"results":      result,
		"timestamp":    s.timestamp(),
	})
}

// recordSnapshot stores a trend snapshot. Failures are logged and do not
// fail the request.
func (s *Server) recordSnapshot(result *analyzer.AnalysisResult, records []analyzer.Record) {
	stats := trends.BatchStatsFor(records)
	stats.ContractAlerts = s.activeAlertCount()

	if _, err := s.trends.Record(result, stats); err != nil {
		s.logger.Warn("failed to record trend snapshot", zap.Error(err))
	}
}

func (s *Server) activeAlertCount() int {
	active, err := s.alerts.Active()
	if err != nil {
		s.logger.Warn("failed to count active alerts", zap.Error(err))
		return 0
	}
	return len(active)
}

func (s *Server) categorize(c *gin.Context) {
	req, ok := bindData(c)
	if !ok {
		return
	}

	s.logger.Info("categorizing spend", zap.Int("records", len(req.Data)))

	respond(c, gin.H{
		"categorization": s.analyzer.CategorizeSpend(req.Data),
		"generatedAt":    s.timestamp(),
	})
}

func (s *Server) sampleData(c *gin.Context) {
	records := ingest.SampleRecords()
	respond(c, gin.H{
		"data":        records,
		"recordCount": len(records),
	})
}
