package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/commentary"
)

// commentaryStatus maps collaborator failures onto gateway statuses.
func commentaryStatus(err error) int {
	switch {
	case errors.Is(err, commentary.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, commentary.ErrUpstream), errors.Is(err, commentary.ErrEmptyResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) insights(c *gin.Context) {
	req, ok := bindData(c)
	if !ok {
		return
	}

	result := s.analyzer.Analyze(req.Data)

	text, err := s.commentary.Summarize(c.Request.Context(), result)
	available := err == nil
	if err != nil {
		s.logger.Warn("commentary unavailable, using fallback", zap.Error(err))
		text = commentary.FallbackSummary
	}

	respond(c, gin.H{
		"analysis":     result,
		"aiCommentary": text,
		"aiAvailable":  available,
		"aiModel":      s.commentary.Model(),
		"generatedAt":  s.timestamp(),
	})
}

func (s *Server) insightCards(c *gin.Context) {
	req, ok := bindData(c)
	if !ok {
		return
	}

	result := s.analyzer.Analyze(req.Data)

	cards, err := s.commentary.InsightCards(c.Request.Context(), result)
	if err != nil {
		s.logger.Warn("commentary unavailable, using local cards", zap.Error(err))
		cards = commentary.FallbackCards(result)
		cards.ParseError = "AI service unavailable, using structured analysis"
	}

	respond(c, gin.H{
		"data":        cards,
		"rawAnalysis": result,
		"model":       s.commentary.Model(),
		"generatedAt": s.timestamp(),
	})
}

type chatRequest struct {
	Message string `json:"message"`
	Context *struct {
		Summary any `json:"summary"`
	} `json:"context"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bodyStatus(err), "Invalid chat request", err)
		return
	}
	if req.Message == "" {
		badRequest(c, "Message required", nil)
		return
	}

	var summary any
	if req.Context != nil {
		summary = req.Context.Summary
	}

	reply, err := s.commentary.Chat(c.Request.Context(), req.Message, summary)
	if err != nil {
		s.logger.Warn("chat failed", zap.Error(err))
		c.AbortWithStatusJSON(commentaryStatus(err), gin.H{
			"success":  false,
			"error":    "Chat service temporarily unavailable",
			"details":  err.Error(),
			"fallback": commentary.FallbackChat,
		})
		return
	}

	respond(c, gin.H{
		"response": reply,
		"model":    s.commentary.Model(),
	})
}

func (s *Server) testAI(c *gin.Context) {
	reply, err := s.commentary.Ping(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(commentaryStatus(err), gin.H{
			"success": false,
			"error":   err.Error(),
			"config": gin.H{
				"endpoint": s.commentary.URL(),
				"model":    s.commentary.Model(),
			},
		})
		return
	}

	respond(c, gin.H{
		"response": reply,
		"model":    s.commentary.Model(),
		"endpoint": s.commentary.URL(),
	})
}
