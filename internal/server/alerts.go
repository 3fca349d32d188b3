package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blackwell-systems/spendscope/internal/alerts"
)

func (s *Server) detectContracts(c *gin.Context) {
	req, ok := bindData(c)
	if !ok {
		return
	}

	s.logger.Info("detecting contract renewals", zap.Int("records", len(req.Data)))

	detection, err := s.alerts.Detect(c.Request.Context(), req.Data)
	if err != nil {
		fail(c, commentaryStatus(err), "Contract detection failed", err)
		return
	}

	active, err := s.alerts.Active()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Contract detection failed", err)
		return
	}

	respond(c, gin.H{
		"contractsFound": len(detection.Contracts),
		"contracts":      detection.Contracts,
		"alertsCreated":  len(detection.Created),
		"activeAlerts":   len(active),
		"alerts":         active,
		"generatedAt":    s.timestamp(),
	})
}

func (s *Server) listAlerts(c *gin.Context) {
	active, err := s.alerts.Active()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to retrieve alerts", err)
		return
	}

	respond(c, gin.H{
		"alertCount": len(active),
		"alerts":     active,
		"summary":    alerts.CountByPriority(active),
	})
}

func (s *Server) dismissAlert(c *gin.Context) {
	if err := s.alerts.Dismiss(c.Param("id")); err != nil {
		fail(c, alertStatus(err), "Failed to dismiss alert", err)
		return
	}
	respond(c, gin.H{"message": "Alert dismissed successfully"})
}

type snoozeRequest struct {
	Days *int `json:"days"`
}

func (s *Server) snoozeAlert(c *gin.Context) {
	var req snoozeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, bodyStatus(err), "Failed to snooze alert", err)
			return
		}
	}

	days := alerts.DefaultSnoozeDays
	if req.Days != nil {
		days = *req.Days
	}

	if err := s.alerts.Snooze(c.Param("id"), days); err != nil {
		fail(c, alertStatus(err), "Failed to snooze alert", err)
		return
	}
	respond(c, gin.H{"message": fmt.Sprintf("Alert snoozed for %d days", days)})
}

func alertStatus(err error) int {
	switch {
	case errors.Is(err, alerts.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, alerts.ErrInvalidSnooze):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
