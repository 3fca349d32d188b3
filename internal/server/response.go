package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respond writes a 200 body with success set.
func respond(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

// fail writes an error body. details carries err's text when err is set.
func fail(c *gin.Context, status int, message string, err error) {
	body := gin.H{
		"success": false,
		"error":   message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string, err error) {
	fail(c, http.StatusBadRequest, message, err)
}

// bodyStatus maps a body read failure onto 413 or 400.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
