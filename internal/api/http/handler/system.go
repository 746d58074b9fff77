package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type statusResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Status reports that the API is up.
func Status(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{
		Message:   "API is running",
		Status:    "online",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
