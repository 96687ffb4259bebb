package core

import "github.com/gin-gonic/gin"

// StatusMessage is the dashboard's uniform reply body.
type StatusMessage struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
}

// respondError sends {"message": ..., "error": true} with the given status.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, StatusMessage{Message: message, Error: true})
}
