package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/recorder/errors"
)

// Root is the liveness banner served on "/".
func Root(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": message})
	}
}

// NotFound answers unmatched routes with the error envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		appErr := apperrors.New(apperrors.ErrCodeNotFound, "Route not found", http.StatusNotFound)
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
	}
}
