package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"data":       data,
		"message":    message,
		"success":    true,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	ErrorWithDetails(c, statusCode, message, []string{})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(statusCode, gin.H{
		"statusCode": statusCode,
		"message":    message,
		"success":    false,
		"errors":     errs,
	})
}
