package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerStructured логирует каждый HTTP-запрос: метод, путь, статус, время.
func LoggerStructured() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Начало запроса
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Обрабатываем запрос
		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Printf("[%s] %s %s %d %v %s %s",
			method,
			path,
			c.Request.Proto,
			statusCode,
			latency,
			clientIP,
			errorMessage,
		)
	}
}
