package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recovery перехватывает паники, чтобы одна ошибка обработчика не роняла процесс.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		// Логируем панику с контекстом запроса
		log.Printf("[PANIC] %s %s from %s: %v\n",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), recovered)

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Произошла непредвиденная ошибка. Пожалуйста, попробуйте позже.",
		})

		c.Abort()
	})
}
