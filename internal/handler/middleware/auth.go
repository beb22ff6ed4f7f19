package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	jwtsvc "github.com/hhqqrrzz1/Fitness-app-backend/pkg/jwt"
)

// ContextCallerKey — ключ, под которым идентичность вызывающего хранится в контексте Gin.
const ContextCallerKey = "caller"

// Auth возвращает middleware для аутентификации по JWT access-токену.
// Ожидает заголовок Authorization: Bearer <token>.
//
// Роль вызывающего берётся из claims токена, то есть фиксируется на момент
// выпуска; изменение прав не влияет на уже выданные токены до их истечения.
func Auth(jwtService jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Printf("missing Authorization header: path=%s", c.Request.URL.Path)
			response.Error(c, http.StatusUnauthorized, "missing_authorization_header", "Отсутствует заголовок Authorization", nil)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Printf("invalid Authorization header format: value=%q", authHeader)
			response.Error(c, http.StatusUnauthorized, "invalid_authorization_header", "Некорректный формат заголовка Authorization", nil)
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "invalid_authorization_header", "Некорректный формат заголовка Authorization", nil)
			return
		}

		claims, err := jwtService.ParseAccessToken(tokenString)
		if err != nil {
			// Истёкший токен отличаем от недействительного (исторический контракт API).
			if errors.Is(err, jwtlib.ErrTokenExpired) {
				response.Error(c, http.StatusForbidden, "token_expired", "Срок действия access-токена истёк", nil)
				return
			}
			log.Printf("invalid access token: err=%v", err)
			response.Error(c, http.StatusUnauthorized, "invalid_token", "Недействительный access-токен", nil)
			return
		}

		caller, err := claims.Caller()
		if err != nil {
			log.Printf("invalid caller identity in token: err=%v", err)
			response.Error(c, http.StatusUnauthorized, "invalid_token", "Недействительный access-токен", nil)
			return
		}

		// Сохраняем идентичность вызывающего в контексте Gin
		c.Set(ContextCallerKey, caller)

		c.Next()
	}
}

// CallerFromContext извлекает идентичность вызывающего из контекста запроса.
// Возвращает false, если запрос не прошёл через Auth.
func CallerFromContext(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(ContextCallerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
