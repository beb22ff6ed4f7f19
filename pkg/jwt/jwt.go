package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
)

// Claims описывает JWT-пейлоад access-токена.
//
// Флаги роли фиксируются на момент выпуска: изменение прав пользователя не
// инвалидирует уже выданные токены до их естественного истечения (exp).
type Claims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
	IsGuest bool   `json:"is_guest"`
	jwt.RegisteredClaims
}

// Caller восстанавливает идентичность вызывающего из claims.
func (c *Claims) Caller() (domain.Caller, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return domain.Caller{}, err
	}

	role := domain.RoleGuest
	if c.IsAdmin {
		role = domain.RoleAdmin
	}

	// Subject несёт username (исторический формат токена).
	return domain.Caller{
		ID:       id,
		Username: c.Subject,
		Role:     role,
	}, nil
}

// Service инкапсулирует операции по генерации и валидации access-токенов.
type Service interface {
	GenerateAccessToken(user *domain.User) (string, error)
	ParseAccessToken(tokenString string) (*Claims, error)
}

type service struct {
	cfg *config.JWTConfig
}

// NewService создаёт JWT-сервис на основе конфигурации.
func NewService(cfg *config.JWTConfig) Service {
	return &service{cfg: cfg}
}

// GenerateAccessToken генерирует короткоживущий access-токен для пользователя.
func (s *service) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	isAdmin := user.IsAdmin()

	claims := &Claims{
		UserID:  user.ID.String(),
		IsAdmin: isAdmin,
		IsGuest: !isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseAccessToken парсит и валидирует access-токен.
// Истёкший токен возвращает ошибку, для которой errors.Is(err, jwt.ErrTokenExpired).
func (s *service) ParseAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Дополнительная защита: убеждаемся, что метод подписи ожидаемый
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	// Дополнительная проверка issuer при необходимости
	if claims.Issuer != "" && s.cfg.Issuer != "" && claims.Issuer != s.cfg.Issuer {
		return nil, jwt.ErrTokenInvalidIssuer
	}

	return claims, nil
}
