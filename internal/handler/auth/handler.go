package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/middleware"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
	useruc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/user"
	"github.com/hhqqrrzz1/Fitness-app-backend/pkg/jwt"
	"github.com/hhqqrrzz1/Fitness-app-backend/pkg/password"
)

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	users useruc.Service
	jwt   jwt.Service
}

// NewHandler создаёт обработчик аутентификации.
func NewHandler(users useruc.Service, jwtService jwt.Service) *Handler {
	return &Handler{users: users, jwt: jwtService}
}

func toUserResponse(u *domain.User) UserResponse {
	isAdmin := u.IsAdmin()
	return UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		IsAdmin:  isAdmin,
		IsGuest:  !isAdmin,
	}
}

// Register регистрирует нового пользователя. Новая учётная запись
// всегда создаётся гостем; права выдаёт администратор отдельно.
// @Summary Регистрация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Данные регистрации"
// @Success 201 {object} UserResponse
// @Failure 400,409 {object} response.ErrorBody
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		log.Printf("auth handler: hash password: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Username, hash)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrEmailExists):
			response.Error(c, http.StatusConflict, "email_exists", "User with this email already exists", nil)
		case errors.Is(err, interfaces.ErrUsernameExists):
			response.Error(c, http.StatusConflict, "username_exists", "User with this username already exists", nil)
		default:
			log.Printf("auth handler: register: %v", err)
			response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Token выдаёт access-токен по паре username/password.
// Несуществующий пользователь и неверный пароль неразличимы в ответе.
// @Summary Выдача access-токена
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Учётные данные"
// @Success 200 {object} TokenResponse
// @Failure 400,401 {object} response.ErrorBody
// @Router /auth/token [post]
func (h *Handler) Token(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Incorrect username or password", nil)
			return
		}
		log.Printf("auth handler: get user: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Incorrect username or password", nil)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user)
	if err != nil {
		log.Printf("auth handler: generate token: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me возвращает учётную запись текущего пользователя.
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401,404 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		log.Printf("auth handler: get user: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
