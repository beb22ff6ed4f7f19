package permission

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userdomain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/middleware"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
	permuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/permission"
)

// Handler обрабатывает HTTP-запросы управления правами пользователей.
type Handler struct {
	permissions permuc.Service
}

// NewHandler создаёт обработчик управления правами.
func NewHandler(permissions permuc.Service) *Handler {
	return &Handler{permissions: permissions}
}

func (h *Handler) caller(c *gin.Context) (userdomain.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return userdomain.Caller{}, false
	}
	return caller, true
}

func targetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	case errors.Is(err, permuc.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "Not enough rights", nil)
	case errors.Is(err, permuc.ErrProtectedUser):
		response.Error(c, http.StatusForbidden, "protected_user", "User rights are protected and cannot be modified", nil)
	case errors.Is(err, permuc.ErrTargetIsAdmin):
		response.Error(c, http.StatusForbidden, "target_is_admin", "Cannot delete an admin user", nil)
	default:
		log.Printf("permission handler: internal error: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}

// ToggleAdmin переключает роль пользователя: guest → admin или admin → guest.
// Доступно только администратору из списка защищённых операторов.
// @Summary Переключить права администратора
// @Tags permission
// @Produce json
// @Security BearerAuth
// @Param user_id query string true "ID целевого пользователя"
// @Success 200 {object} RoleResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /permission [patch]
func (h *Handler) ToggleAdmin(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := targetID(c)
	if !ok {
		return
	}

	user, err := h.permissions.ToggleAdmin(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	isAdmin := user.IsAdmin()
	c.JSON(http.StatusOK, RoleResponse{
		UserID:   user.ID.String(),
		Username: user.Username,
		IsAdmin:  isAdmin,
		IsGuest:  !isAdmin,
	})
}

// DeleteUser окончательно удаляет пользователя вместе со всеми его тренировками.
// @Summary Удалить пользователя
// @Tags permission
// @Security BearerAuth
// @Param user_id query string true "ID целевого пользователя"
// @Success 204 "No Content"
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /permission/delete [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := targetID(c)
	if !ok {
		return
	}

	if err := h.permissions.DeleteUser(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserID возвращает идентификатор пользователя по username.
// @Summary Найти ID пользователя
// @Tags permission
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username пользователя"
// @Success 200 {object} UserIDResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /permission/get_id [get]
func (h *Handler) GetUserID(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	username := c.Query("username")
	if username == "" {
		response.Error(c, http.StatusBadRequest, "invalid_username", "username query parameter is required", nil)
		return
	}

	id, err := h.permissions.GetUserIDByUsername(c.Request.Context(), caller, username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserIDResponse{UserID: id.String()})
}
