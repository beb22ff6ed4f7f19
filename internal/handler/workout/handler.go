package workout

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userdomain "github.com/hhqqrrzz1/Fitness-app-backend/internal/domain/user"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/middleware"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/interfaces"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
)

// Handler обрабатывает HTTP-запросы к дереву тренировок.
type Handler struct {
	workouts workoutuc.Service
}

// NewHandler создаёт обработчик тренировок.
func NewHandler(workouts workoutuc.Service) *Handler {
	return &Handler{workouts: workouts}
}

// caller извлекает аутентифицированного пользователя из контекста запроса.
// Отсутствие означает, что маршрут подключён без auth-middleware.
func (h *Handler) caller(c *gin.Context) (userdomain.Caller, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
		return userdomain.Caller{}, false
	}
	return caller, true
}

// pathID разбирает числовой идентификатор из параметра пути.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Invalid identifier in path", nil)
		return 0, false
	}
	return id, true
}

// respondError транслирует ошибки usecase-слоя в HTTP-статусы.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "Entity not found", nil)
	case errors.Is(err, workoutuc.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "Not enough rights", nil)
	case errors.Is(err, interfaces.ErrTrainingDateTaken):
		response.Error(c, http.StatusConflict, "date_taken", "Training for this date already exists", nil)
	case errors.Is(err, interfaces.ErrGroupNameTaken):
		response.Error(c, http.StatusConflict, "group_name_taken", "Muscle group with this name already exists in the training", nil)
	case errors.Is(err, workoutuc.ErrSameGroupName):
		response.Error(c, http.StatusConflict, "same_group_name", "New group name must differ from the current one", nil)
	case errors.Is(err, workoutuc.ErrLastMuscleGroup):
		response.Error(c, http.StatusConflict, "last_muscle_group", "Cannot delete the last muscle group, delete the training instead", nil)
	case errors.Is(err, workoutuc.ErrLastExercise):
		response.Error(c, http.StatusConflict, "last_exercise", "Cannot delete the last exercise, delete the muscle group instead", nil)
	case errors.Is(err, workoutuc.ErrLastSet):
		response.Error(c, http.StatusConflict, "last_set", "Cannot delete the last set, delete the exercise instead", nil)
	case errors.Is(err, workoutuc.ErrNegativeWeight),
		errors.Is(err, workoutuc.ErrInvalidReps),
		errors.Is(err, workoutuc.ErrNoMuscleGroups),
		errors.Is(err, workoutuc.ErrNoExercises),
		errors.Is(err, workoutuc.ErrNoSets):
		response.Error(c, http.StatusBadRequest, "validation_failed", err.Error(), nil)
	default:
		log.Printf("workout handler: internal error: %v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
	}
}
