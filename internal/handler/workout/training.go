package workout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
)

// CreateTraining создаёт тренировку с полным поддеревом.
// @Summary Создать тренировку
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTrainingRequest true "Тренировка с группами, упражнениями и подходами"
// @Success 201 {object} TrainingResponse
// @Failure 400,401,409 {object} response.ErrorBody
// @Router /trainings [post]
func (h *Handler) CreateTraining(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req CreateTrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD format", nil)
		return
	}

	in := workoutuc.CreateTrainingInput{Date: date}
	for _, g := range req.MuscleGroups {
		groupIn := workoutuc.MuscleGroupInput{GroupName: g.GroupName}
		for _, e := range g.Exercises {
			exIn := workoutuc.ExerciseInput{
				ExerciseName: e.ExerciseName,
				Weight:       e.Weight,
			}
			for _, s := range e.Sets {
				exIn.Sets = append(exIn.Sets, workoutuc.SetInput{
					WeightPerExe: s.WeightPerExe,
					Reps:         s.Reps,
				})
			}
			groupIn.Exercises = append(groupIn.Exercises, exIn)
		}
		in.MuscleGroups = append(in.MuscleGroups, groupIn)
	}

	training, err := h.workouts.CreateTraining(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTrainingResponse(training))
}

// GetTraining возвращает тренировку с полным поддеревом.
// @Summary Получить тренировку
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 200 {object} TrainingResponse
// @Failure 401,403,404 {object} response.ErrorBody
// @Router /trainings/{id} [get]
func (h *Handler) GetTraining(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	training, err := h.workouts.GetTraining(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTrainingResponse(training))
}

// ListTrainings возвращает тренировки пользователя, новые даты первыми.
// Без параметра user_id возвращаются собственные тренировки; чужие
// доступны только администратору.
// @Summary Список тренировок
// @Tags trainings
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "ID владельца (только для администратора)"
// @Success 200 {array} TrainingResponse
// @Failure 400,401,403 {object} response.ErrorBody
// @Router /trainings [get]
func (h *Handler) ListTrainings(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	ownerID := uuid.Nil
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid_user_id", "user_id must be a valid UUID", nil)
			return
		}
		ownerID = parsed
	}

	trainings, err := h.workouts.ListTrainings(c.Request.Context(), caller, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]TrainingResponse, 0, len(trainings))
	for _, t := range trainings {
		resp = append(resp, toTrainingResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

// ChangeTrainingDate переносит тренировку на другую дату.
// Заголовок пересчитывается автоматически.
// @Summary Изменить дату тренировки
// @Tags trainings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Param request body UpdateTrainingDateRequest true "Новая дата"
// @Success 200 {object} TrainingResponse
// @Failure 400,401,403,404,409 {object} response.ErrorBody
// @Router /trainings/{id} [patch]
func (h *Handler) ChangeTrainingDate(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateTrainingDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Date must be in YYYY-MM-DD format", nil)
		return
	}

	training, err := h.workouts.ChangeTrainingDate(c.Request.Context(), caller, id, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTrainingResponse(training))
}

// DeleteTraining удаляет тренировку вместе с поддеревом.
// @Summary Удалить тренировку
// @Tags trainings
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Success 204 "No Content"
// @Failure 401,403,404 {object} response.ErrorBody
// @Router /trainings/{id} [delete]
func (h *Handler) DeleteTraining(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workouts.DeleteTraining(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
