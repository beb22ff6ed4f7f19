package workout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
)

// AddExercise добавляет упражнение в группу мышц.
// @Summary Добавить упражнение
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID группы мышц"
// @Param request body CreateExerciseRequest true "Упражнение с подходами"
// @Success 201 {object} ExerciseResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /muscle-groups/{id}/exercises [post]
func (h *Handler) AddExercise(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	muscleGroupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	in := workoutuc.ExerciseInput{
		ExerciseName: req.ExerciseName,
		Weight:       req.Weight,
	}
	for _, s := range req.Sets {
		in.Sets = append(in.Sets, workoutuc.SetInput{
			WeightPerExe: s.WeightPerExe,
			Reps:         s.Reps,
		})
	}

	exercise, err := h.workouts.AddExercise(c.Request.Context(), caller, muscleGroupID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toExerciseResponse(exercise))
}

// GetExercise возвращает упражнение с подходами.
// @Summary Получить упражнение
// @Tags exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID упражнения"
// @Success 200 {object} ExerciseResponse
// @Failure 401,403,404 {object} response.ErrorBody
// @Router /exercises/{id} [get]
func (h *Handler) GetExercise(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	exercise, err := h.workouts.GetExercise(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toExerciseResponse(exercise))
}

// UpdateExerciseWeight изменяет рабочий вес упражнения.
// @Summary Изменить вес упражнения
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID упражнения"
// @Param request body UpdateExerciseRequest true "Новый вес"
// @Success 200 {object} ExerciseResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /exercises/{id} [patch]
func (h *Handler) UpdateExerciseWeight(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	exercise, err := h.workouts.UpdateExerciseWeight(c.Request.Context(), caller, id, *req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toExerciseResponse(exercise))
}

// DeleteExercise удаляет упражнение вместе с подходами.
// Последнее упражнение группы удалить нельзя.
// @Summary Удалить упражнение
// @Tags exercises
// @Security BearerAuth
// @Param id path int true "ID упражнения"
// @Success 204 "No Content"
// @Failure 401,403,404,409 {object} response.ErrorBody
// @Router /exercises/{id} [delete]
func (h *Handler) DeleteExercise(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workouts.DeleteExercise(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
