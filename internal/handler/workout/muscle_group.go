package workout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
)

// AddMuscleGroup добавляет группу мышц в существующую тренировку.
// Имя группы дописывается в заголовок тренировки.
// @Summary Добавить группу мышц
// @Tags muscle-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID тренировки"
// @Param request body CreateMuscleGroupRequest true "Группа мышц с упражнениями"
// @Success 201 {object} MuscleGroupResponse
// @Failure 400,401,403,404,409 {object} response.ErrorBody
// @Router /trainings/{id}/muscle-groups [post]
func (h *Handler) AddMuscleGroup(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	trainingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateMuscleGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	in := workoutuc.MuscleGroupInput{GroupName: req.GroupName}
	for _, e := range req.Exercises {
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
		in.Exercises = append(in.Exercises, exIn)
	}

	group, err := h.workouts.AddMuscleGroup(c.Request.Context(), caller, trainingID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMuscleGroupResponse(group))
}

// GetMuscleGroup возвращает группу мышц с упражнениями и подходами.
// @Summary Получить группу мышц
// @Tags muscle-groups
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID группы мышц"
// @Success 200 {object} MuscleGroupResponse
// @Failure 401,403,404 {object} response.ErrorBody
// @Router /muscle-groups/{id} [get]
func (h *Handler) GetMuscleGroup(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	group, err := h.workouts.GetMuscleGroup(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMuscleGroupResponse(group))
}

// RenameMuscleGroup переименовывает группу мышц.
// Заголовок тренировки обновляется с сохранением позиции имени.
// @Summary Переименовать группу мышц
// @Tags muscle-groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID группы мышц"
// @Param request body RenameMuscleGroupRequest true "Новое имя"
// @Success 200 {object} MuscleGroupResponse
// @Failure 400,401,403,404,409 {object} response.ErrorBody
// @Router /muscle-groups/{id} [patch]
func (h *Handler) RenameMuscleGroup(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req RenameMuscleGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	group, err := h.workouts.RenameMuscleGroup(c.Request.Context(), caller, id, req.GroupName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMuscleGroupResponse(group))
}

// DeleteMuscleGroup удаляет группу мышц вместе с упражнениями.
// Последнюю группу тренировки удалить нельзя.
// @Summary Удалить группу мышц
// @Tags muscle-groups
// @Security BearerAuth
// @Param id path int true "ID группы мышц"
// @Success 204 "No Content"
// @Failure 401,403,404,409 {object} response.ErrorBody
// @Router /muscle-groups/{id} [delete]
func (h *Handler) DeleteMuscleGroup(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workouts.DeleteMuscleGroup(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
