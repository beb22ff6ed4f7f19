package workout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/response"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
)

// AddSet добавляет подход к упражнению.
// Счётчик numbers_reps упражнения увеличивается атомарно.
// @Summary Добавить подход
// @Tags sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID упражнения"
// @Param request body CreateSetRequest true "Подход"
// @Success 201 {object} SetResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /exercises/{id}/sets [post]
func (h *Handler) AddSet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CreateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	set, err := h.workouts.AddSet(c.Request.Context(), caller, exerciseID, workoutuc.SetInput{
		WeightPerExe: req.WeightPerExe,
		Reps:         req.Reps,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSetResponse(set))
}

// GetSet возвращает подход.
// @Summary Получить подход
// @Tags sets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подхода"
// @Success 200 {object} SetResponse
// @Failure 401,403,404 {object} response.ErrorBody
// @Router /sets/{id} [get]
func (h *Handler) GetSet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	set, err := h.workouts.GetSet(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSetResponse(set))
}

// UpdateSet изменяет вес и число повторений подхода.
// @Summary Изменить подход
// @Tags sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подхода"
// @Param request body UpdateSetRequest true "Новые значения"
// @Success 200 {object} SetResponse
// @Failure 400,401,403,404 {object} response.ErrorBody
// @Router /sets/{id} [patch]
func (h *Handler) UpdateSet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Invalid request body", err.Error())
		return
	}

	set, err := h.workouts.UpdateSet(c.Request.Context(), caller, id, workoutuc.SetInput{
		WeightPerExe: req.WeightPerExe,
		Reps:         req.Reps,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSetResponse(set))
}

// DeleteSet удаляет подход и уменьшает счётчик numbers_reps.
// Последний подход упражнения удалить нельзя.
// @Summary Удалить подход
// @Tags sets
// @Security BearerAuth
// @Param id path int true "ID подхода"
// @Success 204 "No Content"
// @Failure 401,403,404,409 {object} response.ErrorBody
// @Router /sets/{id} [delete]
func (h *Handler) DeleteSet(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.workouts.DeleteSet(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
