package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/database"
)

// Handler обрабатывает health check запросы.
type Handler struct {
	db     *database.DB
	appEnv string
}

// NewHandler создаёт новый health handler.
func NewHandler(db *database.DB, appEnv string) *Handler {
	return &Handler{
		db:     db,
		appEnv: appEnv,
	}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health проверяет работоспособность сервера.
// @Summary Проверка сервера
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Сервер работает",
	})
}

// HealthDB проверяет подключение к базе данных.
// @Summary Проверка базы данных
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/db [get]
func (h *Handler) HealthDB(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "error",
			Message: "База данных не инициализирована",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Ping выполняется в отдельной горутине, чтобы не зависнуть дольше таймаута
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.db.Ping()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		errorMessage := "База данных недоступна"
		if h.appEnv != "production" {
			errorMessage = "База данных недоступна: " + err.Error()
		}

		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "error",
			Message: errorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "База данных доступна",
	})
}
