package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	_ "github.com/hhqqrrzz1/Fitness-app-backend/docs"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/database"
	authhandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/auth"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/health"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/middleware"
	permissionhandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/permission"
	workouthandler "github.com/hhqqrrzz1/Fitness-app-backend/internal/handler/workout"
	pgrepo "github.com/hhqqrrzz1/Fitness-app-backend/internal/repository/postgres"
	permuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/permission"
	useruc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/user"
	workoutuc "github.com/hhqqrrzz1/Fitness-app-backend/internal/usecase/workout"
	jwtsvc "github.com/hhqqrrzz1/Fitness-app-backend/pkg/jwt"
)

// Server представляет HTTP сервер приложения
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *database.DB
	cfg        *config.Config

	jwtService        jwtsvc.Service
	authHandler       *authhandler.Handler
	workoutHandler    *workouthandler.Handler
	permissionHandler *permissionhandler.Handler
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config, db *database.DB) *Server {
	// Устанавливаем режим Gin в зависимости от окружения
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
	}

	// Инициализируем зависимости всех доменов один раз
	gormDB := db.DB
	userRepo := pgrepo.NewUserRepository(gormDB)
	workoutRepo := pgrepo.NewWorkoutRepository(gormDB)

	userService := useruc.NewService(userRepo)
	workoutService := workoutuc.NewService(workoutRepo)
	permissionService := permuc.NewService(userRepo, &cfg.Auth)

	s.jwtService = jwtsvc.NewService(&cfg.JWT)
	s.authHandler = authhandler.NewHandler(userService, s.jwtService)
	s.workoutHandler = workouthandler.NewHandler(workoutService)
	s.permissionHandler = permissionhandler.NewHandler(permissionService)

	// Настраиваем middleware и роуты
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware настраивает middleware для роутера
func (s *Server) setupMiddleware() {
	// Recovery middleware - должен быть первым для перехвата паник
	s.router.Use(middleware.Recovery())

	// Logger middleware - логирование всех запросов
	s.router.Use(middleware.LoggerStructured())

	// CORS middleware - настройка CORS
	s.router.Use(middleware.CORS(&s.cfg.CORS))
}

// setupRoutes настраивает маршруты приложения
func (s *Server) setupRoutes() {
	s.setupHealthRoutes()
	s.setupAuthRoutes()
	s.setupWorkoutRoutes()
	s.setupPermissionRoutes()
}

// setupHealthRoutes настраивает health-check эндпоинты и Swagger UI.
func (s *Server) setupHealthRoutes() {
	healthHandler := health.NewHandler(s.db, s.cfg.AppEnv)
	// GET /health — базовый health-check сервера (жив ли процесс).
	s.router.GET("/health", healthHandler.Health)
	// GET /health/db — проверка доступности базы данных.
	s.router.GET("/health/db", healthHandler.HealthDB)
	// GET /swagger/index.html — интерактивная документация API.
	s.router.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
}

// setupAuthRoutes настраивает эндпоинты аутентификации и корневой роут API.
func (s *Server) setupAuthRoutes() {
	v1 := s.router.Group("/api/v1")

	// GET /api/v1/ — корневой эндпоинт API v1, возвращает версию и базовую информацию.
	v1.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Fitness App API v1",
			"version": "1.0.0",
		})
	})

	authGroup := v1.Group("/auth")
	{
		// POST /api/v1/auth/register — регистрация нового пользователя.
		authGroup.POST("/register", s.authHandler.Register)
		// POST /api/v1/auth/token — выдача access-токена по username/паролю.
		authGroup.POST("/token", s.authHandler.Token)
		// GET /api/v1/auth/me — учётная запись текущего пользователя.
		authGroup.GET("/me", middleware.Auth(s.jwtService), s.authHandler.Me)
	}
}

// setupWorkoutRoutes настраивает защищённые эндпоинты дерева тренировок.
func (s *Server) setupWorkoutRoutes() {
	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.Auth(s.jwtService))

	trainings := v1.Group("/trainings")
	{
		// POST /api/v1/trainings — создать тренировку с полным поддеревом.
		trainings.POST("", s.workoutHandler.CreateTraining)
		// GET /api/v1/trainings — список тренировок пользователя, новые даты первыми.
		trainings.GET("", s.workoutHandler.ListTrainings)
		// GET /api/v1/trainings/:id — тренировка с полным поддеревом.
		trainings.GET("/:id", s.workoutHandler.GetTraining)
		// PATCH /api/v1/trainings/:id — перенести тренировку на другую дату.
		trainings.PATCH("/:id", s.workoutHandler.ChangeTrainingDate)
		// DELETE /api/v1/trainings/:id — удалить тренировку с поддеревом.
		trainings.DELETE("/:id", s.workoutHandler.DeleteTraining)
		// POST /api/v1/trainings/:id/muscle-groups — добавить группу мышц.
		trainings.POST("/:id/muscle-groups", s.workoutHandler.AddMuscleGroup)
	}

	muscleGroups := v1.Group("/muscle-groups")
	{
		// GET /api/v1/muscle-groups/:id — группа мышц с упражнениями.
		muscleGroups.GET("/:id", s.workoutHandler.GetMuscleGroup)
		// PATCH /api/v1/muscle-groups/:id — переименовать группу мышц.
		muscleGroups.PATCH("/:id", s.workoutHandler.RenameMuscleGroup)
		// DELETE /api/v1/muscle-groups/:id — удалить группу мышц (кроме последней).
		muscleGroups.DELETE("/:id", s.workoutHandler.DeleteMuscleGroup)
		// POST /api/v1/muscle-groups/:id/exercises — добавить упражнение.
		muscleGroups.POST("/:id/exercises", s.workoutHandler.AddExercise)
	}

	exercises := v1.Group("/exercises")
	{
		// GET /api/v1/exercises/:id — упражнение с подходами.
		exercises.GET("/:id", s.workoutHandler.GetExercise)
		// PATCH /api/v1/exercises/:id — изменить рабочий вес упражнения.
		exercises.PATCH("/:id", s.workoutHandler.UpdateExerciseWeight)
		// DELETE /api/v1/exercises/:id — удалить упражнение (кроме последнего).
		exercises.DELETE("/:id", s.workoutHandler.DeleteExercise)
		// POST /api/v1/exercises/:id/sets — добавить подход.
		exercises.POST("/:id/sets", s.workoutHandler.AddSet)
	}

	sets := v1.Group("/sets")
	{
		// GET /api/v1/sets/:id — подход.
		sets.GET("/:id", s.workoutHandler.GetSet)
		// PATCH /api/v1/sets/:id — изменить вес/повторения подхода.
		sets.PATCH("/:id", s.workoutHandler.UpdateSet)
		// DELETE /api/v1/sets/:id — удалить подход (кроме последнего).
		sets.DELETE("/:id", s.workoutHandler.DeleteSet)
	}
}

// setupPermissionRoutes настраивает административные эндпоинты управления правами.
func (s *Server) setupPermissionRoutes() {
	v1 := s.router.Group("/api/v1")

	permGroup := v1.Group("/permission")
	permGroup.Use(middleware.Auth(s.jwtService))
	{
		// PATCH /api/v1/permission?user_id= — переключить права администратора.
		permGroup.PATCH("", s.permissionHandler.ToggleAdmin)
		// DELETE /api/v1/permission/delete?user_id= — удалить пользователя.
		permGroup.DELETE("/delete", s.permissionHandler.DeleteUser)
		// GET /api/v1/permission/get_id?username= — найти ID пользователя.
		permGroup.GET("/get_id", s.permissionHandler.GetUserID)
	}
}

// Start запускает HTTP сервер с graceful shutdown
func (s *Server) Start() error {
	address := s.cfg.Server.Address()

	s.httpServer = &http.Server{
		Addr:           address,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Канал для получения сигналов ОС
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Канал для ошибок запуска сервера
	serverErr := make(chan error, 1)

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("HTTP сервер запущен на %s", address)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("ошибка запуска HTTP сервера: %w", err)
		}
	}()

	// Ожидаем либо сигнал для graceful shutdown, либо ошибку запуска
	select {
	case err := <-serverErr:
		// Если сервер не смог запуститься, пытаемся корректно остановить
		log.Printf("Ошибка запуска сервера: %v", err)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
		return err
	case sig := <-quit:
		log.Printf("Получен сигнал %v для остановки сервера...", sig)
	}

	// Создаем контекст с таймаутом для graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Останавливаем сервер
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}

	log.Println("HTTP сервер успешно остановлен")
	return nil
}

// GetRouter возвращает роутер (для тестирования)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
