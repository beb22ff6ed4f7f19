//go:build integration
// +build integration

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	appcfg "github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/database"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/server"
)

// NewTestRouter создает новый экземпляр gin.Engine для интеграционных тестов.
// Использует отдельную тестовую БД, если задана переменная окружения TEST_DB_NAME.
func NewTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := NewTestRouterWithDB(t)
	return router
}

// NewTestRouterWithDB дополнительно возвращает подключение к БД — для тестов,
// которым нужно подготовить данные напрямую (например, назначить первого
// администратора).
func NewTestRouterWithDB(t *testing.T) (*gin.Engine, *database.DB) {
	t.Helper()

	rootDir, err := findProjectRoot()
	if err != nil {
		t.Fatalf("find project root: %v", err)
	}
	if err := os.Chdir(rootDir); err != nil {
		t.Fatalf("chdir to project root: %v", err)
	}

	if os.Getenv("SECRET_KEY") == "" {
		t.Setenv("SECRET_KEY", "integration-test-secret")
	}
	if os.Getenv("FULL_RIGHTS") == "" {
		t.Setenv("FULL_RIGHTS", "root_operator")
	}

	cfg, err := appcfg.Load()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}

	// Если указано имя тестовой БД — переопределяем его в конфиге.
	if testDB := os.Getenv("TEST_DB_NAME"); testDB != "" {
		cfg.Database.DBName = testDB
	}

	db, err := database.NewConnection(&cfg.Database, cfg.AppEnv)
	if err != nil {
		t.Fatalf("db connection: %v", err)
	}

	// Применяем миграции и очищаем данные перед каждым тестом.
	if err := MigrateDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := clearData(db); err != nil {
		t.Fatalf("clear data: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	srv := server.NewServer(cfg, db)
	return srv.GetRouter(), db
}

// MigrateDatabase применяет все миграции к тестовой базе данных.
// ВАЖНО: не закрывает мигратор, так как соединение используется дальше в тестах.
func MigrateDatabase(db *database.DB) error {
	migrator, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil && err != database.ErrNoChange {
		return err
	}
	return nil
}

// findProjectRoot находит корень проекта по файлу go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// clearData очищает данные перед тестом; тренировки и их потомки
// удаляются каскадом по внешнему ключу на users.
func clearData(db *database.DB) error {
	return db.Exec("TRUNCATE TABLE users RESTART IDENTITY CASCADE").Error
}
