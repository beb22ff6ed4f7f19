package main

import (
	"log"

	"github.com/hhqqrrzz1/Fitness-app-backend/internal/config"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/database"
	"github.com/hhqqrrzz1/Fitness-app-backend/internal/server"
)

// @title Fitness App API
// @version 1.0
// @description Backend для дневника тренировок: пользователи, тренировки, группы мышц, упражнения и подходы.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Fitness App Server Starting...")

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	log.Printf("Конфигурация загружена успешно")
	log.Printf("База данных: %s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к базе данных
	db, err := database.NewConnection(&cfg.Database, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия подключения к базе данных: %v", err)
		}
	}()

	// Запускаем HTTP сервер (блокируется до сигнала остановки)
	srv := server.NewServer(cfg, db)
	if err := srv.Start(); err != nil {
		log.Fatalf("Ошибка сервера: %v", err)
	}
}
