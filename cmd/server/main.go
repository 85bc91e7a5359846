package main

import (
	"net/http"
	"os"

	"alfup/internal/app/client/config"
	"alfup/internal/app/mockserver"
	"alfup/internal/utils/logger"
)

// Запускает имитацию репозитория Alfresco для локальной разработки.
// Пользователи задаются переменными MOCK_USER и MOCK_PASSWORD.
func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	srv := mockserver.New(log)

	username := os.Getenv("MOCK_USER")
	password := os.Getenv("MOCK_PASSWORD")
	if username == "" {
		username, password = "admin", "admin"
	}
	srv.AddUser(username, password)

	log.Info("Мок-сервер запущен",
		"address", cfg.ServerAddress,
		"user", username,
	)

	if err := http.ListenAndServe(cfg.ServerAddress, srv.Router()); err != nil {
		log.Error("Сервер остановлен", "error", err)
		os.Exit(1)
	}
}
