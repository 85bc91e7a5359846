package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"alfup/internal/app/client/config"
)

// New создает логгер под окружение: local - текстовый вывод с debug,
// dev - JSON с debug, prod - JSON с info
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
}

// setupPrettySlog - человекочитаемый вывод для локальной разработки
func setupPrettySlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
