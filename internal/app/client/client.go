package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/exp/slog"

	"alfup/internal/app/client/config"
	"alfup/internal/app/client/crypto"
	"alfup/internal/domain/session"
	"alfup/internal/domain/upload"
)

// App собирает клиент целиком: защищенное хранилище, HTTP клиент
// репозитория и доменные сервисы сессии и загрузки.
type App struct {
	config     *config.Config
	log        *slog.Logger
	store      session.Store
	httpClient *httpClient
	sessions   session.Servicer
	uploads    *upload.Service
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	vault, err := crypto.NewVault(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации ключа хранилища: %w", err)
	}

	store, err := newStore(cfg, vault)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	httpCl, err := NewHTTPClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}

	sessions := session.NewService(store, httpCl, log)

	app := &App{
		config:     cfg,
		log:        log,
		store:      store,
		httpClient: httpCl,
		sessions:   sessions,
		uploads:    upload.NewService(httpCl, sessions, log),
	}

	return app, nil
}

// newStore выбирает бэкенд хранилища по конфигурации
func newStore(cfg *config.Config, vault *crypto.Vault) (session.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendFile:
		return NewFileStore(cfg.StorePath, vault)
	case config.StoreBackendSQLite:
		return NewSQLiteStore(cfg.StorePath, vault)
	default:
		return nil, fmt.Errorf("неизвестный бэкенд хранилища: %q", cfg.StoreBackend)
	}
}

// Login выполняет вход и сохраняет учетные данные с тикетом
func (a *App) Login(ctx context.Context, username, password string) error {
	return a.sessions.Login(ctx, username, password)
}

// Logout завершает сессию. При clearAll удаляется вся запись,
// иначе остается имя пользователя для следующего входа.
func (a *App) Logout(ctx context.Context, clearAll bool) error {
	return a.sessions.Logout(ctx, clearAll)
}

// EnsureValidTicket проверяет тикет и при необходимости перевыпускает его
func (a *App) EnsureValidTicket(ctx context.Context) (bool, error) {
	return a.sessions.EnsureValidTicket(ctx)
}

// Current возвращает сохраненную запись сессии
func (a *App) Current(ctx context.Context) (*session.AuthRecord, error) {
	return a.sessions.Current(ctx)
}

// UploadFile читает файл с диска и загружает его в репозиторий.
// Возвращает идентификатор созданного узла.
func (a *App) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}

	return a.uploads.Upload(ctx, path, base64.StdEncoding.EncodeToString(data))
}

// Close освобождает ресурсы хранилища
func (a *App) Close() error {
	if closer, ok := a.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
