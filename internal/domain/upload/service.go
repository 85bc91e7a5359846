package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/exp/slog"

	"alfup/internal/domain/alfresco"
	"alfup/internal/domain/session"
)

// API - операции репозитория, нужные для загрузки файла
type API interface {
	CreateContentNode(ctx context.Context, name, ticket string) (*alfresco.Envelope, error)
	UploadContent(ctx context.Context, nodeID string, content []byte, ticket string) (*alfresco.Envelope, error)
}

// Sessions выдает действующий тикет для авторизации запросов
type Sessions interface {
	Ticket(ctx context.Context) (string, error)
}

// Service последовательно выполняет двухшаговый протокол загрузки:
// сначала создается пустой узел cm:content, затем в него заливаются байты.
// Отката нет: если второй шаг упал, на сервере остается пустой узел.
type Service struct {
	api      API
	sessions Sessions
	log      *slog.Logger
}

func NewService(api API, sessions Sessions, log *slog.Logger) *Service {
	return &Service{
		api:      api,
		sessions: sessions,
		log:      log,
	}
}

// Upload создает в репозитории узел с именем файла и загружает в него
// содержимое, переданное в base64. Возвращает идентификатор узла.
func (s *Service) Upload(ctx context.Context, filePathOrURI, base64Content string) (string, error) {
	ticket, err := s.sessions.Ticket(ctx)
	if err != nil {
		// Только отсутствие сессии означает "нужен вход"; сетевой сбой
		// при проверке тикета должен дойти до вызывающего как есть
		if errors.Is(err, session.ErrNoSession) {
			return "", fmt.Errorf("%w: %v", ErrAuthRequired, err)
		}
		return "", fmt.Errorf("получение тикета: %w", err)
	}

	content, err := base64.StdEncoding.DecodeString(base64Content)
	if err != nil {
		return "", fmt.Errorf("декодирование содержимого: %w", err)
	}

	name := filepath.Base(filePathOrURI)

	env, err := s.api.CreateContentNode(ctx, name, ticket)
	if err != nil {
		return "", fmt.Errorf("создание узла: %w", err)
	}
	if env.Error != nil {
		return "", &Error{Summary: env.Error.BriefSummary}
	}

	nodeID := env.Entry.ID
	s.log.Debug("Узел создан", "node_id", nodeID, "name", name)

	env, err = s.api.UploadContent(ctx, nodeID, content, ticket)
	if err != nil {
		// Узел уже создан, но остался пустым - чистку не выполняем
		s.log.Warn("Содержимое не загружено, на сервере остался пустой узел", "node_id", nodeID)
		return "", fmt.Errorf("загрузка содержимого: %w", err)
	}
	if env.Error != nil {
		s.log.Warn("Сервер отклонил содержимое, на сервере остался пустой узел", "node_id", nodeID)
		return "", &Error{Summary: env.Error.BriefSummary}
	}

	s.log.Info("Файл загружен", "node_id", nodeID, "name", name, "size", len(content))
	return nodeID, nil
}
