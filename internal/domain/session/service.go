package session

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"alfup/internal/domain/alfresco"
)

// API - операции репозитория, нужные менеджеру сессии
type API interface {
	Login(ctx context.Context, username, password string) (*alfresco.Envelope, error)
	ValidateTicket(ctx context.Context, ticket string) (*alfresco.Envelope, error)
}

// Servicer - менеджер сессии: выдает действующий тикет,
// прозрачно перевыпуская его при необходимости
type Servicer interface {
	Login(ctx context.Context, username, password string) error
	EnsureValidTicket(ctx context.Context) (bool, error)
	Ticket(ctx context.Context) (string, error)
	Logout(ctx context.Context, clearAll bool) error
	Current(ctx context.Context) (*AuthRecord, error)
}

type Service struct {
	store Store
	api   API
	log   *slog.Logger

	// mu сериализует read-modify-write записи AuthRecord:
	// два одновременных перевыпуска тикета не должны затирать друг друга
	mu sync.Mutex
}

func NewService(store Store, api API, log *slog.Logger) *Service {
	return &Service{
		store: store,
		api:   api,
		log:   log,
	}
}

// Login выполняет вход и сохраняет полную запись {username, password, ticket}.
// Отказ сервера возвращается как ErrInvalidCredentials с его briefSummary.
func (s *Service) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.api.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("запрос тикета: %w", err)
	}

	if env.Error != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, env.Error.BriefSummary)
	}

	rec := &AuthRecord{
		Username: username,
		Password: password,
		Ticket:   env.Entry.ID,
	}
	if err := s.saveRecord(ctx, rec); err != nil {
		return fmt.Errorf("сохранение учетных данных: %w", err)
	}

	s.log.Info("Вход выполнен", "username", username)
	return nil
}

// EnsureValidTicket гарантирует наличие действующего тикета в хранилище.
// Возвращает false без ошибки, если перевыпуск невозможен (нет учетных
// данных) или сервер его отклонил. Перевыпуск выполняется не более одного
// раза, без повторов. Сетевой сбой при проверке или перевыпуске
// возвращается как ошибка, а не маскируется под недействительный тикет.
func (s *Service) EnsureValidTicket(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.ensureLocked(ctx)
	return ok, err
}

// Ticket возвращает действующий тикет или ErrNoSession
func (s *Service) Ticket(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok, err := s.ensureLocked(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoSession
	}
	return ticket, nil
}

func (s *Service) ensureLocked(ctx context.Context) (string, bool, error) {
	rec, err := s.loadRecord(ctx)
	if err != nil {
		return "", false, err
	}

	if rec.Ticket != "" {
		env, err := s.api.ValidateTicket(ctx, rec.Ticket)
		if err != nil {
			return "", false, fmt.Errorf("проверка тикета: %w", err)
		}
		if env.OK() {
			return rec.Ticket, true, nil
		}

		// Тикет отклонен сервером - немедленно забываем его
		s.log.Debug("Тикет недействителен, сбрасываем", "summary", env.Error.BriefSummary)
		rec.Ticket = ""
		if err := s.saveRecord(ctx, rec); err != nil {
			return "", false, fmt.Errorf("сброс тикета: %w", err)
		}
	}

	if !rec.HasCredentials() {
		return "", false, nil
	}

	env, err := s.api.Login(ctx, rec.Username, rec.Password)
	if err != nil {
		return "", false, fmt.Errorf("перевыпуск тикета: %w", err)
	}
	if env.Error != nil {
		s.log.Warn("Сервер отклонил перевыпуск тикета",
			"username", rec.Username,
			"summary", env.Error.BriefSummary,
		)
		return "", false, nil
	}

	rec.Ticket = env.Entry.ID
	if err := s.saveRecord(ctx, rec); err != nil {
		return "", false, fmt.Errorf("сохранение тикета: %w", err)
	}

	s.log.Info("Тикет перевыпущен", "username", rec.Username)
	return rec.Ticket, true, nil
}

// Logout завершает сессию. clearAll=true удаляет запись целиком;
// иначе стираются только тикет и пароль, а имя пользователя остается,
// чтобы подставить его при следующем входе.
func (s *Service) Logout(ctx context.Context, clearAll bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if clearAll {
		if err := s.store.Delete(ctx, AuthKey); err != nil {
			return fmt.Errorf("удаление учетных данных: %w", err)
		}
		s.log.Info("Выход выполнен, учетные данные удалены")
		return nil
	}

	rec, err := s.loadRecord(ctx)
	if err != nil {
		return err
	}

	rec.Ticket = ""
	rec.Password = ""
	if rec.Username == "" {
		// Хранить нечего
		if err := s.store.Delete(ctx, AuthKey); err != nil {
			return fmt.Errorf("удаление учетных данных: %w", err)
		}
		return nil
	}

	if err := s.saveRecord(ctx, rec); err != nil {
		return fmt.Errorf("сохранение записи: %w", err)
	}

	s.log.Info("Выход выполнен", "username", rec.Username)
	return nil
}

// Current возвращает сохраненную запись без обращения к серверу
func (s *Service) Current(ctx context.Context) (*AuthRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadRecord(ctx)
}

func (s *Service) loadRecord(ctx context.Context) (*AuthRecord, error) {
	value, err := s.store.Get(ctx, AuthKey)
	if err != nil {
		return nil, fmt.Errorf("чтение из хранилища: %w", err)
	}

	rec, err := UnmarshalAuthRecord(value)
	if err != nil {
		return nil, fmt.Errorf("разбор записи авторизации: %w", err)
	}
	return rec, nil
}

func (s *Service) saveRecord(ctx context.Context, rec *AuthRecord) error {
	value, err := rec.Marshal()
	if err != nil {
		return err
	}
	return s.store.Set(ctx, AuthKey, value)
}
