package session

import "errors"

var (
	// ErrNoSession - действующий тикет получить не удалось:
	// нет сохраненных учетных данных либо сервер отклонил перевыпуск
	ErrNoSession = errors.New("no valid session")

	// ErrInvalidCredentials - сервер отклонил логин и пароль
	ErrInvalidCredentials = errors.New("invalid credentials")
)
