package upload

import (
	"errors"
	"fmt"
)

// ErrAuthRequired - действующей сессии нет,
// вызывающему следует отправить пользователя на экран входа
var ErrAuthRequired = errors.New("authentication required")

// Error - отказ репозитория на одном из двух шагов загрузки.
// Summary содержит briefSummary, присланный сервером.
type Error struct {
	Summary string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload failed: %s", e.Summary)
}
