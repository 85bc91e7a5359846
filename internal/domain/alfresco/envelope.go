package alfresco

import (
	"encoding/json"
	"fmt"
)

// TypeContent - тип узла для загружаемых файлов
const TypeContent = "cm:content"

// Entry - полезная нагрузка успешного ответа репозитория.
// Для /tickets ID содержит тикет, для /nodes - идентификатор узла.
type Entry struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
}

// APIError - тело ошибки, которое возвращает репозиторий
type APIError struct {
	ErrorKey     string `json:"errorKey,omitempty"`
	StatusCode   int    `json:"statusCode,omitempty"`
	BriefSummary string `json:"briefSummary"`
}

// Envelope - тегированный конверт ответа репозитория.
// Каждый вызов API возвращает либо {entry}, либо {error} - ровно одно из двух.
// HTTP статус при этом не учитывается: успех/ошибка определяется только конвертом.
type Envelope struct {
	Entry *Entry    `json:"entry,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// OK сообщает, что конверт содержит успешный ответ
func (e *Envelope) OK() bool {
	return e != nil && e.Entry != nil
}

// DecodeEnvelope строго разбирает тело ответа репозитория.
// Конверт без entry и без error (или с обоими полями сразу) считается
// испорченным и возвращает ErrMalformedResponse - молча трактовать такой
// ответ как ошибку сервера нельзя.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Entry == nil && env.Error == nil {
		return nil, fmt.Errorf("%w: ни entry, ни error", ErrMalformedResponse)
	}
	if env.Entry != nil && env.Error != nil {
		return nil, fmt.Errorf("%w: entry и error одновременно", ErrMalformedResponse)
	}

	return &env, nil
}
