package session

import "context"

// AuthKey - ключ, под которым AuthRecord лежит в защищенном хранилище
const AuthKey = "auth"

// Store - контракт защищенного key-value хранилища на устройстве.
// Get для отсутствующего ключа возвращает пустую строку без ошибки.
// Реализации обязаны переживать перезапуск процесса; атомарность
// гарантируется только в пределах одного ключа.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
