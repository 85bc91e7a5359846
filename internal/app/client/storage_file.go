package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"alfup/internal/app/client/crypto"
)

// FileStore - защищенное хранилище на файлах: одно значение - один файл,
// содержимое зашифровано через Vault. Используется там, где SQLite недоступен.
type FileStore struct {
	dir   string
	vault *crypto.Vault
}

func NewFileStore(dir string, vault *crypto.Vault) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории хранилища: %w", err)
	}
	return &FileStore{dir: dir, vault: vault}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".bin")
}

// Get возвращает значение по ключу; для отсутствующего ключа - пустую строку
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	sealed, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("ошибка чтения значения: %w", err)
	}

	value, err := s.vault.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("ошибка расшифровки значения: %w", err)
	}
	return string(value), nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	sealed, err := s.vault.Seal([]byte(value))
	if err != nil {
		return fmt.Errorf("ошибка шифрования значения: %w", err)
	}

	if err := os.WriteFile(s.path(key), sealed, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения значения: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления значения: %w", err)
	}
	return nil
}
