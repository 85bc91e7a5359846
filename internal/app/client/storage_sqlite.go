package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"alfup/internal/app/client/crypto"
	"alfup/internal/app/client/migrations"
)

// SQLiteStore - защищенное хранилище на SQLite.
// Значения лежат в таблице secrets зашифрованными через Vault.
type SQLiteStore struct {
	db    *sql.DB
	vault *crypto.Vault
}

func NewSQLiteStore(path string, vault *crypto.Vault) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка инициализации схемы: %w", err)
	}

	return &SQLiteStore{db: db, vault: vault}, nil
}

// Get возвращает значение по ключу; для отсутствующего ключа - пустую строку
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM secrets WHERE key = ?", key).Scan(&sealed)
	if err == sql.ErrNoRows {
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

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.vault.Seal([]byte(value))
	if err != nil {
		return fmt.Errorf("ошибка шифрования значения: %w", err)
	}

	// Проверяем, существует ли запись
	var exists bool
	err = s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM secrets WHERE key = ?)", key).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки существования записи: %w", err)
	}

	now := time.Now().UTC()
	if exists {
		_, err = s.db.ExecContext(ctx,
			"UPDATE secrets SET value = ?, updated_at = ? WHERE key = ?",
			sealed, now, key)
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO secrets (key, value, updated_at) VALUES (?, ?, ?)",
			key, sealed, now)
	}
	if err != nil {
		return fmt.Errorf("ошибка сохранения значения: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM secrets WHERE key = ?", key); err != nil {
		return fmt.Errorf("ошибка удаления значения: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
