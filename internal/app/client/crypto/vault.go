package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Константы для PBKDF2
	pbkdf2Iterations = 100000
	pbkdf2KeyLength  = 32 // 256 бит для AES-256
	pbkdf2SaltLength = 16

	keyVersion = 1

	keyFilePermissions = 0600
)

// keyFile - содержимое файла ключа хранилища
type keyFile struct {
	Version    int    `json:"version"`
	Algorithm  string `json:"algorithm"`
	Secret     string `json:"secret"` // hex, случайный материал ключа
	Salt       string `json:"salt"`   // hex
	Iterations int    `json:"iterations"`
}

// Vault шифрует значения защищенного хранилища ключом, который живет в
// локальном файле с правами 0600. Материал ключа случайный и растягивается
// через PBKDF2-SHA256 с сохраненной солью.
type Vault struct {
	key []byte
}

// NewVault открывает файл ключа или создает его при первом запуске
func NewVault(keyPath string) (*Vault, error) {
	absPath, err := filepath.Abs(keyPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка определения пути: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return generateVault(absPath)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла ключа: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("ошибка декодирования файла ключа: %w", err)
	}
	if kf.Algorithm != "PBKDF2-SHA256" {
		return nil, fmt.Errorf("неподдерживаемый алгоритм: %s", kf.Algorithm)
	}

	secret, err := hex.DecodeString(kf.Secret)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования материала ключа: %w", err)
	}
	salt, err := hex.DecodeString(kf.Salt)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования соли: %w", err)
	}

	key := pbkdf2.Key(secret, salt, kf.Iterations, pbkdf2KeyLength, sha256.New)

	return &Vault{key: key}, nil
}

func generateVault(keyPath string) (*Vault, error) {
	secret := make([]byte, pbkdf2KeyLength)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("ошибка генерации соли: %w", err)
	}

	kf := keyFile{
		Version:    keyVersion,
		Algorithm:  "PBKDF2-SHA256",
		Secret:     hex.EncodeToString(secret),
		Salt:       hex.EncodeToString(salt),
		Iterations: pbkdf2Iterations,
	}

	data, err := json.Marshal(kf)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации файла ключа: %w", err)
	}
	if err := os.WriteFile(keyPath, data, keyFilePermissions); err != nil {
		return nil, fmt.Errorf("ошибка сохранения файла ключа: %w", err)
	}

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	return &Vault{key: key}, nil
}

// Seal шифрует значение AES-256-GCM, nonce добавляется в начало шифртекста
func (v *Vault) Seal(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания шифра: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open расшифровывает значение, зашифрованное Seal
func (v *Vault) Open(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания шифра: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("шифртекст короче nonce")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка расшифровки: %w", err)
	}

	return plaintext, nil
}
