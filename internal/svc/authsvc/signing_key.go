package authsvc

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MinKeySize is the minimum signing key length in bytes.
const MinKeySize = 32

// ErrKeyTooShort is returned when a configured or stored signing key has fewer than MinKeySize bytes.
var ErrKeyTooShort = errors.New("signing key too short")

// DecodeSigningKey decodes a base64 encoded signing secret.
func DecodeSigningKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		var urlErr error

		if key, urlErr = base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "=")); urlErr != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
	}

	if len(key) < MinKeySize {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrKeyTooShort, len(key), MinKeySize)
	}

	return key, nil
}

// GenerateSigningKey creates a random key of size bytes.
func GenerateSigningKey(size int) ([]byte, error) {
	key := make([]byte, size)

	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	return key, nil
}

// EncodeSigningKey encodes a key the way DecodeSigningKey expects it.
func EncodeSigningKey(key []byte) []byte {
	return []byte(base64.StdEncoding.EncodeToString(key) + "\n")
}

// GetSigningKey returns the configured secret if set. Otherwise it loads the key
// from cfg.SigningKeyFile, generating and saving a new one if the file does not exist.
func GetSigningKey(cfg AuthConfig) ([]byte, error) {
	if cfg.SigningSecret != "" {
		return DecodeSigningKey(cfg.SigningSecret)
	}

	buf, err := os.ReadFile(cfg.SigningKeyFile)
	if err == nil {
		key, err := DecodeSigningKey(string(buf))
		if err != nil {
			return nil, fmt.Errorf("decode key file: %w", err)
		}

		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key, err := GenerateSigningKey(MinKeySize * 2)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SigningKeyFile), 0o700); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}

	if err := os.WriteFile(cfg.SigningKeyFile, EncodeSigningKey(key), 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}

	return key, nil
}
