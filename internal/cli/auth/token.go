package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken — пользователь не выполнял login.
var ErrNoToken = errors.New("not logged in: run `skillctl login <token>`")

// SaveToken writes token to path, creating the parent directory.
func SaveToken(path, token string) error {
	if path == "" {
		return errors.New("token file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// LoadToken reads token from path.
func LoadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", err
	}
	// Trim any trailing newlines/spaces
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// DeleteToken removes the token file; a missing file is not an error.
func DeleteToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
