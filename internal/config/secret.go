package config

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// LoadOrCreateSecret returns the signing key stored at path. When the file
// does not exist a fresh key is generated and written there. A write failure
// is logged and the generated key is still returned.
func LoadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if key := bytes.TrimSpace(data); len(key) > 0 {
			return key, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read secret %s: %w", path, err)
	}

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	sum := sha1.Sum(seed)
	key := []byte(hex.EncodeToString(sum[:]))

	if err := os.WriteFile(path, key, 0o600); err != nil {
		slog.Warn("secret key not persisted", "path", path, "err", err)
	}
	return key, nil
}
